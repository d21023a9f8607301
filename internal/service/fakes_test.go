package service

import (
	"context"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"learning-service/internal/config"
	"learning-service/internal/models"
	"learning-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 24,
		ServiceName:    "learning-service",
	}
	os.Exit(m.Run())
}

// In-memory repository fakes. They mirror the behavior the mongo
// implementations get from unique indexes and atomic updates.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Insert(ctx context.Context, user *models.User) error {
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
		if user.StudentCode != "" && u.StudentCode == user.StudentCode {
			return repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.ToLower(username)
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByStudentCode(ctx context.Context, code string) (*models.User, error) {
	for _, u := range r.users {
		if u.StudentCode != "" && u.StudentCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByRoleAndStatuses(ctx context.Context, role string, statuses ...string) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Role != role {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if u.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string, approvedBy *primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Status = status
	if approvedBy != nil {
		u.ApprovedBy = approvedBy
	}
	return nil
}

func (r *fakeUserRepo) PushChild(ctx context.Context, ownerID, studentID primitive.ObjectID) error {
	u, ok := r.users[ownerID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if !u.HasChild(studentID) {
		u.Children = append(u.Children, studentID)
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.users, id)
	return nil
}

type fakeQuizRepo struct {
	quizzes map[primitive.ObjectID]*models.Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: make(map[primitive.ObjectID]*models.Quiz)}
}

func (r *fakeQuizRepo) Insert(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID.IsZero() {
		quiz.ID = primitive.NewObjectID()
	}
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r *fakeQuizRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	q, ok := r.quizzes[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuizRepo) FindByTopic(ctx context.Context, topicID primitive.ObjectID) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, q := range r.quizzes {
		if q.Topic == topicID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) CountByTopic(ctx context.Context, topicID primitive.ObjectID) (int64, error) {
	var n int64
	for _, q := range r.quizzes {
		if q.Topic == topicID {
			n++
		}
	}
	return n, nil
}

func (r *fakeQuizRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	q, ok := r.quizzes[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := update["title"]; ok {
		q.Title = v.(string)
	}
	if v, ok := update["topic"]; ok {
		q.Topic = v.(primitive.ObjectID)
	}
	if v, ok := update["questions"]; ok {
		q.Questions = v.([]models.Question)
	}
	return nil
}

func (r *fakeQuizRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.quizzes[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.quizzes, id)
	return nil
}

func (r *fakeQuizRepo) DeleteByTopic(ctx context.Context, topicID primitive.ObjectID) error {
	for id, q := range r.quizzes {
		if q.Topic == topicID {
			delete(r.quizzes, id)
		}
	}
	return nil
}

type fakeLessonRepo struct {
	lessons map[primitive.ObjectID]*models.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[primitive.ObjectID]*models.Lesson)}
}

func (r *fakeLessonRepo) Insert(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID.IsZero() {
		lesson.ID = primitive.NewObjectID()
	}
	r.lessons[lesson.ID] = lesson
	return nil
}

func (r *fakeLessonRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLessonRepo) FindByTopic(ctx context.Context, topicID primitive.ObjectID) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range r.lessons {
		if l.Topic == topicID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	l, ok := r.lessons[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := update["title"]; ok {
		l.Title = v.(string)
	}
	if v, ok := update["content"]; ok {
		l.Content = v.(string)
	}
	if v, ok := update["topic"]; ok {
		l.Topic = v.(primitive.ObjectID)
	}
	return nil
}

func (r *fakeLessonRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.lessons[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.lessons, id)
	return nil
}

func (r *fakeLessonRepo) DeleteByTopic(ctx context.Context, topicID primitive.ObjectID) error {
	for id, l := range r.lessons {
		if l.Topic == topicID {
			delete(r.lessons, id)
		}
	}
	return nil
}

type fakeTopicRepo struct {
	topics map[primitive.ObjectID]*models.Topic
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[primitive.ObjectID]*models.Topic)}
}

func (r *fakeTopicRepo) FindAll(ctx context.Context) ([]models.Topic, error) {
	var out []models.Topic
	for _, t := range r.topics {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTopicRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error) {
	t, ok := r.topics[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTopicRepo) Insert(ctx context.Context, topic *models.Topic) error {
	if topic.ID.IsZero() {
		topic.ID = primitive.NewObjectID()
	}
	r.topics[topic.ID] = topic
	return nil
}

func (r *fakeTopicRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	t, ok := r.topics[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := update["title"]; ok {
		t.Title = v.(string)
	}
	if v, ok := update["description"]; ok {
		t.Description = v.(string)
	}
	return nil
}

func (r *fakeTopicRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.topics[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.topics, id)
	return nil
}

func (r *fakeTopicRepo) TitlesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	titles := make(map[primitive.ObjectID]string)
	for _, id := range ids {
		if t, ok := r.topics[id]; ok {
			titles[id] = t.Title
		}
	}
	return titles, nil
}

type progressKey struct {
	student      primitive.ObjectID
	item         primitive.ObjectID
	progressType string
}

type fakeProgressRepo struct {
	records map[progressKey]*models.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[progressKey]*models.Progress)}
}

func (r *fakeProgressRepo) UpsertQuizAttempt(ctx context.Context, student, quiz, topic primitive.ObjectID, score float64, timeSpent int, answers []models.GradedAnswer) error {
	key := progressKey{student, quiz, models.ProgressQuiz}
	now := time.Now().UTC()
	rec, ok := r.records[key]
	if !ok {
		r.records[key] = &models.Progress{
			ID:           primitive.NewObjectID(),
			Student:      student,
			ProgressType: models.ProgressQuiz,
			Item:         quiz,
			Topic:        topic,
			Score:        score,
			TimeSpent:    timeSpent,
			Answers:      answers,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return nil
	}
	if score > rec.Score {
		rec.Score = score
	}
	rec.TimeSpent = timeSpent
	rec.Answers = answers
	rec.UpdatedAt = now
	return nil
}

func (r *fakeProgressRepo) InsertLessonCompletion(ctx context.Context, student, lesson, topic primitive.ObjectID) (bool, error) {
	key := progressKey{student, lesson, models.ProgressLesson}
	if _, ok := r.records[key]; ok {
		return false, nil
	}
	now := time.Now().UTC()
	r.records[key] = &models.Progress{
		ID:           primitive.NewObjectID(),
		Student:      student,
		ProgressType: models.ProgressLesson,
		Item:         lesson,
		Topic:        topic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return true, nil
}

func (r *fakeProgressRepo) FindOne(ctx context.Context, student, item primitive.ObjectID, progressType string) (*models.Progress, error) {
	rec, ok := r.records[progressKey{student, item, progressType}]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeProgressRepo) CountQuizProgress(ctx context.Context, student, topic primitive.ObjectID) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.Student == student && rec.Topic == topic && rec.ProgressType == models.ProgressQuiz {
			n++
		}
	}
	return n, nil
}

func (r *fakeProgressRepo) FindByStudent(ctx context.Context, student primitive.ObjectID) ([]models.Progress, error) {
	var out []models.Progress
	for _, rec := range r.records {
		if rec.Student == student {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProgressRepo) AverageScoreByTopic(ctx context.Context, student primitive.ObjectID) ([]models.TopicAverage, error) {
	sums := make(map[primitive.ObjectID]float64)
	counts := make(map[primitive.ObjectID]int)
	for _, rec := range r.records {
		if rec.Student == student && rec.ProgressType == models.ProgressQuiz {
			sums[rec.Topic] += rec.Score
			counts[rec.Topic]++
		}
	}
	var out []models.TopicAverage
	for topic, sum := range sums {
		out = append(out, models.TopicAverage{
			TopicID:      topic,
			AverageScore: sum / float64(counts[topic]),
		})
	}
	return out, nil
}

func (r *fakeProgressRepo) DeleteByItem(ctx context.Context, item primitive.ObjectID) error {
	for key := range r.records {
		if key.item == item {
			delete(r.records, key)
		}
	}
	return nil
}

func (r *fakeProgressRepo) DeleteByTopic(ctx context.Context, topic primitive.ObjectID) error {
	for key, rec := range r.records {
		if rec.Topic == topic {
			delete(r.records, key)
		}
	}
	return nil
}

type fakeRewardRepo struct {
	rewards map[primitive.ObjectID]*models.Reward
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{rewards: make(map[primitive.ObjectID]*models.Reward)}
}

func (r *fakeRewardRepo) Insert(ctx context.Context, reward *models.Reward) error {
	for _, rw := range r.rewards {
		if rw.Name == reward.Name {
			return repository.ErrDuplicate
		}
	}
	if reward.ID.IsZero() {
		reward.ID = primitive.NewObjectID()
	}
	r.rewards[reward.ID] = reward
	return nil
}

func (r *fakeRewardRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	rw, ok := r.rewards[id]
	if !ok {
		return nil, nil
	}
	cp := *rw
	return &cp, nil
}

func (r *fakeRewardRepo) FindAll(ctx context.Context) ([]models.Reward, error) {
	var out []models.Reward
	for _, rw := range r.rewards {
		out = append(out, *rw)
	}
	return out, nil
}

func (r *fakeRewardRepo) FindPerfectScore(ctx context.Context) (*models.Reward, error) {
	for _, rw := range r.rewards {
		if rw.Criteria.Type == models.CriteriaPerfectScore {
			cp := *rw
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRewardRepo) FindTopicCompletion(ctx context.Context, topicID string) (*models.Reward, error) {
	for _, rw := range r.rewards {
		if rw.Criteria.Type == models.CriteriaTopicCompletion && rw.Criteria.TopicID == topicID {
			cp := *rw
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRewardRepo) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	rw, ok := r.rewards[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := update["name"]; ok {
		rw.Name = v.(string)
	}
	if v, ok := update["description"]; ok {
		rw.Description = v.(string)
	}
	if v, ok := update["icon"]; ok {
		rw.Icon = v.(string)
	}
	if v, ok := update["criteria"]; ok {
		rw.Criteria = v.(models.Criteria)
	}
	return nil
}

func (r *fakeRewardRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.rewards[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.rewards, id)
	return nil
}

type grantKey struct {
	student primitive.ObjectID
	reward  primitive.ObjectID
}

type fakeUserRewardRepo struct {
	grants map[grantKey]models.UserReward
}

func newFakeUserRewardRepo() *fakeUserRewardRepo {
	return &fakeUserRewardRepo{grants: make(map[grantKey]models.UserReward)}
}

func (r *fakeUserRewardRepo) InsertGrant(ctx context.Context, student, reward primitive.ObjectID) (bool, error) {
	key := grantKey{student, reward}
	if _, ok := r.grants[key]; ok {
		return false, nil
	}
	r.grants[key] = models.UserReward{
		ID:         primitive.NewObjectID(),
		Student:    student,
		Reward:     reward,
		DateEarned: time.Now().UTC(),
	}
	return true, nil
}

func (r *fakeUserRewardRepo) FindByStudent(ctx context.Context, student primitive.ObjectID) ([]models.UserReward, error) {
	var out []models.UserReward
	for _, g := range r.grants {
		if g.Student == student {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateEarned.After(out[j].DateEarned) })
	return out, nil
}

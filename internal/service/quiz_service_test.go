package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type quizEnv struct {
	quizzes  *fakeQuizRepo
	progress *fakeProgressRepo
	rewards  *fakeRewardRepo
	grants   *fakeUserRewardRepo
	svc      *QuizService
	badges   *RewardService
}

func newQuizEnv() *quizEnv {
	quizzes := newFakeQuizRepo()
	progress := newFakeProgressRepo()
	rewards := newFakeRewardRepo()
	grants := newFakeUserRewardRepo()
	badges := NewRewardService(rewards, grants, quizzes, progress)
	return &quizEnv{
		quizzes:  quizzes,
		progress: progress,
		rewards:  rewards,
		grants:   grants,
		badges:   badges,
		svc:      NewQuizService(quizzes, progress, badges),
	}
}

// seedQuiz stores a quiz with n questions whose correct answer is always "A".
func seedQuiz(t *testing.T, env *quizEnv, topic primitive.ObjectID, n int) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{Title: "Quiz", Topic: topic}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			QuestionText:  "Q",
			Options:       []string{"A", "B"},
			CorrectAnswer: "A",
		})
	}
	quiz.AssignQuestionIDs()
	if err := env.quizzes.Insert(context.Background(), quiz); err != nil {
		t.Fatalf("seeding quiz: %v", err)
	}
	return quiz
}

// answersFor builds an answer map with the first correct questions answered
// "A" and the rest "B".
func answersFor(quiz *models.Quiz, correct int) map[string]string {
	answers := make(map[string]string)
	for i, q := range quiz.Questions {
		if i < correct {
			answers[q.ID] = "A"
		} else {
			answers[q.ID] = "B"
		}
	}
	return answers
}

func TestSubmitRecordsAttempt(t *testing.T) {
	env := newQuizEnv()
	topic := primitive.NewObjectID()
	student := primitive.NewObjectID()
	quiz := seedQuiz(t, env, topic, 4)

	result, err := env.svc.Submit(context.Background(), student, quiz.ID.Hex(), answersFor(quiz, 3), 120)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 75 {
		t.Errorf("score = %v, want 75", result.Score)
	}
	if result.CorrectAnswers != 3 || result.TotalQuestions != 4 {
		t.Errorf("correct/total = %d/%d, want 3/4", result.CorrectAnswers, result.TotalQuestions)
	}
	if result.NewRewards == nil {
		t.Error("NewRewards must be an empty slice, not nil")
	}

	rec, err := env.progress.FindOne(context.Background(), student, quiz.ID, models.ProgressQuiz)
	if err != nil || rec == nil {
		t.Fatalf("progress record missing: %v", err)
	}
	if rec.Score != 75 || rec.TimeSpent != 120 {
		t.Errorf("stored score/timeSpent = %v/%d, want 75/120", rec.Score, rec.TimeSpent)
	}
	if len(rec.Answers) != 4 {
		t.Errorf("stored %d graded answers, want 4", len(rec.Answers))
	}
}

func TestSubmitKeepsBestScore(t *testing.T) {
	env := newQuizEnv()
	topic := primitive.NewObjectID()
	student := primitive.NewObjectID()
	quiz := seedQuiz(t, env, topic, 4)
	ctx := context.Background()

	steps := []struct {
		correct   int
		timeSpent int
		wantBest  float64
	}{
		{3, 100, 75},
		{4, 90, 100},
		{1, 200, 100},
	}
	for _, step := range steps {
		if _, err := env.svc.Submit(ctx, student, quiz.ID.Hex(), answersFor(quiz, step.correct), step.timeSpent); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		rec, _ := env.progress.FindOne(ctx, student, quiz.ID, models.ProgressQuiz)
		if rec.Score != step.wantBest {
			t.Errorf("after %d correct: stored score = %v, want %v", step.correct, rec.Score, step.wantBest)
		}
		// answers and timeSpent always reflect the latest attempt
		if rec.TimeSpent != step.timeSpent {
			t.Errorf("timeSpent = %d, want %d", rec.TimeSpent, step.timeSpent)
		}
	}

	records, _ := env.progress.FindByStudent(ctx, student)
	if len(records) != 1 {
		t.Errorf("got %d progress records, want 1", len(records))
	}
}

func TestSubmitAwardsBadges(t *testing.T) {
	env := newQuizEnv()
	topic := primitive.NewObjectID()
	student := primitive.NewObjectID()
	quizA := seedQuiz(t, env, topic, 2)
	quizB := seedQuiz(t, env, topic, 2)
	ctx := context.Background()

	perfect := &models.Reward{Name: "Perfect!", Criteria: models.Criteria{Type: models.CriteriaPerfectScore}}
	completion := &models.Reward{Name: "Topic done", Criteria: models.Criteria{Type: models.CriteriaTopicCompletion, TopicID: topic.Hex()}}
	if err := env.rewards.Insert(ctx, perfect); err != nil {
		t.Fatal(err)
	}
	if err := env.rewards.Insert(ctx, completion); err != nil {
		t.Fatal(err)
	}

	// imperfect attempt on the first quiz: nothing earned yet
	result, err := env.svc.Submit(ctx, student, quizA.ID.Hex(), answersFor(quizA, 1), 60)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.NewRewards) != 0 {
		t.Fatalf("rewards after 50%% attempt = %d, want 0", len(result.NewRewards))
	}

	// perfect attempt on the second quiz completes the topic too
	result, err = env.svc.Submit(ctx, student, quizB.ID.Hex(), answersFor(quizB, 2), 60)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.NewRewards) != 2 {
		t.Fatalf("rewards after perfect attempt = %d, want 2", len(result.NewRewards))
	}

	// resubmitting grants nothing new
	result, err = env.svc.Submit(ctx, student, quizB.ID.Hex(), answersFor(quizB, 2), 60)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.NewRewards) != 0 {
		t.Errorf("rewards on resubmit = %d, want 0", len(result.NewRewards))
	}
}

func TestSubmitQuizNotFound(t *testing.T) {
	env := newQuizEnv()
	ctx := context.Background()

	_, err := env.svc.Submit(ctx, primitive.NewObjectID(), primitive.NewObjectID().Hex(), nil, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	_, err = env.svc.Submit(ctx, primitive.NewObjectID(), "bogus", nil, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("bad hex: err = %v, want ErrNotFound", err)
	}
}

func TestCreateRejectsInvalidQuiz(t *testing.T) {
	env := newQuizEnv()

	quiz := &models.Quiz{
		Title: "Broken",
		Topic: primitive.NewObjectID(),
		Questions: []models.Question{
			{QuestionText: "Q", Options: []string{"A", "B"}, CorrectAnswer: "C"},
		},
	}
	if err := env.svc.Create(context.Background(), quiz); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestGetStripsAnswersForStudents(t *testing.T) {
	env := newQuizEnv()
	quiz := seedQuiz(t, env, primitive.NewObjectID(), 2)
	ctx := context.Background()

	got, err := env.svc.Get(ctx, quiz.ID.Hex(), models.RoleStudent)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for i, q := range got.Questions {
		if q.CorrectAnswer != "" {
			t.Errorf("question %d: correct answer leaked to student", i)
		}
	}

	got, err = env.svc.Get(ctx, quiz.ID.Hex(), models.RoleTeacher)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Questions[0].CorrectAnswer != "A" {
		t.Error("teacher view must include the correct answer")
	}

	review, err := env.svc.GetForReview(ctx, quiz.ID.Hex())
	if err != nil {
		t.Fatalf("GetForReview: %v", err)
	}
	if review.Questions[0].CorrectAnswer != "A" {
		t.Error("review view must include the correct answer")
	}
}

func TestListByTopicOmitsAnswerKey(t *testing.T) {
	env := newQuizEnv()
	topic := primitive.NewObjectID()
	quiz := seedQuiz(t, env, topic, 3)
	seedQuiz(t, env, topic, 2)
	seedQuiz(t, env, primitive.NewObjectID(), 1)

	summaries, err := env.svc.ListByTopic(context.Background(), topic.Hex())
	if err != nil {
		t.Fatalf("ListByTopic: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	for _, s := range summaries {
		if s.ID.IsZero() || s.Title == "" || s.QuestionCount == 0 {
			t.Errorf("incomplete summary: %+v", s)
		}
		if s.ID == quiz.ID && s.QuestionCount != 3 {
			t.Errorf("questionCount = %d, want 3", s.QuestionCount)
		}
	}

	payload, err := json.Marshal(summaries)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, leak := range []string{"correctAnswer", "questionText", "options"} {
		if strings.Contains(string(payload), leak) {
			t.Errorf("list payload contains %q", leak)
		}
	}
}

func TestDeleteQuizCascades(t *testing.T) {
	env := newQuizEnv()
	topic := primitive.NewObjectID()
	student := primitive.NewObjectID()
	quiz := seedQuiz(t, env, topic, 2)
	ctx := context.Background()

	if _, err := env.svc.Submit(ctx, student, quiz.ID.Hex(), answersFor(quiz, 2), 30); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := env.svc.Delete(ctx, quiz.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rec, _ := env.progress.FindOne(ctx, student, quiz.ID, models.ProgressQuiz)
	if rec != nil {
		t.Error("progress record survived quiz deletion")
	}
	if err := env.svc.Delete(ctx, quiz.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

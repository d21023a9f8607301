package service

import (
	"context"
	"errors"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository contracts consumed by the services. The mongo implementations
// live in internal/repository; tests substitute in-memory fakes.

type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	FindByStudentCode(ctx context.Context, code string) (*models.User, error)
	FindByRoleAndStatuses(ctx context.Context, role string, statuses ...string) ([]models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string, approvedBy *primitive.ObjectID) error
	PushChild(ctx context.Context, ownerID, studentID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type QuizRepository interface {
	Insert(ctx context.Context, quiz *models.Quiz) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error)
	FindByTopic(ctx context.Context, topicID primitive.ObjectID) ([]models.Quiz, error)
	CountByTopic(ctx context.Context, topicID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByTopic(ctx context.Context, topicID primitive.ObjectID) error
}

type LessonRepository interface {
	Insert(ctx context.Context, lesson *models.Lesson) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error)
	FindByTopic(ctx context.Context, topicID primitive.ObjectID) ([]models.Lesson, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByTopic(ctx context.Context, topicID primitive.ObjectID) error
}

type TopicRepository interface {
	FindAll(ctx context.Context) ([]models.Topic, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error)
	Insert(ctx context.Context, topic *models.Topic) error
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	TitlesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type ProgressRepository interface {
	UpsertQuizAttempt(ctx context.Context, student, quiz, topic primitive.ObjectID, score float64, timeSpent int, answers []models.GradedAnswer) error
	InsertLessonCompletion(ctx context.Context, student, lesson, topic primitive.ObjectID) (bool, error)
	FindOne(ctx context.Context, student, item primitive.ObjectID, progressType string) (*models.Progress, error)
	CountQuizProgress(ctx context.Context, student, topic primitive.ObjectID) (int64, error)
	FindByStudent(ctx context.Context, student primitive.ObjectID) ([]models.Progress, error)
	AverageScoreByTopic(ctx context.Context, student primitive.ObjectID) ([]models.TopicAverage, error)
	DeleteByItem(ctx context.Context, item primitive.ObjectID) error
	DeleteByTopic(ctx context.Context, topic primitive.ObjectID) error
}

type RewardRepository interface {
	Insert(ctx context.Context, reward *models.Reward) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error)
	FindAll(ctx context.Context) ([]models.Reward, error)
	FindPerfectScore(ctx context.Context) (*models.Reward, error)
	FindTopicCompletion(ctx context.Context, topicID string) (*models.Reward, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserRewardRepository interface {
	InsertGrant(ctx context.Context, student, reward primitive.ObjectID) (bool, error)
	FindByStudent(ctx context.Context, student primitive.ObjectID) ([]models.UserReward, error)
}

// isNoDocuments reports whether a repository signalled a missing document on
// an update or delete.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// objectID parses a client-supplied hex id. Bad ids can't match anything, so
// they surface as ErrNotFound rather than a storage error.
func objectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

package service

import (
	"context"
	"fmt"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type TopicService struct {
	Topics   TopicRepository
	Quizzes  QuizRepository
	Lessons  LessonRepository
	Progress ProgressRepository
}

func NewTopicService(topics TopicRepository, quizzes QuizRepository, lessons LessonRepository, progress ProgressRepository) *TopicService {
	return &TopicService{Topics: topics, Quizzes: quizzes, Lessons: lessons, Progress: progress}
}

func (s *TopicService) List(ctx context.Context) ([]models.Topic, error) {
	return s.Topics.FindAll(ctx)
}

func (s *TopicService) Get(ctx context.Context, id string) (*models.Topic, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	topic, err := s.Topics.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: topic", ErrNotFound)
	}
	return topic, nil
}

func (s *TopicService) Create(ctx context.Context, topic *models.Topic) error {
	return s.Topics.Insert(ctx, topic)
}

func (s *TopicService) Update(ctx context.Context, id string, topic *models.Topic) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = s.Topics.Update(ctx, oid, bson.M{
		"title":       topic.Title,
		"description": topic.Description,
		"coverImage":  topic.CoverImage,
	})
	if err != nil && isNoDocuments(err) {
		return fmt.Errorf("%w: topic", ErrNotFound)
	}
	return err
}

// Delete removes a topic together with its quizzes, lessons and any progress
// recorded against it.
func (s *TopicService) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = s.Topics.Delete(ctx, oid)
	if err != nil {
		if isNoDocuments(err) {
			return fmt.Errorf("%w: topic", ErrNotFound)
		}
		return err
	}
	if err := s.Quizzes.DeleteByTopic(ctx, oid); err != nil {
		return err
	}
	if err := s.Lessons.DeleteByTopic(ctx, oid); err != nil {
		return err
	}
	return s.Progress.DeleteByTopic(ctx, oid)
}

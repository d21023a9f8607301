package service

import (
	"context"
	"fmt"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LessonService struct {
	Lessons  LessonRepository
	Progress ProgressRepository
}

func NewLessonService(lessons LessonRepository, progress ProgressRepository) *LessonService {
	return &LessonService{Lessons: lessons, Progress: progress}
}

func (s *LessonService) Create(ctx context.Context, lesson *models.Lesson) error {
	return s.Lessons.Insert(ctx, lesson)
}

func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	lesson, err := s.Lessons.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson", ErrNotFound)
	}
	return lesson, nil
}

func (s *LessonService) ListByTopic(ctx context.Context, topicID string) ([]models.Lesson, error) {
	oid, err := objectID(topicID)
	if err != nil {
		return nil, err
	}
	return s.Lessons.FindByTopic(ctx, oid)
}

func (s *LessonService) Update(ctx context.Context, id string, lesson *models.Lesson) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = s.Lessons.Update(ctx, oid, bson.M{
		"title":   lesson.Title,
		"content": lesson.Content,
		"topic":   lesson.Topic,
	})
	if err != nil && isNoDocuments(err) {
		return fmt.Errorf("%w: lesson", ErrNotFound)
	}
	return err
}

func (s *LessonService) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = s.Lessons.Delete(ctx, oid)
	if err != nil {
		if isNoDocuments(err) {
			return fmt.Errorf("%w: lesson", ErrNotFound)
		}
		return err
	}
	return s.Progress.DeleteByItem(ctx, oid)
}

// MarkComplete records a lesson completion for a student. Completing the same
// lesson twice is a no-op, reported via alreadyDone.
func (s *LessonService) MarkComplete(ctx context.Context, student primitive.ObjectID, lessonID string) (alreadyDone bool, err error) {
	lesson, err := s.Get(ctx, lessonID)
	if err != nil {
		return false, err
	}
	created, err := s.Progress.InsertLessonCompletion(ctx, student, lesson.ID, lesson.Topic)
	if err != nil {
		return false, fmt.Errorf("recording completion: %w", err)
	}
	return !created, nil
}

func (s *LessonService) CompletionStatus(ctx context.Context, student primitive.ObjectID, lessonID string) (bool, error) {
	lesson, err := s.Get(ctx, lessonID)
	if err != nil {
		return false, err
	}
	record, err := s.Progress.FindOne(ctx, student, lesson.ID, models.ProgressLesson)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

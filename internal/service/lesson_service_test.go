package service

import (
	"context"
	"errors"
	"testing"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newLessonService() (*LessonService, *fakeLessonRepo, *fakeProgressRepo) {
	lessons := newFakeLessonRepo()
	progress := newFakeProgressRepo()
	return NewLessonService(lessons, progress), lessons, progress
}

func seedLesson(t *testing.T, lessons *fakeLessonRepo, topic primitive.ObjectID) *models.Lesson {
	t.Helper()
	lesson := &models.Lesson{Title: "Intro", Topic: topic, Content: "Read this."}
	if err := lessons.Insert(context.Background(), lesson); err != nil {
		t.Fatalf("seeding lesson: %v", err)
	}
	return lesson
}

func TestMarkComplete(t *testing.T) {
	svc, lessons, progress := newLessonService()
	ctx := context.Background()
	topic := primitive.NewObjectID()
	student := primitive.NewObjectID()
	lesson := seedLesson(t, lessons, topic)

	alreadyDone, err := svc.MarkComplete(ctx, student, lesson.ID.Hex())
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if alreadyDone {
		t.Error("first completion reported as already done")
	}

	rec, _ := progress.FindOne(ctx, student, lesson.ID, models.ProgressLesson)
	if rec == nil {
		t.Fatal("completion not recorded")
	}
	if rec.Topic != topic {
		t.Error("completion recorded under the wrong topic")
	}

	alreadyDone, err = svc.MarkComplete(ctx, student, lesson.ID.Hex())
	if err != nil {
		t.Fatalf("MarkComplete again: %v", err)
	}
	if !alreadyDone {
		t.Error("second completion not reported as already done")
	}

	records, _ := progress.FindByStudent(ctx, student)
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestMarkCompleteMissingLesson(t *testing.T) {
	svc, _, _ := newLessonService()

	_, err := svc.MarkComplete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCompletionStatus(t *testing.T) {
	svc, lessons, _ := newLessonService()
	ctx := context.Background()
	student := primitive.NewObjectID()
	lesson := seedLesson(t, lessons, primitive.NewObjectID())

	done, err := svc.CompletionStatus(ctx, student, lesson.ID.Hex())
	if err != nil {
		t.Fatalf("CompletionStatus: %v", err)
	}
	if done {
		t.Error("lesson reported complete before completion")
	}

	if _, err := svc.MarkComplete(ctx, student, lesson.ID.Hex()); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	done, err = svc.CompletionStatus(ctx, student, lesson.ID.Hex())
	if err != nil {
		t.Fatalf("CompletionStatus: %v", err)
	}
	if !done {
		t.Error("lesson not reported complete")
	}
}

func TestLessonDeleteCascades(t *testing.T) {
	svc, lessons, progress := newLessonService()
	ctx := context.Background()
	student := primitive.NewObjectID()
	lesson := seedLesson(t, lessons, primitive.NewObjectID())

	if _, err := svc.MarkComplete(ctx, student, lesson.ID.Hex()); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if err := svc.Delete(ctx, lesson.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rec, _ := progress.FindOne(ctx, student, lesson.ID, models.ProgressLesson)
	if rec != nil {
		t.Error("progress record survived lesson deletion")
	}
}

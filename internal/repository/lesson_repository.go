package repository

import (
	"context"
	"errors"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LessonRepository struct {
	Col *mongo.Collection
}

func NewLessonRepository(db *mongo.Database) *LessonRepository {
	return &LessonRepository{Col: db.Collection("lessons")}
}

func (r *LessonRepository) Insert(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID.IsZero() {
		lesson.ID = primitive.NewObjectID()
	}
	_, err := r.Col.InsertOne(ctx, lesson)
	return err
}

func (r *LessonRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByTopic(ctx context.Context, topicID primitive.ObjectID) ([]models.Lesson, error) {
	cur, err := r.Col.Find(ctx, bson.M{"topic": topicID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var lessons []models.Lesson
	if err := cur.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *LessonRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updatedAt"] = time.Now().UTC()
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *LessonRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *LessonRepository) DeleteByTopic(ctx context.Context, topicID primitive.ObjectID) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"topic": topicID})
	return err
}

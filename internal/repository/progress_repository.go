package repository

import (
	"context"
	"errors"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("progress")}
}

// UpsertQuizAttempt records a quiz attempt in one atomic update. $max keeps
// the stored score monotonic while answers, timeSpent and updatedAt always
// take the latest attempt's values, even when two submissions race.
func (r *ProgressRepository) UpsertQuizAttempt(ctx context.Context, student, quiz, topic primitive.ObjectID, score float64, timeSpent int, answers []models.GradedAnswer) error {
	now := time.Now().UTC()
	filter := bson.M{
		"student":      student,
		"item":         quiz,
		"progressType": models.ProgressQuiz,
	}
	update := bson.M{
		"$max": bson.M{"score": score},
		"$set": bson.M{
			"answers":   answers,
			"timeSpent": timeSpent,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"topic":     topic,
			"createdAt": now,
		},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// InsertLessonCompletion reports created=false when the lesson was already
// marked complete. The unique (student,item,progressType) index resolves
// concurrent completions to a single record.
func (r *ProgressRepository) InsertLessonCompletion(ctx context.Context, student, lesson, topic primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"student":      student,
		"item":         lesson,
		"progressType": models.ProgressLesson,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"topic":     topic,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	res, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *ProgressRepository) FindOne(ctx context.Context, student, item primitive.ObjectID, progressType string) (*models.Progress, error) {
	var p models.Progress
	err := r.Col.FindOne(ctx, bson.M{
		"student":      student,
		"item":         item,
		"progressType": progressType,
	}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) CountQuizProgress(ctx context.Context, student, topic primitive.ObjectID) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"student":      student,
		"topic":        topic,
		"progressType": models.ProgressQuiz,
	})
}

func (r *ProgressRepository) FindByStudent(ctx context.Context, student primitive.ObjectID) ([]models.Progress, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := r.Col.Find(ctx, bson.M{"student": student}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var records []models.Progress
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AverageScoreByTopic feeds the dashboard chart: mean quiz score per topic
// for one student, joined with the topic title.
func (r *ProgressRepository) AverageScoreByTopic(ctx context.Context, student primitive.ObjectID) ([]models.TopicAverage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"student": student, "progressType": models.ProgressQuiz}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$topic",
			"averageScore": bson.M{"$avg": "$score"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "topics",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "topicDetails",
		}}},
		{{Key: "$unwind", Value: "$topicDetails"}},
		{{Key: "$project", Value: bson.M{
			"topicTitle":   "$topicDetails.title",
			"averageScore": 1,
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var averages []models.TopicAverage
	if err := cur.All(ctx, &averages); err != nil {
		return nil, err
	}
	return averages, nil
}

func (r *ProgressRepository) DeleteByItem(ctx context.Context, item primitive.ObjectID) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"item": item})
	return err
}

func (r *ProgressRepository) DeleteByTopic(ctx context.Context, topic primitive.ObjectID) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"topic": topic})
	return err
}

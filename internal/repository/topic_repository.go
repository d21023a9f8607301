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

type TopicRepository struct {
	Col *mongo.Collection
}

func NewTopicRepository(db *mongo.Database) *TopicRepository {
	return &TopicRepository{Col: db.Collection("topics")}
}

func (r *TopicRepository) FindAll(ctx context.Context) ([]models.Topic, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var topics []models.Topic
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *TopicRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error) {
	var topic models.Topic
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&topic)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) Insert(ctx context.Context, topic *models.Topic) error {
	if topic.ID.IsZero() {
		topic.ID = primitive.NewObjectID()
	}
	_, err := r.Col.InsertOne(ctx, topic)
	return err
}

func (r *TopicRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
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

func (r *TopicRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *TopicRepository) TitlesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	titles := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var topics []models.Topic
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	for _, t := range topics {
		titles[t.ID] = t.Title
	}
	return titles, nil
}

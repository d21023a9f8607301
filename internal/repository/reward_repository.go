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

type RewardRepository struct {
	Col *mongo.Collection
}

func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{Col: db.Collection("rewards")}
}

func (r *RewardRepository) Insert(ctx context.Context, reward *models.Reward) error {
	if reward.ID.IsZero() {
		reward.ID = primitive.NewObjectID()
	}
	_, err := r.Col.InsertOne(ctx, reward)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *RewardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	var reward models.Reward
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&reward)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) FindAll(ctx context.Context) ([]models.Reward, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rewards []models.Reward
	if err := cur.All(ctx, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *RewardRepository) FindPerfectScore(ctx context.Context) (*models.Reward, error) {
	var reward models.Reward
	err := r.Col.FindOne(ctx, bson.M{"criteria.type": models.CriteriaPerfectScore}).Decode(&reward)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) FindTopicCompletion(ctx context.Context, topicID string) (*models.Reward, error) {
	var reward models.Reward
	err := r.Col.FindOne(ctx, bson.M{
		"criteria.type":    models.CriteriaTopicCompletion,
		"criteria.topicId": topicID,
	}).Decode(&reward)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RewardRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

type UserRewardRepository struct {
	Col *mongo.Collection
}

func NewUserRewardRepository(db *mongo.Database) *UserRewardRepository {
	return &UserRewardRepository{Col: db.Collection("userRewards")}
}

// InsertGrant awards a reward to a student. granted=false means the student
// already holds it; the unique (student,reward) index makes the duplicate
// insert a clean no-op instead of a second grant.
func (r *UserRewardRepository) InsertGrant(ctx context.Context, student, reward primitive.ObjectID) (bool, error) {
	grant := models.UserReward{
		ID:         primitive.NewObjectID(),
		Student:    student,
		Reward:     reward,
		DateEarned: time.Now().UTC(),
	}
	_, err := r.Col.InsertOne(ctx, grant)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *UserRewardRepository) FindByStudent(ctx context.Context, student primitive.ObjectID) ([]models.UserReward, error) {
	opts := options.Find().SetSort(bson.M{"dateEarned": -1})
	cur, err := r.Col.Find(ctx, bson.M{"student": student}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var grants []models.UserReward
	if err := cur.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

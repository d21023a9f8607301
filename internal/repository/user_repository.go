package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

// ErrDuplicate is returned when a unique index rejects an insert or update.
var ErrDuplicate = errors.New("duplicate key")

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.Col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByLogin matches either the username or the email, case-insensitively.
// Both fields are stored lowercase so lowering the input suffices.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"$or": []bson.M{
		{"username": login},
		{"email": login},
	}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"$or": []bson.M{
		{"username": strings.ToLower(strings.TrimSpace(username))},
		{"email": strings.ToLower(strings.TrimSpace(email))},
	}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByStudentCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"studentCode": code}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByRoleAndStatuses(ctx context.Context, role string, statuses ...string) ([]models.User, error) {
	filter := bson.M{"role": role}
	if len(statuses) == 1 {
		filter["status"] = statuses[0]
	} else if len(statuses) > 1 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string, approvedBy *primitive.ObjectID) error {
	update := bson.M{"status": status, "updatedAt": time.Now().UTC()}
	if approvedBy != nil {
		update["approvedBy"] = *approvedBy
	}
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PushChild links a student under a parent or teacher. $addToSet keeps the
// link idempotent under concurrent requests.
func (r *UserRepository) PushChild(ctx context.Context, ownerID, studentID primitive.ObjectID) error {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{
			"$addToSet": bson.M{"children": studentID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

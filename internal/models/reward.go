package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CriteriaPerfectScore    = "perfect_score"
	CriteriaTopicCompletion = "topic_completion"
)

// Criteria is the closed set of badge rules. TopicID is set only for
// topic_completion and holds the topic's hex id.
type Criteria struct {
	Type    string `bson:"type" json:"type"`
	TopicID string `bson:"topicId,omitempty" json:"topicId,omitempty"`
}

func (c Criteria) Validate() error {
	switch c.Type {
	case CriteriaPerfectScore:
		return nil
	case CriteriaTopicCompletion:
		if _, err := primitive.ObjectIDFromHex(c.TopicID); err != nil {
			return errors.New("topic_completion criteria requires a valid topicId")
		}
		return nil
	}
	return errors.New("criteria type must be perfect_score or topic_completion")
}

type Reward struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon" json:"icon"`
	Criteria    Criteria           `bson:"criteria" json:"criteria"`
}

// UserReward records that a student earned a reward. The (student, reward)
// pair is unique for all time.
type UserReward struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Student    primitive.ObjectID `bson:"student" json:"student"`
	Reward     primitive.ObjectID `bson:"reward" json:"reward"`
	DateEarned time.Time          `bson:"dateEarned" json:"dateEarned"`
}

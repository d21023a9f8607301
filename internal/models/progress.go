package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProgressQuiz   = "quiz"
	ProgressLesson = "lesson"
)

// Progress is the single completion record per (student, item, type). The
// quiz variant carries the best score so far; answers and timeSpent always
// reflect the latest attempt.
type Progress struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Student      primitive.ObjectID `bson:"student" json:"student"`
	ProgressType string             `bson:"progressType" json:"progressType"`
	Item         primitive.ObjectID `bson:"item" json:"item"`
	Topic        primitive.ObjectID `bson:"topic" json:"topic"`
	Score        float64            `bson:"score,omitempty" json:"score,omitempty"`
	TimeSpent    int                `bson:"timeSpent,omitempty" json:"timeSpent,omitempty"`
	Answers      []GradedAnswer     `bson:"answers,omitempty" json:"answers,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TopicAverage is one bucket of the per-topic average score aggregation used
// by the dashboard chart.
type TopicAverage struct {
	TopicID      primitive.ObjectID `bson:"_id" json:"topicId"`
	TopicTitle   string             `bson:"topicTitle" json:"topic"`
	AverageScore float64            `bson:"averageScore" json:"averageScore"`
}

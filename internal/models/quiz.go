package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoAnswer is recorded for questions the student left blank. It can never
// equal a correct answer because quiz validation rejects empty options.
const NoAnswer = "Not answered"

type Question struct {
	ID            string   `bson:"id" json:"id"`
	QuestionText  string   `bson:"questionText" json:"questionText"`
	Options       []string `bson:"options" json:"options"`
	CorrectAnswer string   `bson:"correctAnswer" json:"correctAnswer,omitempty"`
}

type Quiz struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Topic     primitive.ObjectID `bson:"topic" json:"topic"`
	Title     string             `bson:"title" json:"title"`
	Questions []Question         `bson:"questions" json:"questions"`
	CreatedBy primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type GradedAnswer struct {
	QuestionText   string `bson:"questionText" json:"questionText"`
	SelectedAnswer string `bson:"selectedAnswer" json:"selectedAnswer"`
	IsCorrect      bool   `bson:"isCorrect" json:"isCorrect"`
}

type GradeResult struct {
	Score          float64
	TotalQuestions int
	CorrectAnswers int
	Answers        []GradedAnswer
}

// Grade scores a submission against the quiz's answer key. Answers are keyed
// by question id; a missing entry is marked NoAnswer and counted wrong.
// Matching is exact text equality with the correct option.
func (q *Quiz) Grade(answers map[string]string) GradeResult {
	correct := 0
	graded := make([]GradedAnswer, 0, len(q.Questions))
	for _, question := range q.Questions {
		selected, ok := answers[question.ID]
		if !ok || selected == "" {
			selected = NoAnswer
		}
		isCorrect := selected == question.CorrectAnswer
		if isCorrect {
			correct++
		}
		graded = append(graded, GradedAnswer{
			QuestionText:   question.QuestionText,
			SelectedAnswer: selected,
			IsCorrect:      isCorrect,
		})
	}
	score := 0.0
	if len(q.Questions) > 0 {
		score = float64(correct) / float64(len(q.Questions)) * 100
	}
	return GradeResult{
		Score:          score,
		TotalQuestions: len(q.Questions),
		CorrectAnswers: correct,
		Answers:        graded,
	}
}

// Validate checks the answer-key invariants before a quiz is stored. Since
// grading joins on option text, duplicate option text inside one question is
// rejected outright.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return errors.New("quiz must have at least one question")
	}
	for i, question := range q.Questions {
		if question.QuestionText == "" {
			return fmt.Errorf("question %d: text is required", i+1)
		}
		if len(question.Options) == 0 {
			return fmt.Errorf("question %d: at least one option is required", i+1)
		}
		seen := make(map[string]bool, len(question.Options))
		found := false
		for _, opt := range question.Options {
			if opt == "" {
				return fmt.Errorf("question %d: options must not be empty", i+1)
			}
			if seen[opt] {
				return fmt.Errorf("question %d: duplicate option %q", i+1, opt)
			}
			seen[opt] = true
			if opt == question.CorrectAnswer {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("question %d: correct answer must be one of the options", i+1)
		}
	}
	return nil
}

// AssignQuestionIDs fills in ids for questions that don't have one yet, so
// submissions can reference questions stably.
func (q *Quiz) AssignQuestionIDs() {
	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = primitive.NewObjectID().Hex()
		}
	}
}

// QuizSummary is the listing shape: enough to render a topic's quiz list
// without shipping questions, let alone the answer key.
type QuizSummary struct {
	ID            primitive.ObjectID `json:"id"`
	Topic         primitive.ObjectID `json:"topic"`
	Title         string             `json:"title"`
	QuestionCount int                `json:"questionCount"`
}

func (q *Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Topic:         q.Topic,
		Title:         q.Title,
		QuestionCount: len(q.Questions),
	}
}

// StudentView strips the answer key from a quiz so students can take it
// without seeing the correct options.
func (q *Quiz) StudentView() Quiz {
	view := *q
	view.Questions = make([]Question, len(q.Questions))
	copy(view.Questions, q.Questions)
	for i := range view.Questions {
		view.Questions[i].CorrectAnswer = ""
	}
	return view
}

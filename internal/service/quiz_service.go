package service

import (
	"context"
	"fmt"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuizService struct {
	Quizzes  QuizRepository
	Progress ProgressRepository
	Badges   *RewardService
}

func NewQuizService(quizzes QuizRepository, progress ProgressRepository, badges *RewardService) *QuizService {
	return &QuizService{Quizzes: quizzes, Progress: progress, Badges: badges}
}

type SubmitResult struct {
	Score          float64         `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	CorrectAnswers int             `json:"correctAnswers"`
	NewRewards     []models.Reward `json:"newRewards"`
}

// Submit grades a student's answers, records the attempt in the progress
// ledger and evaluates badge eligibility with the fresh attempt score.
func (s *QuizService) Submit(ctx context.Context, student primitive.ObjectID, quizID string, answers map[string]string, timeSpent int) (*SubmitResult, error) {
	id, err := objectID(quizID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading quiz: %w", err)
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz", ErrNotFound)
	}

	result := quiz.Grade(answers)

	if err := s.Progress.UpsertQuizAttempt(ctx, student, quiz.ID, quiz.Topic, result.Score, timeSpent, result.Answers); err != nil {
		return nil, fmt.Errorf("recording attempt: %w", err)
	}

	newRewards, err := s.Badges.EvaluateBadges(ctx, student, result.Score, quiz.Topic)
	if err != nil {
		return nil, err
	}
	if newRewards == nil {
		newRewards = []models.Reward{}
	}

	return &SubmitResult{
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		NewRewards:     newRewards,
	}, nil
}

func (s *QuizService) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.AssignQuestionIDs()
	if err := quiz.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return s.Quizzes.Insert(ctx, quiz)
}

// Get returns a quiz, stripping the answer key when the requester is a
// student.
func (s *QuizService) Get(ctx context.Context, id string, requesterRole string) (*models.Quiz, error) {
	quiz, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if requesterRole == models.RoleStudent {
		view := quiz.StudentView()
		return &view, nil
	}
	return quiz, nil
}

// GetForReview returns the full quiz including the answer key, for parents
// and teachers going over a student's attempt.
func (s *QuizService) GetForReview(ctx context.Context, id string) (*models.Quiz, error) {
	return s.find(ctx, id)
}

func (s *QuizService) find(ctx context.Context, id string) (*models.Quiz, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz", ErrNotFound)
	}
	return quiz, nil
}

// ListByTopic returns summaries only. Full documents carry the answer key,
// which must never ride along on a listing any role can call.
func (s *QuizService) ListByTopic(ctx context.Context, topicID string) ([]models.QuizSummary, error) {
	oid, err := objectID(topicID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.Quizzes.FindByTopic(ctx, oid)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.QuizSummary, 0, len(quizzes))
	for i := range quizzes {
		summaries = append(summaries, quizzes[i].Summary())
	}
	return summaries, nil
}

func (s *QuizService) Update(ctx context.Context, id string, quiz *models.Quiz) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	quiz.AssignQuestionIDs()
	if err := quiz.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	err = s.Quizzes.Update(ctx, oid, bson.M{
		"title":     quiz.Title,
		"topic":     quiz.Topic,
		"questions": quiz.Questions,
	})
	if err != nil && isNoDocuments(err) {
		return fmt.Errorf("%w: quiz", ErrNotFound)
	}
	return err
}

// Delete removes a quiz and the progress records pointing at it.
func (s *QuizService) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = s.Quizzes.Delete(ctx, oid)
	if err != nil {
		if isNoDocuments(err) {
			return fmt.Errorf("%w: quiz", ErrNotFound)
		}
		return err
	}
	return s.Progress.DeleteByItem(ctx, oid)
}

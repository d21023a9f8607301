package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learning-service/internal/event"
	"learning-service/internal/models"
	"learning-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publisher pushes domain events onto the message bus.
type Publisher interface {
	Publish(eventType string, payload interface{}) error
}

type RewardService struct {
	Rewards  RewardRepository
	Grants   UserRewardRepository
	Quizzes  QuizRepository
	Progress ProgressRepository
	Events   Publisher
}

func NewRewardService(rewards RewardRepository, grants UserRewardRepository, quizzes QuizRepository, progress ProgressRepository) *RewardService {
	return &RewardService{Rewards: rewards, Grants: grants, Quizzes: quizzes, Progress: progress}
}

func (s *RewardService) announce(student primitive.ObjectID, reward *models.Reward) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(event.RewardGranted, map[string]interface{}{
		"userId":     student.Hex(),
		"rewardId":   reward.ID.Hex(),
		"rewardName": reward.Name,
	})
}

// EvaluateBadges runs both eligibility rules after a quiz attempt and returns
// the rewards granted by this call. attemptScore is the fresh attempt's
// score, not the stored best. Grant uniqueness rides on the (student,reward)
// unique index, so a concurrent duplicate grant collapses to a no-op.
func (s *RewardService) EvaluateBadges(ctx context.Context, student primitive.ObjectID, attemptScore float64, topic primitive.ObjectID) ([]models.Reward, error) {
	var earned []models.Reward

	if attemptScore == 100 {
		reward, err := s.Rewards.FindPerfectScore(ctx)
		if err != nil {
			return nil, fmt.Errorf("looking up perfect-score reward: %w", err)
		}
		if reward != nil {
			granted, err := s.Grants.InsertGrant(ctx, student, reward.ID)
			if err != nil {
				return nil, fmt.Errorf("granting reward: %w", err)
			}
			if granted {
				earned = append(earned, *reward)
				s.announce(student, reward)
			}
		}
	}

	total, err := s.Quizzes.CountByTopic(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("counting topic quizzes: %w", err)
	}
	completed, err := s.Progress.CountQuizProgress(ctx, student, topic)
	if err != nil {
		return nil, fmt.Errorf("counting completed quizzes: %w", err)
	}
	if total > 0 && total == completed {
		reward, err := s.Rewards.FindTopicCompletion(ctx, topic.Hex())
		if err != nil {
			return nil, fmt.Errorf("looking up topic-completion reward: %w", err)
		}
		if reward != nil {
			granted, err := s.Grants.InsertGrant(ctx, student, reward.ID)
			if err != nil {
				return nil, fmt.Errorf("granting reward: %w", err)
			}
			if granted {
				earned = append(earned, *reward)
				s.announce(student, reward)
			}
		}
	}

	return earned, nil
}

func (s *RewardService) Create(ctx context.Context, reward *models.Reward) error {
	if err := reward.Criteria.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	err := s.Rewards.Insert(ctx, reward)
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: a reward with this name already exists", ErrConflict)
	}
	return err
}

func (s *RewardService) Get(ctx context.Context, id string) (*models.Reward, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	reward, err := s.Rewards.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, ErrNotFound
	}
	return reward, nil
}

func (s *RewardService) List(ctx context.Context) ([]models.Reward, error) {
	return s.Rewards.FindAll(ctx)
}

func (s *RewardService) Update(ctx context.Context, id string, reward *models.Reward) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if err := reward.Criteria.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	err = s.Rewards.Update(ctx, oid, bson.M{
		"name":        reward.Name,
		"description": reward.Description,
		"icon":        reward.Icon,
		"criteria":    reward.Criteria,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: a reward with this name already exists", ErrConflict)
	}
	if err != nil && isNoDocuments(err) {
		return ErrNotFound
	}
	return err
}

func (s *RewardService) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = s.Rewards.Delete(ctx, oid)
	if err != nil && isNoDocuments(err) {
		return ErrNotFound
	}
	return err
}

// EarnedReward joins a grant with its reward definition for the student's
// trophy shelf.
type EarnedReward struct {
	Reward     models.Reward `json:"reward"`
	DateEarned time.Time     `json:"dateEarned"`
}

func (s *RewardService) MyRewards(ctx context.Context, student primitive.ObjectID) ([]EarnedReward, error) {
	grants, err := s.Grants.FindByStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	earned := make([]EarnedReward, 0, len(grants))
	for _, grant := range grants {
		reward, err := s.Rewards.FindByID(ctx, grant.Reward)
		if err != nil {
			return nil, err
		}
		if reward == nil {
			// reward deleted after it was earned; skip the orphan grant
			continue
		}
		earned = append(earned, EarnedReward{Reward: *reward, DateEarned: grant.DateEarned})
	}
	return earned, nil
}

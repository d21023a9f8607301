package service

import (
	"context"
	"fmt"
	"math"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DashboardService struct {
	Progress ProgressRepository
	Topics   TopicRepository
}

func NewDashboardService(progress ProgressRepository, topics TopicRepository) *DashboardService {
	return &DashboardService{Progress: progress, Topics: topics}
}

type Activity struct {
	ProgressType string             `json:"progressType"`
	ItemID       primitive.ObjectID `json:"itemId"`
	TopicID      primitive.ObjectID `json:"topicId"`
	TopicTitle   string             `json:"topicTitle"`
	Score        float64            `json:"score,omitempty"`
	CreatedAt    string             `json:"createdAt"`
}

type DashboardStats struct {
	TotalQuizzes  int     `json:"totalQuizzes"`
	AverageScore  float64 `json:"averageScore"`
	TotalLessons  int     `json:"totalLessons"`
	TopicsLearned int     `json:"topicsLearned"`
}

type Dashboard struct {
	RecentActivities []Activity            `json:"recentActivities"`
	Stats            DashboardStats        `json:"stats"`
	ChartData        []models.TopicAverage `json:"chartData"`
}

const recentActivityLimit = 5

// ForStudent builds the student dashboard: totals, the lesson/quiz topic
// intersection ("topics learned"), recent activity and the per-topic average
// chart.
func (s *DashboardService) ForStudent(ctx context.Context, student primitive.ObjectID) (*Dashboard, error) {
	records, err := s.Progress.FindByStudent(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}

	totalQuizzes := 0
	scoreSum := 0.0
	quizTopics := make(map[primitive.ObjectID]bool)
	lessonTopics := make(map[primitive.ObjectID]bool)
	topicIDs := make([]primitive.ObjectID, 0, len(records))
	for _, rec := range records {
		topicIDs = append(topicIDs, rec.Topic)
		switch rec.ProgressType {
		case models.ProgressQuiz:
			totalQuizzes++
			scoreSum += rec.Score
			quizTopics[rec.Topic] = true
		case models.ProgressLesson:
			lessonTopics[rec.Topic] = true
		}
	}

	topicsLearned := 0
	for topic := range lessonTopics {
		if quizTopics[topic] {
			topicsLearned++
		}
	}

	averageScore := 0.0
	if totalQuizzes > 0 {
		averageScore = math.Round(scoreSum/float64(totalQuizzes)*100) / 100
	}

	titles, err := s.Topics.TitlesByID(ctx, topicIDs)
	if err != nil {
		return nil, fmt.Errorf("loading topic titles: %w", err)
	}

	recent := make([]Activity, 0, recentActivityLimit)
	for _, rec := range records {
		if len(recent) == recentActivityLimit {
			break
		}
		recent = append(recent, Activity{
			ProgressType: rec.ProgressType,
			ItemID:       rec.Item,
			TopicID:      rec.Topic,
			TopicTitle:   titles[rec.Topic],
			Score:        rec.Score,
			CreatedAt:    rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	chart, err := s.Progress.AverageScoreByTopic(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("aggregating scores: %w", err)
	}

	return &Dashboard{
		RecentActivities: recent,
		Stats: DashboardStats{
			TotalQuizzes:  totalQuizzes,
			AverageScore:  averageScore,
			TotalLessons:  len(records) - totalQuizzes,
			TopicsLearned: topicsLearned,
		},
		ChartData: chart,
	}, nil
}

// ForChild serves the parent/teacher view. The viewer must have the student
// linked as a child.
func (s *DashboardService) ForChild(ctx context.Context, viewer *models.User, studentID string) (*Dashboard, error) {
	id, err := objectID(studentID)
	if err != nil {
		return nil, err
	}
	if !viewer.HasChild(id) {
		return nil, fmt.Errorf("%w: student is not linked to your account", ErrForbidden)
	}
	return s.ForStudent(ctx, id)
}

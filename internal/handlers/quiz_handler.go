package handlers

import (
	"time"

	"learning-service/internal/middleware"
	"learning-service/internal/models"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

type quizQuestionRequest struct {
	QuestionText  string   `json:"questionText" binding:"required"`
	Options       []string `json:"options" binding:"required,min=1"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
}

type quizRequest struct {
	Title     string                `json:"title" binding:"required"`
	Topic     string                `json:"topic" binding:"required"`
	Questions []quizQuestionRequest `json:"questions" binding:"required,min=1"`
}

func (r quizRequest) toModel() (*models.Quiz, error) {
	topicID, err := primitive.ObjectIDFromHex(r.Topic)
	if err != nil {
		return nil, err
	}
	quiz := &models.Quiz{
		Title: r.Title,
		Topic: topicID,
	}
	for _, q := range r.Questions {
		quiz.Questions = append(quiz.Questions, models.Question{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return quiz, nil
}

func (h *QuizHandler) Create(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	quiz, err := req.toModel()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid topic id")
		return
	}
	quiz.CreatedBy = middleware.CurrentUser(c).ID
	now := time.Now().UTC()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if err := h.Service.Create(c.Request.Context(), quiz); err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, "Quiz created", quiz)
}

func (h *QuizHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	quiz, err := h.Service.Get(c.Request.Context(), c.Param("id"), user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Quiz fetched", quiz)
}

// GetForReview returns the quiz with correct answers included, for the
// teacher and admin editing screens.
func (h *QuizHandler) GetForReview(c *gin.Context) {
	quiz, err := h.Service.GetForReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Quiz fetched", quiz)
}

func (h *QuizHandler) ListByTopic(c *gin.Context) {
	quizzes, err := h.Service.ListByTopic(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Quizzes fetched", quizzes)
}

func (h *QuizHandler) Update(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	quiz, err := req.toModel()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid topic id")
		return
	}
	if err := h.Service.Update(c.Request.Context(), c.Param("id"), quiz); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Quiz updated", quiz)
}

func (h *QuizHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Quiz deleted", nil)
}

type submitRequest struct {
	Answers   map[string]string `json:"answers" binding:"required"`
	TimeSpent int               `json:"timeSpent"`
}

func (h *QuizHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	student := middleware.CurrentUser(c)
	result, err := h.Service.Submit(c.Request.Context(), student.ID, c.Param("id"), req.Answers, req.TimeSpent)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Quiz submitted", result)
}

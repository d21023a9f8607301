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

type LessonHandler struct {
	Service *service.LessonService
}

func NewLessonHandler(s *service.LessonService) *LessonHandler {
	return &LessonHandler{Service: s}
}

type lessonRequest struct {
	Title   string `json:"title" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (r lessonRequest) toModel() (*models.Lesson, error) {
	topicID, err := primitive.ObjectIDFromHex(r.Topic)
	if err != nil {
		return nil, err
	}
	return &models.Lesson{
		Title:   r.Title,
		Topic:   topicID,
		Content: r.Content,
	}, nil
}

func (h *LessonHandler) Create(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	lesson, err := req.toModel()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid topic id")
		return
	}
	lesson.CreatedBy = middleware.CurrentUser(c).ID
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	if err := h.Service.Create(c.Request.Context(), lesson); err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, "Lesson created", lesson)
}

func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Lesson fetched", lesson)
}

func (h *LessonHandler) ListByTopic(c *gin.Context) {
	lessons, err := h.Service.ListByTopic(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Lessons fetched", lessons)
}

func (h *LessonHandler) Update(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	lesson, err := req.toModel()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid topic id")
		return
	}
	if err := h.Service.Update(c.Request.Context(), c.Param("id"), lesson); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Lesson updated", lesson)
}

func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Lesson deleted", nil)
}

// Complete marks the lesson done for the calling student. Completing twice
// is a no-op and says so.
func (h *LessonHandler) Complete(c *gin.Context) {
	student := middleware.CurrentUser(c)
	alreadyDone, err := h.Service.MarkComplete(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Lesson completed"
	if alreadyDone {
		msg = "Lesson already completed"
	}
	utils.SuccessResponse(c, msg, gin.H{"alreadyCompleted": alreadyDone})
}

func (h *LessonHandler) CompletionStatus(c *gin.Context) {
	student := middleware.CurrentUser(c)
	done, err := h.Service.CompletionStatus(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Completion status fetched", gin.H{"completed": done})
}

package handlers

import (
	"time"

	"learning-service/internal/models"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	Service *service.TopicService
}

func NewTopicHandler(s *service.TopicService) *TopicHandler {
	return &TopicHandler{Service: s}
}

type topicRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
}

func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Topics fetched", topics)
}

func (h *TopicHandler) Get(c *gin.Context) {
	topic, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Topic fetched", topic)
}

func (h *TopicHandler) Create(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	now := time.Now().UTC()
	topic := &models.Topic{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Service.Create(c.Request.Context(), topic); err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, "Topic created", topic)
}

func (h *TopicHandler) Update(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	topic := &models.Topic{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	}
	if err := h.Service.Update(c.Request.Context(), c.Param("id"), topic); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Topic updated", topic)
}

// Delete removes a topic together with its quizzes, lessons and progress.
func (h *TopicHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Topic deleted", nil)
}

package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	Service *service.AssistantService
}

func NewAssistantHandler(s *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{Service: s}
}

type askRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *AssistantHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	reply, err := h.Service.Ask(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Assistant replied", gin.H{"reply": reply})
}

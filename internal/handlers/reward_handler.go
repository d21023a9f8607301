package handlers

import (
	"learning-service/internal/middleware"
	"learning-service/internal/models"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	Service *service.RewardService
}

func NewRewardHandler(s *service.RewardService) *RewardHandler {
	return &RewardHandler{Service: s}
}

type rewardRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Criteria    models.Criteria `json:"criteria" binding:"required"`
}

func (h *RewardHandler) Create(c *gin.Context) {
	var req rewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	reward := &models.Reward{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Criteria:    req.Criteria,
	}
	if err := h.Service.Create(c.Request.Context(), reward); err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, "Reward created", reward)
}

func (h *RewardHandler) List(c *gin.Context) {
	rewards, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Rewards fetched", rewards)
}

func (h *RewardHandler) Get(c *gin.Context) {
	reward, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Reward fetched", reward)
}

func (h *RewardHandler) Update(c *gin.Context) {
	var req rewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	reward := &models.Reward{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Criteria:    req.Criteria,
	}
	if err := h.Service.Update(c.Request.Context(), c.Param("id"), reward); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Reward updated", reward)
}

func (h *RewardHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Reward deleted", nil)
}

// MyRewards lists the badges the calling student has earned, newest first.
func (h *RewardHandler) MyRewards(c *gin.Context) {
	student := middleware.CurrentUser(c)
	earned, err := h.Service.MyRewards(c.Request.Context(), student.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Rewards fetched", earned)
}

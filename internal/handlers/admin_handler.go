package handlers

import (
	"learning-service/internal/middleware"
	"learning-service/internal/models"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers the account management screens: approval queues,
// decision history, the student roster and account lifecycle actions.
type AdminHandler struct {
	Service *service.UserService
}

func NewAdminHandler(s *service.UserService) *AdminHandler {
	return &AdminHandler{Service: s}
}

func (h *AdminHandler) PendingTeachers(c *gin.Context) {
	users, err := h.Service.ListPending(c.Request.Context(), models.RoleTeacher)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Pending teachers fetched", users)
}

func (h *AdminHandler) PendingParents(c *gin.Context) {
	users, err := h.Service.ListPending(c.Request.Context(), models.RoleParent)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Pending parents fetched", users)
}

func (h *AdminHandler) TeacherHistory(c *gin.Context) {
	users, err := h.Service.ListDecided(c.Request.Context(), models.RoleTeacher)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Teacher history fetched", users)
}

func (h *AdminHandler) ParentHistory(c *gin.Context) {
	users, err := h.Service.ListDecided(c.Request.Context(), models.RoleParent)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Parent history fetched", users)
}

func (h *AdminHandler) Students(c *gin.Context) {
	users, err := h.Service.ListStudents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Students fetched", users)
}

func (h *AdminHandler) Approve(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	user, err := h.Service.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Account approved", user)
}

func (h *AdminHandler) Reject(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	user, err := h.Service.Reject(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Account rejected", user)
}

func (h *AdminHandler) Reactivate(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	user, err := h.Service.Reactivate(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Account reactivated", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Service.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Account deleted", nil)
}

type adminLinkStudentRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

func (h *AdminHandler) LinkStudent(c *gin.Context) {
	var req adminLinkStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	student, err := h.Service.LinkChildByAdmin(c.Request.Context(), c.Param("id"), req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Student linked", student)
}

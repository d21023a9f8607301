package handlers

import (
	"learning-service/internal/middleware"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Service *service.DashboardService
}

func NewDashboardHandler(s *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

func (h *DashboardHandler) MyDashboard(c *gin.Context) {
	student := middleware.CurrentUser(c)
	dashboard, err := h.Service.ForStudent(c.Request.Context(), student.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Dashboard fetched", dashboard)
}

// ChildDashboard shows a linked student's dashboard to their parent or
// teacher.
func (h *DashboardHandler) ChildDashboard(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	dashboard, err := h.Service.ForChild(c.Request.Context(), viewer, c.Param("studentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Dashboard fetched", dashboard)
}

package handlers

import (
	"learning-service/internal/middleware"
	"learning-service/internal/models"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User    *models.User `json:"user"`
	Token   string       `json:"token,omitempty"`
	Pending bool         `json:"pending"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	result, err := h.Service.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Registration successful"
	if result.Pending {
		msg = "Registration successful, awaiting approval"
	}
	utils.CreatedResponse(c, msg, authResponse{
		User:    result.User,
		Token:   result.Token,
		Pending: result.Pending,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	result, err := h.Service.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Login successful", authResponse{
		User:  result.User,
		Token: result.Token,
	})
}

func (h *UserHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	profile, children, err := h.Service.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Profile fetched", gin.H{
		"user":     profile,
		"children": children,
	})
}

type linkStudentRequest struct {
	StudentCode string `json:"studentCode" binding:"required"`
}

func (h *UserHandler) LinkStudent(c *gin.Context) {
	var req linkStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	owner := middleware.CurrentUser(c)
	student, err := h.Service.LinkChild(c.Request.Context(), owner, req.StudentCode)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, "Student linked", student)
}

package middleware

import (
	"context"

	"learning-service/internal/models"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userContextKey = "currentUser"

type AuthMiddleware struct {
	Users service.UserRepository
}

func NewAuthMiddleware(users service.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{Users: users}
}

// RequireAuth validates the bearer token and loads the account onto the
// request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.BearerToken(c)
		if token == "" {
			utils.UnauthorizedResponse(c, "Not authorized, no token")
			c.Abort()
			return
		}
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Not authorized, token failed")
			c.Abort()
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c, "Not authorized, token failed")
			c.Abort()
			return
		}
		user, err := m.Users.FindByID(context.Background(), id)
		if err != nil || user == nil {
			utils.UnauthorizedResponse(c, "Not authorized, token failed")
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}

func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !allowed[user.Role] {
			utils.ForbiddenResponse(c, "Not authorized for this resource")
			c.Abort()
			return
		}
		c.Next()
	}
}

func StudentOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleStudent)
}

func TeacherOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleTeacher)
}

func AdminOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

func AdminOrTeacher() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleTeacher)
}

func ParentOrTeacher() gin.HandlerFunc {
	return RequireRoles(models.RoleParent, models.RoleTeacher, models.RoleAdmin)
}

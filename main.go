package main

import (
	"context"
	"log"
	"time"

	"learning-service/internal/config"
	"learning-service/internal/db"
	"learning-service/internal/event"
	"learning-service/internal/handlers"
	"learning-service/internal/middleware"
	"learning-service/internal/repository"
	"learning-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	db.InitMongo(cfg.MongoURI)
	defer db.Disconnect()
	database := db.Client.Database(cfg.MongoDatabase)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repository.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancel()

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FEAddress},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	userRepo := repository.NewUserRepository(database)
	topicRepo := repository.NewTopicRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	lessonRepo := repository.NewLessonRepository(database)
	progressRepo := repository.NewProgressRepository(database)
	rewardRepo := repository.NewRewardRepository(database)
	userRewardRepo := repository.NewUserRewardRepository(database)

	// Services
	userService := service.NewUserService(userRepo)
	topicService := service.NewTopicService(topicRepo, quizRepo, lessonRepo, progressRepo)
	rewardService := service.NewRewardService(rewardRepo, userRewardRepo, quizRepo, progressRepo)
	if publisher != nil {
		rewardService.Events = publisher
	}
	quizService := service.NewQuizService(quizRepo, progressRepo, rewardService)
	lessonService := service.NewLessonService(lessonRepo, progressRepo)
	dashboardService := service.NewDashboardService(progressRepo, topicRepo)
	assistantService := service.NewAssistantService()

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(userService)
	topicHandler := handlers.NewTopicHandler(topicService)
	quizHandler := handlers.NewQuizHandler(quizService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	rewardHandler := handlers.NewRewardHandler(rewardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	auth := middleware.NewAuthMiddleware(userRepo)

	setupUserRoutes(r, userHandler, auth, publisher)
	setupAdminRoutes(r, adminHandler, auth, publisher)
	setupTopicRoutes(r, topicHandler, auth)
	setupQuizRoutes(r, quizHandler, auth, publisher)
	setupLessonRoutes(r, lessonHandler, auth)
	setupRewardRoutes(r, rewardHandler, auth)
	setupDashboardRoutes(r, dashboardHandler, auth)
	setupAssistantRoutes(r, assistantHandler, auth)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	log.Printf("%s listening on :%s", cfg.ServiceName, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func setupUserRoutes(r *gin.Engine, h *handlers.UserHandler, auth *middleware.AuthMiddleware, publisher *event.EventPublisher) {
	users := r.Group("/api/users")
	{
		users.POST("/register", func(c *gin.Context) {
			h.Register(c)
			if publisher != nil && c.Writer.Status() < 400 {
				publisher.Publish(event.UserRegistered, nil)
			}
		})
		users.POST("/login", h.Login)

		authed := users.Group("")
		authed.Use(auth.RequireAuth())
		{
			authed.GET("/profile", h.Profile)
			authed.POST("/link-student", middleware.ParentOrTeacher(), h.LinkStudent)
		}
	}
}

func setupAdminRoutes(r *gin.Engine, h *handlers.AdminHandler, auth *middleware.AuthMiddleware, publisher *event.EventPublisher) {
	admin := r.Group("/api/admin")
	admin.Use(auth.RequireAuth())
	{
		admin.GET("/teachers/pending", middleware.AdminOnly(), h.PendingTeachers)
		admin.GET("/teachers/history", middleware.AdminOnly(), h.TeacherHistory)
		admin.GET("/parents/pending", middleware.AdminOrTeacher(), h.PendingParents)
		admin.GET("/parents/history", middleware.AdminOrTeacher(), h.ParentHistory)
		admin.GET("/students", middleware.AdminOrTeacher(), h.Students)

		// Role checks beyond the guard happen in the service: an admin can
		// decide teachers and parents, a teacher only parents.
		admin.PUT("/users/:id/approve", middleware.AdminOrTeacher(), func(c *gin.Context) {
			h.Approve(c)
			if publisher != nil && c.Writer.Status() < 400 {
				publisher.Publish(event.UserApproved, gin.H{"id": c.Param("id")})
			}
		})
		admin.PUT("/users/:id/reject", middleware.AdminOrTeacher(), func(c *gin.Context) {
			h.Reject(c)
			if publisher != nil && c.Writer.Status() < 400 {
				publisher.Publish(event.UserRejected, gin.H{"id": c.Param("id")})
			}
		})
		admin.PUT("/users/:id/reactivate", middleware.AdminOnly(), h.Reactivate)
		admin.DELETE("/users/:id", middleware.AdminOnly(), h.DeleteUser)
		admin.POST("/users/:id/link-student", middleware.AdminOnly(), h.LinkStudent)
	}
}

func setupTopicRoutes(r *gin.Engine, h *handlers.TopicHandler, auth *middleware.AuthMiddleware) {
	topics := r.Group("/api/topics")
	topics.Use(auth.RequireAuth())
	{
		topics.GET("", h.List)
		topics.GET("/:id", h.Get)
		topics.POST("", middleware.AdminOrTeacher(), h.Create)
		topics.PUT("/:id", middleware.AdminOrTeacher(), h.Update)
		topics.DELETE("/:id", middleware.AdminOrTeacher(), h.Delete)
	}
}

func setupQuizRoutes(r *gin.Engine, h *handlers.QuizHandler, auth *middleware.AuthMiddleware, publisher *event.EventPublisher) {
	quizzes := r.Group("/api/quizzes")
	quizzes.Use(auth.RequireAuth())
	{
		quizzes.GET("/topic/:topicId", h.ListByTopic)
		quizzes.GET("/:id", h.Get)
		quizzes.GET("/:id/review", middleware.ParentOrTeacher(), h.GetForReview)
		quizzes.POST("", middleware.AdminOrTeacher(), h.Create)
		quizzes.PUT("/:id", middleware.AdminOrTeacher(), h.Update)
		quizzes.DELETE("/:id", middleware.AdminOrTeacher(), h.Delete)
		quizzes.POST("/:id/submit", middleware.StudentOnly(), func(c *gin.Context) {
			h.Submit(c)
			if publisher != nil && c.Writer.Status() < 400 {
				publisher.Publish(event.QuizSubmitted, gin.H{"quizId": c.Param("id")})
			}
		})
	}
}

func setupLessonRoutes(r *gin.Engine, h *handlers.LessonHandler, auth *middleware.AuthMiddleware) {
	lessons := r.Group("/api/lessons")
	lessons.Use(auth.RequireAuth())
	{
		lessons.GET("/topic/:topicId", h.ListByTopic)
		lessons.GET("/:id", h.Get)
		lessons.POST("", middleware.AdminOrTeacher(), h.Create)
		lessons.PUT("/:id", middleware.AdminOrTeacher(), h.Update)
		lessons.DELETE("/:id", middleware.AdminOrTeacher(), h.Delete)
		lessons.POST("/:id/complete", middleware.StudentOnly(), h.Complete)
		lessons.GET("/:id/status", middleware.StudentOnly(), h.CompletionStatus)
	}
}

func setupRewardRoutes(r *gin.Engine, h *handlers.RewardHandler, auth *middleware.AuthMiddleware) {
	rewards := r.Group("/api/rewards")
	rewards.Use(auth.RequireAuth())
	{
		rewards.GET("", h.List)
		rewards.GET("/mine", middleware.StudentOnly(), h.MyRewards)
		rewards.GET("/:id", h.Get)
		rewards.POST("", middleware.AdminOnly(), h.Create)
		rewards.PUT("/:id", middleware.AdminOnly(), h.Update)
		rewards.DELETE("/:id", middleware.AdminOnly(), h.Delete)
	}
}

func setupDashboardRoutes(r *gin.Engine, h *handlers.DashboardHandler, auth *middleware.AuthMiddleware) {
	dashboard := r.Group("/api/dashboard")
	dashboard.Use(auth.RequireAuth())
	{
		dashboard.GET("", middleware.StudentOnly(), h.MyDashboard)
		dashboard.GET("/child/:studentId", middleware.ParentOrTeacher(), h.ChildDashboard)
	}
}

func setupAssistantRoutes(r *gin.Engine, h *handlers.AssistantHandler, auth *middleware.AuthMiddleware) {
	assistant := r.Group("/api/assistant")
	assistant.Use(auth.RequireAuth())
	{
		assistant.POST("/ask", h.Ask)
	}
}

// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"jobtrust-backend/internal/auth"
	"jobtrust-backend/internal/controller/feedback"
	"jobtrust-backend/internal/controller/jobpost"
	"jobtrust-backend/internal/controller/user"
	"jobtrust-backend/internal/middleware"
	"jobtrust-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	feedbackController := feedback.NewFeedbackController(s.DB)
	jobPostController := jobpost.NewJobPostController(s.DB)
	userController := user.NewUserController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.EnvRateLimitMiddleware())

			// Feedback endpoints
			needAuth.POST("feedback", feedbackController.SubmitFeedback)

			// Job posting endpoints
			jobPostRoute := needAuth.Group("/jobpost")
			{
				jobPostRoute.GET("", jobPostController.GetPosts)
				jobPostRoute.GET("/:id", jobPostController.GetPostByID)
				jobPostRoute.GET("/:id/feedback", feedbackController.ListJobFeedback)
				jobPostRoute.POST("", jobPostController.CreateJobPost)
			}

			needAdmin := needAuth.Group("")
			{
				needAdmin.Use(middleware.CheckRole(model.RoleAdmin))
				needAdmin.PUT("jobpost/:id/lock", jobPostController.SetLock)
				needAdmin.POST("jobpost/:id/rescore", jobPostController.Rescore)
				needAdmin.GET("users/:id/reputation/recompute", userController.RecomputeReputation)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}

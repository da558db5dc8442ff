package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers served under /api.
type Handlers struct {
	Auth         *AuthHandler
	Organization *OrganizationHandler
	Project      *ProjectHandler
	Task         *TaskHandler
}

// RegisterRoutes mounts the health check and the API. resolveActor runs on
// every API route and must never reject a request.
func RegisterRoutes(r *gin.Engine, h Handlers, resolveActor gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	api := r.Group("/api")
	api.Use(resolveActor)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.POST("/verify", h.Auth.VerifyToken)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.GET("/me", h.Auth.Me)
		}

		orgs := api.Group("/organizations")
		{
			orgs.GET("", h.Organization.ListOrganizations)
			orgs.GET("/mine", h.Organization.MyOrganization)
			orgs.POST("/:slug/projects", h.Project.CreateProject)
		}

		projects := api.Group("/projects")
		{
			projects.GET("/:id", h.Project.GetProject)
			projects.PATCH("/:id", h.Project.UpdateProject)
			projects.GET("/:id/tasks", h.Project.ListTasks)
			projects.POST("/:id/tasks", h.Project.CreateTask)
			projects.POST("/:id/tasks/suggest", h.Project.SuggestTasks)
		}

		tasks := api.Group("/tasks")
		{
			tasks.PATCH("/:id", h.Task.UpdateTask)
			tasks.GET("/:id/comments", h.Task.ListComments)
			tasks.POST("/:id/comments", h.Task.AddComment)
		}
	}
}

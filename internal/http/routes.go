package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "taskflow.dev/taskflow/internal/http/middlewares"
	"taskflow.dev/taskflow/internal/identity"
	repository "taskflow.dev/taskflow/internal/repositories"
)

func Register(
	e *echo.Echo,
	h *Handler,
	verifier *identity.Verifier,
	users *repository.UserRepository,
	rateLimitPerMinute int,
) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/health", h.Health)

	auth := e.Group("", middleware.Auth(verifier, users))

	auth.POST("/projects", h.CreateProject)
	auth.GET("/projects", h.ListProjects)
	auth.GET("/projects/:id", h.GetProject)
	auth.PUT("/projects/:id", h.UpdateProject)
	auth.DELETE("/projects/:id", h.DeleteProject)

	auth.GET("/projects/:id/members", h.ListMembers)
	auth.POST("/projects/:id/members", h.AddMember)
	auth.DELETE("/projects/:id/members/:userId", h.RemoveMember)
	auth.PUT("/projects/:id/members/:userId/role", h.UpdateMemberRole)

	auth.POST("/projects/:id/tasks", h.CreateTask)
	auth.GET("/tasks/:id", h.GetTask)
	auth.PUT("/tasks/:id", h.UpdateTask)
	auth.DELETE("/tasks/:id", h.DeleteTask)

	auth.POST("/tasks/:id/comments", h.AddComment)
	auth.POST("/tasks/:id/attachments", h.AddAttachment)
	auth.GET("/attachments/:id/download", h.DownloadAttachment)

	auth.GET("/notifications", h.ListNotifications)
	auth.PUT("/notifications/:id/read", h.MarkNotificationRead)
}

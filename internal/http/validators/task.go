package validators

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   *uint      `json:"project_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uint      `json:"assigned_to"`
	Tags        []string   `json:"tags"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

func ValidateTaskRequest(r *TaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}

func ValidateCommentRequest(r *CommentRequest) error {
	if strings.TrimSpace(r.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	return nil
}

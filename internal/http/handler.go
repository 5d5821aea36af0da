package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "taskflow.dev/taskflow/internal/errors"
	middleware "taskflow.dev/taskflow/internal/http/middlewares"
	"taskflow.dev/taskflow/internal/services"
)

type Handler struct {
	projectService      *services.ProjectService
	taskService         *services.TaskService
	notificationService *services.NotificationService
	maxUploadBytes      int64
}

func NewHandler(
	projectService *services.ProjectService,
	taskService *services.TaskService,
	notificationService *services.NotificationService,
	maxUploadMB int,
) *Handler {
	return &Handler{
		projectService:      projectService,
		taskService:         taskService,
		notificationService: notificationService,
		maxUploadBytes:      int64(maxUploadMB) << 20,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func callerID(c echo.Context) uint {
	id, _ := c.Get(middleware.UserIDKey).(uint)
	return id
}

func paramID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// serviceError maps typed failures to their HTTP status; anything untyped
// is a 500 with a generic message so internals stay internal.
func serviceError(err error) error {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, "internal server error")
	}
	return echo.NewHTTPError(status, err.Error())
}

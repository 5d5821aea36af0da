package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow.dev/taskflow/internal/constants"
	"taskflow.dev/taskflow/internal/http/validators"
	"taskflow.dev/taskflow/internal/services"
)

func taskInput(req *validators.TaskRequest) services.TaskInput {
	return services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Status:      constants.TaskStatus(req.Status),
		Priority:    constants.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req validators.TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), projectID, callerID(c), taskInput(&req))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	taskID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.taskService.GetTask(c.Request().Context(), taskID, callerID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	taskID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req validators.TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), taskID, callerID(c), taskInput(&req))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	taskID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), taskID, callerID(c)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddComment(c echo.Context) error {
	taskID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req validators.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCommentRequest(&req); err != nil {
		return err
	}

	comment, err := h.taskService.AddComment(c.Request().Context(), taskID, callerID(c), req.Content)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) AddAttachment(c echo.Context) error {
	taskID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read upload")
	}
	defer src.Close()

	attachment, err := h.taskService.AddAttachment(c.Request().Context(), taskID, callerID(c), fileHeader.Filename, src)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, attachment)
}

func (h *Handler) DownloadAttachment(c echo.Context) error {
	attachmentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	attachment, rc, err := h.taskService.DownloadAttachment(c.Request().Context(), attachmentID, callerID(c))
	if err != nil {
		return serviceError(err)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}

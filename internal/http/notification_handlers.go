package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListNotifications(c echo.Context) error {
	notifications, err := h.notificationService.List(c.Request().Context(), callerID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":         len(notifications),
		"notifications": notifications,
	})
}

func (h *Handler) MarkNotificationRead(c echo.Context) error {
	notificationID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), notificationID, callerID(c)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

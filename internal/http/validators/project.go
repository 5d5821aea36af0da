package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

type ProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type MemberRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

func ValidateProjectRequest(r *ProjectRequest) error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if utf8.RuneCountInString(title) > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "title must be at most 100 characters")
	}
	return nil
}

func ValidateMemberRequest(r *MemberRequest) error {
	if r.UserID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if r.Role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "role is required")
	}
	return nil
}

func ValidateRoleRequest(r *RoleRequest) error {
	if r.Role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "role is required")
	}
	return nil
}

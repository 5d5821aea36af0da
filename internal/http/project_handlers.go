package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow.dev/taskflow/internal/constants"
	"taskflow.dev/taskflow/internal/http/validators"
)

func (h *Handler) CreateProject(c echo.Context) error {
	var req validators.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateProjectRequest(&req); err != nil {
		return err
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), callerID(c), req.Title, req.Description)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *Handler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.ListProjects(c.Request().Context(), callerID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(projects),
		"projects": projects,
	})
}

func (h *Handler) GetProject(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.projectService.GetProject(c.Request().Context(), projectID, callerID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) UpdateProject(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req validators.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateProjectRequest(&req); err != nil {
		return err
	}

	project, err := h.projectService.UpdateProject(
		c.Request().Context(), projectID, callerID(c),
		req.Title, req.Description, constants.ProjectStatus(req.Status),
	)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.projectService.DeleteProject(c.Request().Context(), projectID, callerID(c)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMembers(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	members, err := h.projectService.Members(c.Request().Context(), projectID, callerID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":   len(members),
		"members": members,
	})
}

func (h *Handler) AddMember(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req validators.MemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateMemberRequest(&req); err != nil {
		return err
	}

	member, err := h.projectService.AddMember(
		c.Request().Context(), projectID, callerID(c), req.UserID, constants.Role(req.Role),
	)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *Handler) RemoveMember(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	if err := h.projectService.RemoveMember(c.Request().Context(), projectID, callerID(c), targetID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateMemberRole(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	var req validators.RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateRoleRequest(&req); err != nil {
		return err
	}

	if err := h.projectService.UpdateRole(
		c.Request().Context(), projectID, callerID(c), targetID, constants.Role(req.Role),
	); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

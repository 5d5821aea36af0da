// Package authz holds the pure authorization rules for projects and tasks.
// Every function is total: unknown users and non-members get a deny, never
// an error. Callers translate a deny for a non-member into "not found" so
// outsiders cannot probe for resource existence.
package authz

import (
	"taskflow.dev/taskflow/internal/constants"
	"taskflow.dev/taskflow/internal/models"
)

// Decision is the outcome of a single authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// RoleOf resolves a user's role from a project's membership list.
func RoleOf(members []models.ProjectMember, userID uint) (constants.Role, bool) {
	for _, m := range members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// CanView permits any project member to see the project and its contents.
func CanView(role constants.Role, isMember bool) Decision {
	if !isMember {
		return Deny("you do not have access to this project")
	}
	_ = role
	return Allow()
}

// CanManageProject permits editing or deleting the project itself.
func CanManageProject(role constants.Role, isMember bool) Decision {
	if !isMember {
		return Deny("you do not have access to this project")
	}
	if role != constants.RoleAdmin {
		return Deny("only project admins can manage project details")
	}
	return Allow()
}

// CanManageMembers permits adding, removing, and re-roling members.
func CanManageMembers(role constants.Role, isMember bool) Decision {
	if !isMember {
		return Deny("you do not have access to this project")
	}
	if role != constants.RoleAdmin {
		return Deny("only project admins can manage members")
	}
	return Allow()
}

// CanEditTask permits admins and managers, the task creator, and the current
// assignee to edit a task.
func CanEditTask(role constants.Role, isMember bool, task *models.Task, userID uint) Decision {
	if !isMember {
		return Deny("you do not have access to this project")
	}
	if role == constants.RoleAdmin || role == constants.RoleManager {
		return Allow()
	}
	if task.CreatedBy == userID {
		return Allow()
	}
	if task.AssignedTo != nil && *task.AssignedTo == userID {
		return Allow()
	}
	return Deny("you do not have permission to edit this task")
}

// CanDeleteTask permits admins, managers, and the task creator. An assignee
// who did not create the task may edit it but not delete it.
func CanDeleteTask(role constants.Role, isMember bool, task *models.Task, userID uint) Decision {
	if !isMember {
		return Deny("you do not have access to this project")
	}
	if role == constants.RoleAdmin || role == constants.RoleManager {
		return Allow()
	}
	if task.CreatedBy == userID {
		return Allow()
	}
	return Deny("you do not have permission to delete this task")
}

package errors

import "net/http"

var ErrAssigneeNotMember = &Exception{
	Message:    "assignee must be a member of the project",
	StatusCode: http.StatusBadRequest,
}

package errors

import "net/http"

var ErrDuplicateMembership = &Exception{
	Message:    "user is already a member of this project",
	StatusCode: http.StatusConflict,
}

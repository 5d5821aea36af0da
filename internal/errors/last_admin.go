package errors

import "net/http"

var ErrLastAdmin = &Exception{
	Message:    "cannot remove or demote the last admin of the project",
	StatusCode: http.StatusConflict,
}

package errors

import "net/http"

var ErrInvalidRole = &Exception{
	Message:    "role must be one of admin, manager, member",
	StatusCode: http.StatusBadRequest,
}

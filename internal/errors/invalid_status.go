package errors

import "net/http"

var ErrInvalidStatus = &Exception{
	Message:    "status must be one of todo, in_progress, review, done",
	StatusCode: http.StatusBadRequest,
}

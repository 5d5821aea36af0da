package errors

import "net/http"

var ErrInvalidTitle = &Exception{
	Message:    "title must be between 1 and 100 characters",
	StatusCode: http.StatusBadRequest,
}

package errors

import "net/http"

var ErrEmptyContent = &Exception{
	Message:    "content must not be empty",
	StatusCode: http.StatusBadRequest,
}

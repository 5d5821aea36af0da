package errors

import "net/http"

var ErrUnknownUser = &Exception{
	Message:    "user does not exist",
	StatusCode: http.StatusNotFound,
}

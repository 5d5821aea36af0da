package errors

import "net/http"

var ErrNotFound = &Exception{
	Message:    "resource not found",
	StatusCode: http.StatusNotFound,
}

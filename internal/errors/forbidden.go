package errors

import "net/http"

var ErrForbidden = &Exception{
	Message:    "permission denied",
	StatusCode: http.StatusForbidden,
}

package errors

import "net/http"

var ErrSelfRemoval = &Exception{
	Message:    "you cannot remove yourself from the project",
	StatusCode: http.StatusConflict,
}

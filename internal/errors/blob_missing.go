package errors

import "net/http"

var ErrBlobMissing = &Exception{
	Message:    "attachment file is missing from storage",
	StatusCode: http.StatusNotFound,
}

package errors

import "net/http"

var ErrImmutableField = &Exception{
	Message:    "a task cannot be moved to another project",
	StatusCode: http.StatusBadRequest,
}

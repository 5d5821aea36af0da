package errors

import "net/http"

// ErrNotAMember maps to 404 on purpose: a caller outside the project must
// not be able to confirm that the resource exists.
var ErrNotAMember = &Exception{
	Message:    "resource not found",
	StatusCode: http.StatusNotFound,
}

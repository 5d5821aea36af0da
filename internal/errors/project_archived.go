package errors

import "net/http"

var ErrProjectArchived = &Exception{
	Message:    "archived projects do not accept new tasks",
	StatusCode: http.StatusConflict,
}

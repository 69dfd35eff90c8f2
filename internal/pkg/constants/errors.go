package constants

import "net/http"

// CodedError carries the HTTP status the API error handler responds with.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound          = NewCodedError("not found", http.StatusNotFound)
	ErrBadRequest          = NewCodedError("bad request", http.StatusBadRequest)
	ErrUpstreamUnavailable = NewCodedError("upstream statistics api unavailable", http.StatusBadGateway)
	ErrNoSources           = NewCodedError("no region file could be loaded", http.StatusUnprocessableEntity)
)

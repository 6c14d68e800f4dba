package status

import (
	"github.com/pkg/errors"
)

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrCloseConnection = NewError(CloseConnection, "actively closing the connection")

	ErrMalformedRequestLine = NewError(BadRequest, "malformed request line")
	ErrBodyTruncated        = NewError(BadRequest, "request body is shorter than declared")
	ErrFormPreambleMismatch = NewError(BadRequest, "multipart body does not start with the boundary")
	ErrUploadAborted        = NewError(BadRequest, "peer disconnected during the file upload")
	ErrAllocationFailure    = NewError(RequestEntityTooLarge, "request does not fit into the memory limits")
	ErrMethodNotImplemented = NewError(NotImplemented, "request method is not supported")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrUnsupportedMediaType = NewError(UnsupportedMediaType, "unsupported media type")
	ErrNoBody               = NewError(BadRequest, "request has no body")
)

// CodeOf extracts the status code from an error produced by the parser. Errors
// of foreign origin are reported as InternalServerError.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

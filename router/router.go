package router

import (
	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/method"
)

// Handler serves requests matched to it and, optionally, receives file uploads
// streamed off the request body.
type Handler interface {
	// CanUpload reports whether the handler wants upload notifications for the path.
	CanUpload(path string) bool
	// Upload is called at every stage of a file upload: once with http.UploadStart, zero or
	// more times with http.UploadWrite carrying a full buffer, and once with either
	// http.UploadEnd or http.UploadAborted.
	Upload(path string, upload *http.Upload)
	// Serve produces the response for a completely parsed request.
	Serve(request *http.Request) *http.Response
}

// Router is the registry of handlers.
type Router interface {
	// Match returns the first handler accepting the method and the path, nil if none.
	Match(m method.Method, path string) Handler
}

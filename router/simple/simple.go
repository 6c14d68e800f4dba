package simple

import (
	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/router"
)

type (
	HandlerFunc func(*http.Request) *http.Response
	UploadFunc  func(path string, upload *http.Upload)
)

var _ router.Router = new(Router)

type route struct {
	method   method.Method
	path     string
	handler  HandlerFunc
	onUpload UploadFunc
}

func (r *route) CanUpload(path string) bool {
	return r.onUpload != nil && r.path == path
}

func (r *route) Upload(path string, upload *http.Upload) {
	r.onUpload(path, upload)
}

func (r *route) Serve(request *http.Request) *http.Response {
	return r.handler(request)
}

// Router is a linear registry: routes are tried in order of registration and the first
// one whose method and path equal the request's wins. Method Unknown matches any method.
type Router struct {
	routes []*route
}

func New() *Router {
	return new(Router)
}

// Route registers a handler.
func (r *Router) Route(m method.Method, path string, handler HandlerFunc) *Router {
	r.routes = append(r.routes, &route{
		method:  m,
		path:    path,
		handler: handler,
	})

	return r
}

// Upload registers a handler, which also receives file uploads.
func (r *Router) Upload(m method.Method, path string, handler HandlerFunc, onUpload UploadFunc) *Router {
	r.routes = append(r.routes, &route{
		method:   m,
		path:     path,
		handler:  handler,
		onUpload: onUpload,
	})

	return r
}

// Get is a shortcut for Route(method.GET, ...)
func (r *Router) Get(path string, handler HandlerFunc) *Router {
	return r.Route(method.GET, path, handler)
}

// Post is a shortcut for Route(method.POST, ...)
func (r *Router) Post(path string, handler HandlerFunc) *Router {
	return r.Route(method.POST, path, handler)
}

func (r *Router) Match(m method.Method, path string) router.Handler {
	for _, rt := range r.routes {
		if (rt.method == method.Unknown || rt.method == m) && rt.path == path {
			return rt
		}
	}

	return nil
}

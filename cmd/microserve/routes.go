package main

import (
	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/router/simple"
)

func newRouter(storage *uploads) *simple.Router {
	return simple.New().
		Get("/", index).
		Route(method.Unknown, "/args", echoArgs).
		Post("/json", echoJSON).
		Upload(method.POST, "/upload", uploaded, storage.Handle)
}

func index(request *http.Request) *http.Response {
	return http.NewResponse().String("served by " + request.Host + " to " + request.Headers.Value("User-Agent"))
}

func echoArgs(request *http.Request) *http.Response {
	if request.Args.Empty() {
		return http.NewResponse().Code(status.NoContent)
	}

	args := make(map[string][]string, request.Args.Len())
	for key := range request.Args.Iter() {
		if _, seen := args[key]; !seen {
			args[key] = request.Args.Values(key)
		}
	}

	return http.NewResponse().JSON(args)
}

func echoJSON(request *http.Request) *http.Response {
	var model map[string]any
	if err := request.JSON(&model); err != nil {
		return http.NewResponse().Error(err)
	}

	return http.NewResponse().JSON(model)
}

func uploaded(request *http.Request) *http.Response {
	return echoArgs(request)
}

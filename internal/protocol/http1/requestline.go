package http1

import (
	"strings"

	"github.com/indigo-web/microserve/config"
	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/http/status"
)

// parseRequestLine fills the method, the path and the protocol of the request from a
// line like `GET /path?query HTTP/1.1`. The raw query is returned as is. Unrecognized
// methods are handled as the policy says.
func parseRequestLine(line string, request *http.Request, policy config.MethodPolicy) (query string, err error) {
	methodEnd := strings.IndexByte(line, ' ')
	if methodEnd == -1 {
		return "", status.ErrMalformedRequestLine
	}

	targetEnd := strings.IndexByte(line[methodEnd+1:], ' ')
	if targetEnd == -1 {
		return "", status.ErrMalformedRequestLine
	}

	targetEnd += methodEnd + 1
	target := line[methodEnd+1 : targetEnd]
	request.Proto = line[targetEnd+1:]

	if q := strings.IndexByte(target, '?'); q != -1 {
		target, query = target[:q], target[q+1:]
	}

	request.Path = target
	request.Method = method.Parse(line[:methodEnd])
	if request.Method == method.Unknown {
		if policy == config.Reject {
			return "", status.ErrMethodNotImplemented
		}

		request.Method = method.GET
	}

	return query, nil
}

package http1

import (
	"strconv"
	"strings"

	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/mime"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/transport"
	"github.com/indigo-web/utils/strcomp"
	"github.com/pkg/errors"
)

// collectHeaders reads header lines until an empty one. A line without a colon ends the
// block as well, as does any read failure: a body that was expected but never came is
// detected later. Only a line exceeding the limit is an error.
func (p *Parser) collectHeaders(stream *transport.Stream, request *http.Request) error {
	for {
		line, err := stream.ReadLine()
		if errors.Is(err, status.ErrAllocationFailure) {
			return err
		}

		if len(line) == 0 {
			return nil
		}

		colon := strings.IndexByte(line, ':')
		if colon == -1 {
			return nil
		}

		key, value := line[:colon], strings.TrimSpace(line[colon+1:])
		request.Headers.Collect(key, value)
		p.debugf("header: %s=%q", key, value)

		switch {
		case strcomp.EqualFold(key, "Content-Type"):
			request.ContentType = value
			request.Class, request.Boundary = mime.Classify(value)
		case strcomp.EqualFold(key, "Content-Length"):
			request.ContentLength = parseContentLength(value)
		case strcomp.EqualFold(key, "Host"):
			request.Host = value
		}

		if err != nil {
			return nil
		}
	}
}

// parseContentLength returns 0 for anything that isn't a plain decimal number.
func parseContentLength(value string) int {
	length, err := strconv.ParseUint(value, 10, 31)
	if err != nil {
		return 0
	}

	return int(length)
}

package http1

import (
	"io"

	"github.com/indigo-web/microserve/config"
	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/headers"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/router"
	"github.com/indigo-web/microserve/transport"
	"github.com/pkg/errors"
)

// Conn is a client the responses can be written back to.
type Conn interface {
	transport.Client
	io.Writer
}

// Suit serves requests of a single connection: parses, routes and renders the response.
type Suit struct {
	*Parser
	request *http.Request
}

// New returns a suit with the values of the subscribed header names being collected into
// every request.
func New(cfg *config.Config, r router.Router, logger Logger, subscribed ...string) (*Suit, error) {
	hdrs := headers.NewTable(cfg.Headers.MaxSubscribed)
	if err := hdrs.Subscribe(subscribed...); err != nil {
		return nil, err
	}

	return &Suit{
		Parser:  NewParser(cfg, r, logger),
		request: http.NewRequest(hdrs),
	}, nil
}

// Request exposes the request the suit parses into.
func (s *Suit) Request() *http.Request {
	return s.request
}

// ServeOnce handles a single request. A parse failure is answered with the error's status
// code and returned. status.ErrCloseConnection means the client sent nothing, so
// nothing is written back.
func (s *Suit) ServeOnce(conn Conn) error {
	handler, err := s.Parse(conn, s.request)
	switch {
	case errors.Is(err, status.ErrCloseConnection):
		return err
	case err != nil:
		// the connection is going to be closed anyway, so a write error is not interesting
		_ = http.NewResponse().Error(err).Render(conn)
		return err
	case handler == nil:
		return http.NewResponse().Error(status.ErrNotFound).Render(conn)
	}

	resp := notNil(handler.Serve(s.request))
	code, contentType, body := resp.Reveal()
	s.debugf("response: %d %s, %d bytes", code, contentType, len(body))

	return resp.Render(conn)
}

func notNil(resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return http.NewResponse()
}

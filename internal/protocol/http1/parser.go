package http1

import (
	"log"

	"github.com/indigo-web/microserve/config"
	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/mime"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/internal/body"
	"github.com/indigo-web/microserve/internal/formdata"
	"github.com/indigo-web/microserve/internal/qparams"
	"github.com/indigo-web/microserve/kv"
	"github.com/indigo-web/microserve/router"
	"github.com/indigo-web/microserve/transport"
	"github.com/pkg/errors"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Parser turns bytes of a single request into a http.Request. It must be used from one
// goroutine only, as the upload buffer is shared between its parses.
type Parser struct {
	cfg    *config.Config
	router router.Router
	logger Logger
	upload *http.Upload
}

// NewParser returns a new parser. Nil logger defaults to log.Default(), which is used
// only when cfg.Debug is set.
func NewParser(cfg *config.Config, r router.Router, logger Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}

	return &Parser{
		cfg:    cfg,
		router: r,
		logger: logger,
	}
}

// Parse reads the request off the client. It returns the handler chosen by the router,
// which is nil if nothing matched. The handler is returned even if the parsing fails
// afterwards, as it might have been notified about an aborted upload already.
//
// Every field of the request is reset first, so nothing survives from a previous parse.
// status.ErrCloseConnection is returned if the client sent nothing at all.
func (p *Parser) Parse(client transport.Client, request *http.Request) (router.Handler, error) {
	request.Reset()
	stream := transport.NewStream(client, p.cfg.NET.ReadTimeout, p.cfg.Body.PollInterval).
		LimitLine(p.cfg.NET.MaxLineSize)

	line, err := stream.ReadLine()
	switch {
	case errors.Is(err, status.ErrAllocationFailure):
		return nil, errors.Wrap(err, "request line")
	case err != nil && len(line) == 0:
		return nil, status.ErrCloseConnection
	}

	query, err := parseRequestLine(line, request, p.cfg.Methods.UnknownPolicy)
	if err != nil {
		return nil, errors.Wrapf(err, "request line %q", line)
	}

	p.debugf("request: method=%s path=%q query=%q", request.Method, request.Path, query)

	handler := p.router.Match(request.Method, request.Path)
	if err = p.collectHeaders(stream, request); err != nil {
		return handler, errors.Wrap(err, "headers")
	}

	if !request.Method.HasBody() {
		request.Args = qparams.Parse(query)
		return handler, nil
	}

	if request.Class == mime.ClassMultipart {
		args, err := p.parseForm(stream, request, handler, query)
		if err != nil {
			return handler, errors.Wrap(err, "multipart form")
		}

		request.Args = args
		return handler, nil
	}

	data, err := body.NewReader(client, p.cfg.Body).Read(request.ContentLength)
	if err != nil {
		return handler, errors.Wrap(err, "body")
	}

	if request.Class == mime.ClassURLEncoded {
		if len(query) > 0 {
			query += "&"
		}

		query += string(data)
	}

	request.Args = qparams.Parse(query)
	if request.Class != mime.ClassURLEncoded && request.ContentLength > 0 {
		request.Args.Add(http.PlainArg, string(data))
	}

	p.debugf("request: arguments %v", request.Args.Expose())

	return handler, nil
}

func (p *Parser) parseForm(
	stream *transport.Stream, request *http.Request, handler router.Handler, query string,
) (*kv.Storage, error) {
	if p.upload == nil {
		p.upload = http.NewUpload(p.cfg.Form.UploadBufferSize)
	}

	defer p.upload.Reset()

	path := request.Path
	notify := func(upload *http.Upload) {
		if handler != nil && handler.CanUpload(path) {
			handler.Upload(path, upload)
		}
	}

	var logger formdata.Logger
	if p.cfg.Debug {
		logger = p.logger
	}

	decoder := formdata.NewDecoder(p.cfg, stream, p.upload, notify, logger)

	return decoder.Decode(request.Boundary, qparams.Parse(query), request.ContentLength)
}

func (p *Parser) debugf(format string, v ...any) {
	if p.cfg.Debug {
		p.logger.Printf(format, v...)
	}
}

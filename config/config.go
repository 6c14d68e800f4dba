package config

import (
	"time"

	"github.com/indigo-web/microserve/http/mime"
)

// MethodPolicy decides what happens to request methods that aren't recognized.
type MethodPolicy uint8

const (
	// DefaultToGET treats every unrecognized method as GET.
	DefaultToGET MethodPolicy = iota
	// Reject fails the parse with status.ErrMethodNotImplemented.
	Reject
)

// BodyStrategy selects how the body reader holds the data.
type BodyStrategy uint8

const (
	// Prealloc allocates a single buffer of the declared Content-Length up front.
	Prealloc BodyStrategy = iota
	// Grow extends an owned buffer chunk by chunk, as data arrives. Suits targets where
	// a single large allocation is unreliable.
	Grow
)

type (
	Methods struct {
		// UnknownPolicy controls unrecognized method tokens.
		UnknownPolicy MethodPolicy `test:"nullable"`
	}

	Headers struct {
		// MaxSubscribed is the capacity of the table of header names whose values are
		// collected for handlers.
		MaxSubscribed int
	}

	Body struct {
		// ReadTimeout is how long the body reader waits for more data to arrive before
		// giving up on a short body.
		ReadTimeout time.Duration
		// PollInterval is the pause between two availability checks.
		PollInterval time.Duration
		// Strategy is either Prealloc or Grow.
		Strategy BodyStrategy `test:"nullable"`
		// MaxSize is the limit for the body buffer. Exceeding it results in
		// status.ErrAllocationFailure.
		MaxSize int
	}

	Form struct {
		// MaxPostArgs caps the number of arguments a multipart request may produce,
		// query arguments included. Extra entries are dropped silently.
		MaxPostArgs int
		// PreambleRetries is how many lines may be read while looking for the first
		// non-empty one of a multipart body.
		PreambleRetries int
		// UploadBufferSize is the size of chunks the file uploads are flushed by.
		UploadBufferSize int
		// DefaultContentType is the MIME of a part without own Content-Type.
		DefaultContentType mime.MIME
	}

	NET struct {
		// ReadTimeout bounds every single line or byte wait on the transport.
		ReadTimeout time.Duration
		// MaxLineSize bounds a single CRLF-terminated line: the request line, a header or
		// a line of a multipart form. Longer lines fail with status.ErrAllocationFailure.
		MaxLineSize int
		// ReadBufferSize is the size of the per-connection buffer for bytes received from
		// the socket.
		ReadBufferSize int
		// DiscardLimit is how many unread bytes may be dropped before the connection is
		// closed. A peer sending more than that gets the connection reset.
		DiscardLimit int
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}
)

// Config holds settings used across the parser and the server, mainly limitations,
// timeouts and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Methods Methods
	Headers Headers
	Body    Body
	Form    Form
	NET     NET
	// Debug enables parse tracing through the logger.
	Debug bool `test:"nullable"`
}

// Default returns default config. The values mirror what a small networked board can
// afford.
func Default() *Config {
	return &Config{
		Methods: Methods{
			UnknownPolicy: DefaultToGET,
		},
		Headers: Headers{
			MaxSubscribed: 16,
		},
		Body: Body{
			ReadTimeout:  5 * time.Second,
			PollInterval: time.Millisecond,
			Strategy:     Prealloc,
			MaxSize:      64 * 1024,
		},
		Form: Form{
			MaxPostArgs:        32,
			PreambleRetries:    3,
			UploadBufferSize:   2048,
			DefaultContentType: mime.Plain,
		},
		NET: NET{
			ReadTimeout:               time.Second,
			MaxLineSize:               8192,
			ReadBufferSize:            1024,
			DiscardLimit:              64 * 1024,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
	}
}

package http

import (
	"strings"

	"github.com/indigo-web/microserve/http/headers"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/http/mime"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/kv"
	json "github.com/json-iterator/go"
)

// PlainArg is the name of the synthetic argument holding an opaque request body.
const PlainArg = "plain"

type Args = *kv.Storage

// Request is a normalized HTTP request. It is built from scratch by every parse: no field
// carries over from a previous request.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the request target up to the first question mark. It isn't decoded.
	Path string
	// Proto is the raw protocol token, e.g. HTTP/1.1.
	Proto string
	// Host is the value of the Host header.
	Host string
	// ContentLength is the declared body length, 0 if not presented or malformed.
	ContentLength int
	// ContentType is the raw value of the Content-Type header.
	ContentType string
	// Class is the body kind derived from ContentType.
	Class mime.Class
	// Boundary is the multipart delimiter without the leading dashes.
	Boundary string
	// Headers holds the values of subscribed header names only.
	Headers *headers.Table
	// Args are decoded query and form arguments in order of appearance.
	Args Args
}

func NewRequest(hdrs *headers.Table) *Request {
	return &Request{
		Method:  method.Unknown,
		Headers: hdrs,
		Args:    kv.New(),
	}
}

// Reset brings the request back into its initial state. Subscribed header names stay,
// but their values are emptied.
func (r *Request) Reset() {
	r.Method = method.Unknown
	r.Path = ""
	r.Proto = ""
	r.Host = ""
	r.ContentLength = 0
	r.ContentType = ""
	r.Class = mime.ClassNone
	r.Boundary = ""
	r.Headers.Reset()
	r.Args = kv.New()
}

// Arg returns the first argument value by the key.
func (r *Request) Arg(key string) string {
	return r.Args.Value(key)
}

// HasArg reports whether the argument is presented.
func (r *Request) HasArg(key string) bool {
	return r.Args.Has(key)
}

// JSON unmarshalls the opaque body into the model. The body must be declared as
// mime.JSON, otherwise status.ErrUnsupportedMediaType is returned.
func (r *Request) JSON(model any) error {
	if !strings.HasPrefix(r.ContentType, mime.JSON) {
		return status.ErrUnsupportedMediaType
	}

	body, found := r.Args.Get(PlainArg)
	if !found {
		return status.ErrNoBody
	}

	iterator := json.ConfigDefault.BorrowIterator([]byte(body))
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}

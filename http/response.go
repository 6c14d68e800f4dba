package http

import (
	"io"
	"strconv"

	"github.com/indigo-web/microserve/http/mime"
	"github.com/indigo-web/microserve/http/status"
	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const defaultContentType = mime.HTML

// Response is a minimal response builder. The connection is always closed after the
// response is sent, so neither keep-alive nor chunked encoding are ever rendered.
type Response struct {
	code        status.Code
	contentType mime.MIME
	body        []byte
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK
// and text/html content-type.
func NewResponse() *Response {
	return &Response{
		code:        status.OK,
		contentType: defaultContentType,
	}
}

// Code sets a Response code.
func (r *Response) Code(code status.Code) *Response {
	r.code = code
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.contentType = value
	return r
}

// String sets the response body.
func (r *Response) String(body string) *Response {
	r.body = append(r.body[:0], body...)
	return r
}

// Bytes sets the response body.
func (r *Response) Bytes(body []byte) *Response {
	r.body = append(r.body[:0], body...)
	return r
}

// Write implements io.Writer, appending to the body.
func (r *Response) Write(b []byte) (int, error) {
	r.body = append(r.body, b...)
	return len(b), nil
}

// TryJSON receives a model (must be a pointer to the structure) and returns a new Response
// object and an error
func (r *Response) TryJSON(model any) (*Response, error) {
	r.body = r.body[:0]
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mime.JSON), err
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error returns a response builder with an error set. If passed err is nil, nothing will happen.
// The code is taken from the status.HTTPError the err wraps, status.InternalServerError otherwise.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	code := status.CodeOf(err)
	return r.Code(code).ContentType(mime.Plain).String(string(status.Text(code)))
}

// Reveal returns the current state of the response.
func (r *Response) Reveal() (code status.Code, contentType mime.MIME, body []byte) {
	return r.code, r.contentType, r.body
}

// Render serializes the response.
func (r *Response) Render(w io.Writer) error {
	buff := make([]byte, 0, 128+len(r.body))
	buff = append(buff, "HTTP/1.1 "...)
	buff = strconv.AppendUint(buff, uint64(r.code), 10)
	buff = append(buff, ' ')
	buff = append(buff, status.Text(r.code)...)
	buff = append(buff, "\r\nContent-Type: "...)
	buff = append(buff, r.contentType...)
	buff = append(buff, "\r\nContent-Length: "...)
	buff = strconv.AppendInt(buff, int64(len(r.body)), 10)
	buff = append(buff, "\r\nConnection: close\r\n\r\n"...)
	buff = append(buff, r.body...)

	_, err := w.Write(buff)
	return errors.Wrap(err, "write response")
}

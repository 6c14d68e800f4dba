package formdata

import (
	"strings"

	"github.com/indigo-web/microserve/config"
	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/internal/buffer"
	"github.com/indigo-web/microserve/kv"
	"github.com/indigo-web/microserve/transport"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/pkg/errors"
)

const (
	contentDisposition = "Content-Disposition"
	contentType        = "Content-Type"
	// blobFilename is what browsers put into the filename of a Blob without a name. The
	// real one is then expected to be passed as the filename query argument.
	blobFilename = "blob"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Notifier receives the upload at every stage of a file part.
type Notifier func(upload *http.Upload)

type header struct {
	Name, File, ContentType string
	IsFile                  bool
}

// Decoder streams a multipart/form-data body off the wire. Regular fields are collected
// as arguments, file parts are never held in memory completely: they are passed to the
// notifier chunk by chunk through the upload buffer.
type Decoder struct {
	cfg    *config.Config
	stream *transport.Stream
	upload *http.Upload
	notify Notifier
	logger Logger

	boundary  string
	lookahead []byte
	// pending is a queue of bytes that were read off the stream but must be scanned
	// once again. It's filled from the end, so head is the index of its first byte.
	pending []byte
	head    int
	value   buffer.Buffer
}

// NewDecoder returns a decoder for a single request. The notifier may be nil, in which
// case file parts are consumed silently. The logger may be nil, too.
func NewDecoder(
	cfg *config.Config, stream *transport.Stream, upload *http.Upload, notify Notifier, logger Logger,
) *Decoder {
	if notify == nil {
		notify = func(*http.Upload) {}
	}

	return &Decoder{
		cfg:    cfg,
		stream: stream,
		upload: upload,
		notify: notify,
		logger: logger,
		value:  buffer.New(0, cfg.Body.MaxSize),
	}
}

// Decode consumes the whole form. The query arguments are used to resolve blob filenames
// and are appended after the form fields as long as the arguments limit allows it.
func (d *Decoder) Decode(boundary string, query *kv.Storage, contentLength int) (*kv.Storage, error) {
	delimiter := "--" + boundary
	d.boundary = boundary
	d.lookahead = make([]byte, 0, len(boundary))
	d.pending = make([]byte, len(boundary)+4)
	d.head = len(d.pending)

	d.debugf("form: boundary=%q length=%d", boundary, contentLength)

	if err := d.preamble(delimiter); err != nil {
		return nil, err
	}

	limit := d.cfg.Form.MaxPostArgs
	args := kv.NewPrealloc(limit)

	for {
		hdr, err := d.partHeader(query)
		if err != nil {
			return nil, err
		}

		var last bool
		if hdr.IsFile {
			last, err = d.file(hdr, contentLength)
		} else {
			var value string
			value, last, err = d.field(delimiter)
			if err == nil && args.Len() < limit {
				args.Add(hdr.Name, value)
			}
		}

		if err != nil {
			return nil, err
		}

		if last {
			break
		}
	}

	for key, value := range query.Iter() {
		if args.Len() >= limit {
			break
		}

		args.Add(key, value)
	}

	return args, nil
}

func (d *Decoder) preamble(delimiter string) error {
	var line string
	for i := 0; i < d.cfg.Form.PreambleRetries && len(line) == 0; i++ {
		var err error
		if line, err = d.stream.ReadLine(); errors.Is(err, status.ErrAllocationFailure) {
			return err
		}
	}

	if line != delimiter {
		return status.ErrFormPreambleMismatch
	}

	return nil
}

// partHeader skips lines until a Content-Disposition one and reads the optional
// Content-Type line following it together with the blank line that ends the headers.
func (d *Decoder) partHeader(query *kv.Storage) (hdr header, err error) {
	for {
		line, err := d.stream.ReadLine()
		if err != nil {
			return hdr, lineError(err)
		}

		var ok bool
		if hdr, ok = parseContentDisposition(line); ok {
			break
		}
	}

	if hdr.IsFile && hdr.File == blobFilename {
		if filename, found := query.Get("filename"); found {
			hdr.File = filename
		}
	}

	hdr.ContentType = d.cfg.Form.DefaultContentType
	line, err := d.stream.ReadLine()
	if err != nil {
		return hdr, lineError(err)
	}

	if len(line) > len(contentType) && strcomp.EqualFold(line[:len(contentType)], contentType) {
		if colon := strings.IndexByte(line, ':'); colon != -1 {
			hdr.ContentType = strings.TrimSpace(line[colon+1:])
		}

		if _, err = d.stream.ReadLine(); err != nil {
			return hdr, lineError(err)
		}
	}

	d.debugf("form: part name=%q file=%q type=%q", hdr.Name, hdr.File, hdr.ContentType)

	return hdr, nil
}

// parseContentDisposition extracts the name and, if presented, the filename off the
// header line. The name must go first.
func parseContentDisposition(line string) (hdr header, ok bool) {
	if len(line) <= len(contentDisposition) ||
		!strcomp.EqualFold(line[:len(contentDisposition)], contentDisposition) {
		return hdr, false
	}

	eq := strings.IndexByte(line, '=')
	if eq == -1 {
		return hdr, false
	}

	params := skipQuote(line[eq+1:])
	eq = strings.IndexByte(params, '=')
	if eq == -1 {
		hdr.Name = trimLast(params)
		return hdr, true
	}

	hdr.IsFile = true
	hdr.File = trimLast(skipQuote(params[eq+1:]))
	if quote := strings.IndexByte(params, '"'); quote != -1 {
		hdr.Name = params[:quote]
	} else {
		hdr.Name = params
	}

	return hdr, true
}

func skipQuote(str string) string {
	if len(str) > 0 {
		return str[1:]
	}

	return str
}

func trimLast(str string) string {
	if len(str) > 0 {
		return str[:len(str)-1]
	}

	return str
}

// field reads lines until the boundary line. The lines are joined with LF, leading empty
// lines are dropped.
func (d *Decoder) field(delimiter string) (value string, last bool, err error) {
	d.value.Clear()

	for {
		line, err := d.stream.ReadLine()
		if err != nil {
			return "", false, lineError(err)
		}

		if strings.HasPrefix(line, delimiter) {
			last = line[len(delimiter):] == "--"
			break
		}

		if d.value.Len() > 0 && !d.value.AppendByte('\n') {
			return "", false, status.ErrAllocationFailure
		}

		if !d.value.Append(uf.S2B(line)) {
			return "", false, status.ErrAllocationFailure
		}
	}

	return string(d.value.Bytes()), last, nil
}

type scanState uint8

const (
	// scanData is regular file content.
	scanData scanState = iota
	// scanCR means CR was seen, LF is expected.
	scanCR
	// scanCRLF means CRLF was seen, a dash is expected.
	scanCRLF
	// scanCRLFDash means CRLF and a dash were seen, one more dash is expected.
	scanCRLFDash
	// scanBoundary means CRLF-- was seen, the boundary bytes are being compared.
	scanBoundary
)

// file streams the part's content into the upload, notifying about every full buffer.
// The content ends at CRLF--boundary. Any prefix of it followed by something else is
// a part of the content. On a failed comparison the CRLF-- is written out, while the
// compared bytes are scanned once again, so a delimiter starting among them is still found.
func (d *Decoder) file(hdr header, contentLength int) (last bool, err error) {
	u := d.upload
	u.Begin(hdr.Name, hdr.File, hdr.ContentType, contentLength)
	d.notify(u)
	u.Status = http.UploadWrite

	state := scanData
	d.lookahead = d.lookahead[:0]

	for {
		c, err := d.next()
		if err != nil {
			return false, d.abort()
		}

		switch state {
		case scanData:
			if c == '\r' {
				state = scanCR
				continue
			}

			d.write(c)
		case scanCR:
			if c == '\n' {
				state = scanCRLF
				continue
			}

			d.write('\r')
			d.unread(c)
			state = scanData
		case scanCRLF:
			if c == '-' {
				state = scanCRLFDash
				continue
			}

			d.write('\r', '\n')
			d.unread(c)
			state = scanData
		case scanCRLFDash:
			if c == '-' {
				d.lookahead = d.lookahead[:0]
				state = scanBoundary
				if len(d.boundary) == 0 {
					return d.finish()
				}

				continue
			}

			d.write('\r', '\n', '-')
			d.unread(c)
			state = scanData
		case scanBoundary:
			d.lookahead = append(d.lookahead, c)
			if len(d.lookahead) < len(d.boundary) {
				continue
			}

			if uf.B2S(d.lookahead) == d.boundary {
				return d.finish()
			}

			d.write('\r', '\n', '-', '-')
			d.unread(d.lookahead...)
			d.lookahead = d.lookahead[:0]
			state = scanData
		}
	}
}

// finish flushes the rest of the buffer, reports the end of the file and reads the
// remainder of the delimiter line.
func (d *Decoder) finish() (last bool, err error) {
	u := d.upload
	d.notify(u)
	u.TotalSize += u.CurrentSize
	u.Status = http.UploadEnd
	d.notify(u)

	d.debugf("form: file %q of %d bytes", u.Filename, u.TotalSize)

	line, err := d.stream.ReadLine()
	switch {
	case errors.Is(err, status.ErrAllocationFailure):
		return false, err
	case err != nil && len(line) == 0:
		return false, status.ErrBodyTruncated
	}

	return line == "--", nil
}

// lineError maps a failed line read: a line over the limit stays an allocation failure,
// anything else means the body ended prematurely.
func lineError(err error) error {
	if errors.Is(err, status.ErrAllocationFailure) {
		return err
	}

	return status.ErrBodyTruncated
}

func (d *Decoder) abort() error {
	d.upload.Status = http.UploadAborted
	d.notify(d.upload)
	d.debugf("form: upload of %q aborted", d.upload.Filename)

	return status.ErrUploadAborted
}

// write appends the bytes to the upload buffer, flushing it whenever it's full.
func (d *Decoder) write(bytes ...byte) {
	u := d.upload

	for _, c := range bytes {
		if u.CurrentSize == len(u.Buf) {
			d.notify(u)
			u.TotalSize += u.CurrentSize
			u.CurrentSize = 0
		}

		u.Buf[u.CurrentSize] = c
		u.CurrentSize++
	}
}

func (d *Decoder) next() (byte, error) {
	if d.head < len(d.pending) {
		c := d.pending[d.head]
		d.head++
		return c, nil
	}

	return d.stream.ReadByte()
}

// unread puts the bytes back in front of the pending ones.
func (d *Decoder) unread(bytes ...byte) {
	if d.head >= len(bytes) {
		d.head -= len(bytes)
		copy(d.pending[d.head:], bytes)
		return
	}

	rest := d.pending[d.head:]
	merged := make([]byte, 0, len(bytes)+len(rest))
	d.pending = append(append(merged, bytes...), rest...)
	d.head = 0
}

func (d *Decoder) debugf(format string, v ...any) {
	if d.logger != nil {
		d.logger.Printf(format, v...)
	}
}

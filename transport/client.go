package transport

import (
	"github.com/pkg/errors"
)

var (
	// ErrNoData is returned by non-blocking reads when nothing is buffered at the moment.
	ErrNoData = errors.New("no data available")
	// ErrTimeout is returned by Stream when the peer is connected but silent for too long.
	ErrTimeout = errors.New("transport read timed out")
)

// Client is the polled byte source a request is parsed from. None of its methods
// may block for long: waiting is done by the consumers, which poll Available and
// Connected in a loop.
type Client interface {
	// Available returns the number of bytes that can be read right now.
	Available() int
	// ReadByte returns the next buffered byte or ErrNoData.
	ReadByte() (byte, error)
	// Read copies at most len(b) buffered bytes. It returns ErrNoData if there are none.
	Read(b []byte) (n int, err error)
	// Connected reports whether more data may still be read: either the peer is
	// connected or some unread bytes are left.
	Connected() bool
}

package transport

import (
	"io"
	"strings"
	"time"

	"github.com/indigo-web/microserve/http/status"
)

// Stream adds timed, blocking reads on top of a Client. Every wait is bounded by the
// timeout and stops immediately as soon as the peer is gone.
type Stream struct {
	client  Client
	timeout time.Duration
	poll    time.Duration
	maxLine int
}

func NewStream(client Client, timeout, poll time.Duration) *Stream {
	return &Stream{
		client:  client,
		timeout: timeout,
		poll:    poll,
	}
}

// LimitLine bounds the length of strings returned by ReadStringUntil and ReadLine.
// Zero means no limit.
func (s *Stream) LimitLine(n int) *Stream {
	s.maxLine = n
	return s
}

// wait blocks until at least one byte is available. It returns io.EOF if the peer is
// gone and ErrTimeout if nothing arrived in time.
func (s *Stream) wait() error {
	deadline := time.Now().Add(s.timeout)

	for s.client.Available() == 0 {
		if !s.client.Connected() {
			return io.EOF
		}

		if !time.Now().Before(deadline) {
			return ErrTimeout
		}

		time.Sleep(s.poll)
	}

	return nil
}

// ReadByte waits for the next byte.
func (s *Stream) ReadByte() (byte, error) {
	if err := s.wait(); err != nil {
		return 0, err
	}

	return s.client.ReadByte()
}

// ReadStringUntil reads until the delimiter, which is consumed but not included into
// the result. If the delimiter never comes, everything read so far is returned together
// with the error. Reading stops with status.ErrAllocationFailure as soon as the string
// would grow past the line limit.
func (s *Stream) ReadStringUntil(delim byte) (string, error) {
	var sb strings.Builder

	for {
		c, err := s.ReadByte()
		if err != nil {
			return sb.String(), err
		}

		if c == delim {
			return sb.String(), nil
		}

		if s.maxLine > 0 && sb.Len() == s.maxLine {
			return sb.String(), status.ErrAllocationFailure
		}

		sb.WriteByte(c)
	}
}

// ReadLine reads a CRLF-terminated line. Lone LFs are a part of the line.
func (s *Stream) ReadLine() (string, error) {
	line, err := s.ReadStringUntil('\r')
	if err != nil {
		return line, err
	}

	_, err = s.ReadStringUntil('\n')
	return line, err
}

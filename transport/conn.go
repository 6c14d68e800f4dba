package transport

import (
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
)

var _ Client = new(Conn)

// Conn adapts a net.Conn to the polled Client contract. Every availability check
// performs a read bounded by a tiny deadline, so it never blocks for longer than the
// poll interval.
type Conn struct {
	conn   net.Conn
	buff   []byte
	data   []byte
	poll   time.Duration
	closed bool
}

func NewConn(conn net.Conn, buff []byte, poll time.Duration) *Conn {
	return &Conn{
		conn: conn,
		buff: buff,
		poll: poll,
	}
}

func (c *Conn) fill() {
	if len(c.data) > 0 || c.closed {
		return
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.poll)); err != nil {
		c.closed = true
		return
	}

	n, err := c.conn.Read(c.buff)
	c.data = c.buff[:n]
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		c.closed = true
	}
}

func (c *Conn) Available() int {
	c.fill()
	return len(c.data)
}

func (c *Conn) ReadByte() (byte, error) {
	c.fill()
	if len(c.data) == 0 {
		return 0, ErrNoData
	}

	char := c.data[0]
	c.data = c.data[1:]

	return char, nil
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.fill()
	if len(c.data) == 0 {
		return 0, ErrNoData
	}

	n = copy(b, c.data)
	c.data = c.data[n:]

	return n, nil
}

func (c *Conn) Connected() bool {
	c.fill()
	return len(c.data) > 0 || !c.closed
}

// Write writes data into the underlying connection.
func (c *Conn) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// Discard drops what is buffered or already arrived, so closing the connection doesn't
// reset it while unread request bytes are pending. It stops once at least limit bytes
// are dropped, as a peer may never stop sending. The number of dropped bytes is returned.
func (c *Conn) Discard(limit int) (discarded int) {
	for discarded < limit && c.Available() > 0 {
		discarded += len(c.data)
		c.data = c.data[:0]
	}

	return discarded
}

// Remote returns the peer address.
func (c *Conn) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	c.closed = true
	return c.conn.Close()
}

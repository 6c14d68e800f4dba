package dummy

import (
	"github.com/indigo-web/microserve/transport"
)

var _ transport.Client = new(Client)

// Client hands out the data it was initialised with, one chunk at a time: the next
// chunk becomes available only when the current one is consumed completely. After the
// last chunk the client either disconnects (default) or stalls, staying connected but
// silent forever.
type Client struct {
	chunks  [][]byte
	current []byte
	stall   bool
	closed  bool
	read    int
}

func NewClient(chunks ...[]byte) *Client {
	return &Client{
		chunks: chunks,
	}
}

// NewStringClient is the same as NewClient, but for strings.
func NewStringClient(chunks ...string) *Client {
	bytes := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		bytes[i] = []byte(chunk)
	}

	return NewClient(bytes...)
}

// Stall keeps the client connected after all the data has been read.
func (c *Client) Stall() *Client {
	c.stall = true
	return c
}

func (c *Client) advance() {
	for len(c.current) == 0 && len(c.chunks) > 0 {
		c.current, c.chunks = c.chunks[0], c.chunks[1:]
	}
}

func (c *Client) Available() int {
	c.advance()
	return len(c.current)
}

func (c *Client) ReadByte() (byte, error) {
	c.advance()
	if len(c.current) == 0 {
		return 0, transport.ErrNoData
	}

	char := c.current[0]
	c.current = c.current[1:]
	c.read++

	return char, nil
}

func (c *Client) Read(b []byte) (n int, err error) {
	c.advance()
	if len(c.current) == 0 {
		return 0, transport.ErrNoData
	}

	n = copy(b, c.current)
	c.current = c.current[n:]
	c.read += n

	return n, nil
}

func (c *Client) Connected() bool {
	if c.Available() > 0 {
		return true
	}

	return c.stall && !c.closed
}

// Consumed returns how many bytes were read in total.
func (c *Client) Consumed() int {
	return c.read
}

// Close drops the connection. Unread data stays readable.
func (c *Client) Close() error {
	c.closed = true
	return nil
}

package http1

import (
	"bytes"
	"strings"
	"testing"

	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/router/simple"
	"github.com/indigo-web/microserve/transport/dummy"
	"github.com/stretchr/testify/require"
)

type conn struct {
	*dummy.Client
	out *bytes.Buffer
}

func newConn(data ...string) conn {
	return conn{
		Client: dummy.NewStringClient(data...),
		out:    new(bytes.Buffer),
	}
}

func (c conn) Write(b []byte) (int, error) {
	return c.out.Write(b)
}

func getSuit(t *testing.T) *Suit {
	r := simple.New().
		Get("/", func(request *http.Request) *http.Response {
			return http.NewResponse().String("hello, " + request.Headers.Value("X-Name"))
		}).
		Get("/nil", func(*http.Request) *http.Response {
			return nil
		})

	suit, err := New(getConfig(), r, nil, "X-Name")
	require.NoError(t, err)

	return suit
}

func TestSuit(t *testing.T) {
	t.Run("served", func(t *testing.T) {
		c := newConn("GET / HTTP/1.1\r\nX-Name: board\r\n\r\n")
		require.NoError(t, getSuit(t).ServeOnce(c))
		response := c.out.String()
		require.True(t, strings.HasPrefix(response, "HTTP/1.1 200 "), response)
		require.True(t, strings.HasSuffix(response, "\r\n\r\nhello, board"), response)
	})

	t.Run("nil response", func(t *testing.T) {
		c := newConn("GET /nil HTTP/1.1\r\n\r\n")
		require.NoError(t, getSuit(t).ServeOnce(c))
		require.True(t, strings.HasPrefix(c.out.String(), "HTTP/1.1 200 "))
	})

	t.Run("not found", func(t *testing.T) {
		c := newConn("GET /missing HTTP/1.1\r\n\r\n")
		require.NoError(t, getSuit(t).ServeOnce(c))
		require.True(t, strings.HasPrefix(c.out.String(), "HTTP/1.1 404 "))
	})

	t.Run("bad request", func(t *testing.T) {
		c := newConn("nonsense\r\n\r\n")
		err := getSuit(t).ServeOnce(c)
		require.ErrorIs(t, err, status.ErrMalformedRequestLine)
		require.True(t, strings.HasPrefix(c.out.String(), "HTTP/1.1 400 "))
	})

	t.Run("silent client", func(t *testing.T) {
		c := newConn()
		err := getSuit(t).ServeOnce(c)
		require.ErrorIs(t, err, status.ErrCloseConnection)
		require.Zero(t, c.out.Len())
	})

	t.Run("too many subscriptions", func(t *testing.T) {
		cfg := getConfig()
		cfg.Headers.MaxSubscribed = 1
		_, err := New(cfg, simple.New(), nil, "A", "B")
		require.Error(t, err)
	})
}

package transport_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/transport"
	"github.com/indigo-web/microserve/transport/dummy"
	"github.com/stretchr/testify/require"
)

const (
	timeout = 20 * time.Millisecond
	poll    = time.Millisecond
)

func TestStream(t *testing.T) {
	t.Run("lines", func(t *testing.T) {
		stream := transport.NewStream(dummy.NewStringClient("GET / HTTP/1.1\r\n", "Host: x\r\n\r\n"), timeout, poll)

		for _, want := range []string{"GET / HTTP/1.1", "Host: x", ""} {
			line, err := stream.ReadLine()
			require.NoError(t, err)
			require.Equal(t, want, line)
		}

		_, err := stream.ReadLine()
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("lone LF belongs to the line", func(t *testing.T) {
		stream := transport.NewStream(dummy.NewStringClient("a\nb\r\n"), timeout, poll)
		line, err := stream.ReadLine()
		require.NoError(t, err)
		require.Equal(t, "a\nb", line)
	})

	t.Run("unterminated", func(t *testing.T) {
		stream := transport.NewStream(dummy.NewStringClient("partial"), timeout, poll)
		line, err := stream.ReadStringUntil('\r')
		require.ErrorIs(t, err, io.EOF)
		require.Equal(t, "partial", line)
	})

	t.Run("timeout", func(t *testing.T) {
		stream := transport.NewStream(dummy.NewStringClient("partial").Stall(), timeout, poll)
		start := time.Now()
		_, err := stream.ReadStringUntil('\r')
		require.ErrorIs(t, err, transport.ErrTimeout)
		require.GreaterOrEqual(t, time.Since(start), timeout)
	})

	t.Run("line limit", func(t *testing.T) {
		client := dummy.NewStringClient("GET /", strings.Repeat("a", 64), " HTTP/1.1\r\n").Stall()
		stream := transport.NewStream(client, timeout, poll).LimitLine(16)
		line, err := stream.ReadLine()
		require.ErrorIs(t, err, status.ErrAllocationFailure)
		require.Len(t, line, 16)
		require.Less(t, client.Consumed(), 64, "the oversized line must not be read completely")
	})

	t.Run("line exactly at the limit", func(t *testing.T) {
		stream := transport.NewStream(dummy.NewStringClient("abcd\r\nabcde\r\n"), timeout, poll).LimitLine(4)
		line, err := stream.ReadLine()
		require.NoError(t, err)
		require.Equal(t, "abcd", line)

		_, err = stream.ReadLine()
		require.ErrorIs(t, err, status.ErrAllocationFailure)
	})
}

package transport_test

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/indigo-web/microserve/transport"
	"github.com/stretchr/testify/require"
)

func TestConn(t *testing.T) {
	local, remote := net.Pipe()
	go func() {
		_, _ = remote.Write([]byte("hello\r\n"))
		_, _ = remote.Write([]byte("world"))
		_ = remote.Close()
	}()

	conn := transport.NewConn(local, make([]byte, 4), time.Millisecond)
	stream := transport.NewStream(conn, time.Second, time.Millisecond)

	line, err := stream.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "hello", line)

	rest, err := stream.ReadStringUntil('\r')
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "world", rest)

	_, err = stream.ReadByte()
	require.ErrorIs(t, err, io.EOF)
	require.False(t, conn.Connected())
	require.NoError(t, conn.Close())
}

func TestConnDiscard(t *testing.T) {
	local, remote := net.Pipe()
	go func() {
		chunk := []byte(strings.Repeat("a", 16))
		for {
			if _, err := remote.Write(chunk); err != nil {
				return
			}
		}
	}()

	const (
		limit = 64
		buff  = 8
	)

	conn := transport.NewConn(local, make([]byte, buff), time.Millisecond)
	n := conn.Discard(limit)
	require.LessOrEqual(t, n, limit+buff, "an endless peer must not pin the discarding")
	require.NoError(t, conn.Close())
}

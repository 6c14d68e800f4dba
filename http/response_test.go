package http

import (
	"bytes"
	"testing"

	"github.com/indigo-web/microserve/http/mime"
	"github.com/indigo-web/microserve/http/status"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestResponse(t *testing.T) {
	t.Run("render", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewResponse().ContentType(mime.Plain).String("hello").Render(&out))
		require.Equal(t,
			"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\nConnection: close\r\n\r\nhello",
			out.String(),
		)
	})

	t.Run("json", func(t *testing.T) {
		resp := NewResponse().JSON(map[string]int{"a": 1})
		code, contentType, body := resp.Reveal()
		require.Equal(t, status.OK, code)
		require.Equal(t, mime.JSON, contentType)
		require.JSONEq(t, `{"a":1}`, string(body))
	})

	t.Run("error", func(t *testing.T) {
		resp := NewResponse().Error(errors.Wrap(status.ErrBodyTruncated, "parse"))
		code, _, body := resp.Reveal()
		require.Equal(t, status.BadRequest, code)
		require.Equal(t, "Bad Request", string(body))

		code, _, _ = NewResponse().Error(nil).Reveal()
		require.Equal(t, status.OK, code)
	})
}

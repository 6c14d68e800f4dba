package http

import (
	"testing"

	"github.com/indigo-web/microserve/http/headers"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/http/mime"
	"github.com/indigo-web/microserve/http/status"
	"github.com/stretchr/testify/require"
)

func TestRequestReset(t *testing.T) {
	table := headers.NewTable(1)
	require.NoError(t, table.Subscribe("X-Token"))
	request := NewRequest(table)
	request.Method = method.POST
	request.Path = "/upload"
	request.Host = "board.local"
	request.ContentLength = 10
	request.Class = mime.ClassMultipart
	request.Boundary = "xyz"
	request.Headers.Collect("x-token", "secret")
	request.Args.Add("a", "1")
	args := request.Args

	request.Reset()
	require.Equal(t, method.Unknown, request.Method)
	require.Empty(t, request.Path)
	require.Empty(t, request.Host)
	require.Zero(t, request.ContentLength)
	require.Equal(t, mime.ClassNone, request.Class)
	require.Empty(t, request.Boundary)
	require.Empty(t, request.Headers.Value("X-Token"))
	require.True(t, request.Args.Empty())
	require.Equal(t, 1, args.Len(), "previous arguments must not be aliased")
}

func TestRequestJSON(t *testing.T) {
	type model struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("plain body", func(t *testing.T) {
		request := NewRequest(headers.NewTable(0))
		request.ContentType = mime.JSON
		request.Args.Add(PlainArg, `{"name":"led","count":3}`)

		var m model
		require.NoError(t, request.JSON(&m))
		require.Equal(t, model{Name: "led", Count: 3}, m)
	})

	t.Run("wrong content type", func(t *testing.T) {
		request := NewRequest(headers.NewTable(0))
		request.ContentType = mime.Plain
		require.ErrorIs(t, request.JSON(new(model)), status.ErrUnsupportedMediaType)
	})

	t.Run("no body", func(t *testing.T) {
		request := NewRequest(headers.NewTable(0))
		request.ContentType = mime.JSON
		require.ErrorIs(t, request.JSON(new(model)), status.ErrNoBody)
	})
}

func TestUpload(t *testing.T) {
	upload := NewUpload(4)
	upload.Begin("file", "a.txt", mime.Plain, 100)
	copy(upload.Buf, "abcd")
	upload.CurrentSize = 3
	require.Equal(t, "abc", string(upload.Chunk()))
	require.Equal(t, "start", upload.Status.String())

	upload.Reset()
	require.Empty(t, upload.Name)
	require.Zero(t, upload.CurrentSize)
	require.Len(t, upload.Buf, 4)
}

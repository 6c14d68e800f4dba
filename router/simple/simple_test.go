package simple

import (
	"testing"

	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/http/status"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	respond := func(code status.Code) HandlerFunc {
		return func(*http.Request) *http.Response {
			return http.NewResponse().Code(code)
		}
	}

	var uploads []http.UploadStatus
	r := New().
		Get("/", respond(status.OK)).
		Post("/", respond(status.Created)).
		Upload(method.POST, "/upload", respond(status.NoContent), func(_ string, u *http.Upload) {
			uploads = append(uploads, u.Status)
		}).
		Route(method.Unknown, "/any", respond(status.OK))

	t.Run("method and path", func(t *testing.T) {
		handler := r.Match(method.POST, "/")
		require.NotNil(t, handler)
		code, _, _ := handler.Serve(nil).Reveal()
		require.Equal(t, status.Created, code)
		require.False(t, handler.CanUpload("/"))
	})

	t.Run("no match", func(t *testing.T) {
		require.Nil(t, r.Match(method.PUT, "/"))
		require.Nil(t, r.Match(method.GET, "/missing"))
	})

	t.Run("any method", func(t *testing.T) {
		require.NotNil(t, r.Match(method.DELETE, "/any"))
	})

	t.Run("upload", func(t *testing.T) {
		handler := r.Match(method.POST, "/upload")
		require.True(t, handler.CanUpload("/upload"))
		require.False(t, handler.CanUpload("/elsewhere"))
		handler.Upload("/upload", &http.Upload{Status: http.UploadEnd})
		require.Equal(t, []http.UploadStatus{http.UploadEnd}, uploads)
	})
}

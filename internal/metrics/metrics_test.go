package metrics

import (
	"testing"
	"time"

	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/router/simple"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("requests", func(t *testing.T) {
		m := New(prometheus.NewRegistry(), "")
		m.Connection()
		m.Request(method.GET, nil, time.Millisecond)
		m.Request(method.POST, errors.Wrap(status.ErrBodyTruncated, "body"), time.Millisecond)
		m.Request(method.Unknown, status.ErrCloseConnection, time.Millisecond)

		require.Equal(t, 1.0, testutil.ToFloat64(m.Connections))
		require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "ok")))
		require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("POST", "400")))
		require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(method.Unknown.String(), "close")))
	})

	t.Run("series of every method exist from the start", func(t *testing.T) {
		m := New(prometheus.NewRegistry(), "")
		require.Equal(t, len(method.List), testutil.CollectAndCount(m.Requests))
		require.Zero(t, testutil.ToFloat64(m.Requests.WithLabelValues("PATCH", "ok")))
	})

	t.Run("uploads", func(t *testing.T) {
		m := New(prometheus.NewRegistry(), "test")
		var delivered []http.UploadStatus
		r := m.Instrument(simple.New().Upload(method.POST, "/up", nil, func(_ string, u *http.Upload) {
			delivered = append(delivered, u.Status)
		}))

		require.Nil(t, r.Match(method.GET, "/up"))
		handler := r.Match(method.POST, "/up")
		require.True(t, handler.CanUpload("/up"))

		upload := http.NewUpload(4)
		handler.Upload("/up", upload)
		upload.Status, upload.CurrentSize = http.UploadWrite, 4
		handler.Upload("/up", upload)
		upload.Status = http.UploadEnd
		handler.Upload("/up", upload)
		upload.Status = http.UploadAborted
		handler.Upload("/up", upload)

		require.Equal(t, []http.UploadStatus{
			http.UploadStart, http.UploadWrite, http.UploadEnd, http.UploadAborted,
		}, delivered)
		require.Equal(t, 4.0, testutil.ToFloat64(m.UploadedBytes))
		require.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("completed")))
		require.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("aborted")))
	})

	t.Run("nil", func(t *testing.T) {
		var m *Metrics
		m.Connection()
		m.Request(method.GET, nil, 0)
		r := simple.New()
		require.Equal(t, r, m.Instrument(r))
	})
}

package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordShare(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordShare("delivered", "none")
	m.RecordShare("delivered", "none")
	m.RecordShare("undeliverable", "upload")

	assert.Equal(t, 2.0, promtest.ToFloat64(m.ShareInvocations.WithLabelValues("delivered", "none")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ShareInvocations.WithLabelValues("undeliverable", "upload")))
}

func TestObserveStage(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveStage("classifying", 3*time.Millisecond)
	m.ObserveStage("uploading", 2*time.Second)

	assert.Equal(t, 2, promtest.CollectAndCount(m.StageDuration))
}

func TestNewMetricsOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/health", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordShare("fallback_delivered", "none")

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sharebridge_share_invocations_total{failure="none",outcome="fallback_delivered"} 1`)
}

type sizedUploader struct{ got int }

func (s *sizedUploader) Upload(ctx context.Context, token string, image []byte) (string, error) {
	s.got = len(image)
	return "https://i.gyazo.com/x.jpg", nil
}

func TestUploadObserver(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	inner := &sizedUploader{}
	obs := UploadObserver{Uploader: inner, Metrics: m}

	hosted, err := obs.Upload(context.Background(), "tok", make([]byte, 2048))
	require.NoError(t, err)
	assert.Equal(t, "https://i.gyazo.com/x.jpg", hosted)
	assert.Equal(t, 2048, inner.got)
	assert.Equal(t, 1, promtest.CollectAndCount(m.UploadBytes))
}

package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ShareBridge/internal/imaging"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ShareBridge/internal/pageref"
	"github.com/GriffinCanCode/ShareBridge/internal/pipeline"
	"github.com/GriffinCanCode/ShareBridge/internal/settings"
	"github.com/GriffinCanCode/ShareBridge/tests/helpers/testutil"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg.Logging.Development = true

	reg := monitoring.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	builder, err := pageref.NewBuilder(cfg.Share.PageBaseURL)
	require.NoError(t, err)

	p := pipeline.New(pipeline.Options{
		Processor:      imaging.NewProcessor(imaging.Options{}),
		Uploader:       testutil.NewMockUploader(t, "https://i.gyazo.com/x.jpg"),
		Builder:        builder,
		DefaultProject: cfg.Share.DefaultProject,
	}).WithMetrics(metrics)

	srv, err := NewServer(cfg, Deps{
		Runner:   p,
		Store:    func() (settings.Getter, error) { return settings.Static{}, nil },
		Metrics:  metrics,
		Registry: reg,
	})
	require.NoError(t, err)
	return srv
}

func TestNewServerRequiresRunner(t *testing.T) {
	_, err := NewServer(config.Default(), Deps{})
	assert.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t, config.Default())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	form := url.Values{"url": {"https://example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/share", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `sharebridge_share_invocations_total{failure="none",outcome="delivered"} 1`)
	assert.Contains(t, body, `sharebridge_http_requests_total{method="POST",path="/share",status="303"} 1`)
}

func TestServerRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1
	srv := newTestServer(t, cfg)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.1.1.1:5000"
		srv.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServerGlobalRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.GlobalRequestsPerSecond = 1
	cfg.RateLimit.GlobalBurst = 1
	srv := newTestServer(t, cfg)

	codes := make([]int, 0, 2)
	for _, addr := range []string{"10.1.1.1:5000", "10.2.2.2:5000"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		srv.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestUploadSuccess(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}

	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "ShareBridge-test", r.Header.Get("User-Agent"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "tok", r.FormValue("access_token"))

		file, header, err := r.FormFile("imagedata")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "image.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		got, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, image, got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"image_id":"abc","permalink_url":"https://gyazo.com/abc","url":"https://i.gyazo.com/abc.jpg","type":"jpg"}`))
	})

	client := NewClient(Options{Endpoint: srv.URL, UserAgent: "ShareBridge-test"})
	hosted, err := client.Upload(context.Background(), "tok", image)
	require.NoError(t, err)
	assert.Equal(t, "https://i.gyazo.com/abc.jpg", hosted)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestUploadMissingToken(t *testing.T) {
	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	client := NewClient(Options{Endpoint: srv.URL})
	for _, token := range []string{"", "   "} {
		_, err := client.Upload(context.Background(), token, []byte{1})
		assert.ErrorIs(t, err, share.ErrCredentialMissing)
	}
	assert.Zero(t, atomic.LoadInt32(hits), "no request may be sent without a token")
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"You are not authorized."}`))
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}},
		{"missing url", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"image_id":"abc"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newTestServer(t, tt.handler)

			_, err := NewClient(Options{Endpoint: srv.URL}).Upload(context.Background(), "tok", []byte{1})
			assert.ErrorIs(t, err, share.ErrUploadFailure)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits), "failed uploads are never retried")
		})
	}
}

func TestUploadServerErrorIsSingleAttempt(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := NewClient(Options{Endpoint: srv.URL}).Upload(context.Background(), "tok", []byte{1})
		require.Error(t, err)
		assert.ErrorIs(t, err, share.ErrUploadFailure)
		assert.Contains(t, err.Error(), fmt.Sprintf("unexpected status %d", status))
		assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	}
}

func TestUploadNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := NewClient(Options{Endpoint: endpoint}).Upload(context.Background(), "tok", []byte{1})
	assert.ErrorIs(t, err, share.ErrUploadFailure)
}

func TestUploadTimeout(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	_, err := NewClient(Options{Endpoint: srv.URL, Timeout: 20 * time.Millisecond}).Upload(context.Background(), "tok", []byte{1})
	assert.ErrorIs(t, err, share.ErrUploadFailure)
}

func TestDefaultEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewClient(Options{}).Endpoint())
}

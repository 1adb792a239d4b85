// Package testutil provides mocks and fixtures shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/ShareBridge/internal/callback"
	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

// MockUploader is a mock implementation of upload.Uploader.
type MockUploader struct {
	mock.Mock
}

// Upload mocks the Upload method.
func (m *MockUploader) Upload(ctx context.Context, token string, image []byte) (string, error) {
	args := m.Called(ctx, token, image)
	return args.String(0), args.Error(1)
}

// NewMockUploader creates a mock uploader that returns hostedURL for any
// call it is allowed to receive.
func NewMockUploader(t *testing.T, hostedURL string) *MockUploader {
	t.Helper()
	m := new(MockUploader)
	m.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(hostedURL, nil).
		Maybe()
	return m
}

// MockRecorder is a mock implementation of pipeline.Recorder.
type MockRecorder struct {
	mock.Mock
}

// RecordShare mocks the RecordShare method.
func (m *MockRecorder) RecordShare(outcome, kind string) {
	m.Called(outcome, kind)
}

// ObserveStage mocks the ObserveStage method.
func (m *MockRecorder) ObserveStage(stage string, d time.Duration) {
	m.Called(stage, d)
}

// FakeHost is a scriptable callback.Host that counts completions.
type FakeHost struct {
	// OpenErr is returned from Open; nil means the primary opener works.
	OpenErr error
	// Head is the first responder of the chain, nil for no chain.
	Head callback.Responder

	mu        sync.Mutex
	opened    []string
	completed int
}

// Open implements callback.Opener.
func (h *FakeHost) Open(ctx context.Context, u *url.URL) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = append(h.opened, u.String())
	return h.OpenErr
}

// FirstResponder implements callback.ResponderSource.
func (h *FakeHost) FirstResponder() callback.Responder {
	return h.Head
}

// CompleteRequest implements callback.Completer.
func (h *FakeHost) CompleteRequest() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed++
}

// Completions returns how many times CompleteRequest was called.
func (h *FakeHost) Completions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.completed
}

// Opened returns the URLs passed to Open.
func (h *FakeHost) Opened() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.opened...)
}

// LegacyResponder is a responder with a fire-and-forget opener.
type LegacyResponder struct {
	Next   callback.Responder
	Opened []string
}

// NextResponder implements callback.Responder.
func (r *LegacyResponder) NextResponder() callback.Responder { return r.Next }

// OpenURLLegacy implements callback.LegacyOpener.
func (r *LegacyResponder) OpenURLLegacy(u *url.URL) { r.Opened = append(r.Opened, u.String()) }

// CallbackResponder is a responder whose opener reports Result.
type CallbackResponder struct {
	Next   callback.Responder
	Result bool
	Opened []string
}

// NextResponder implements callback.Responder.
func (r *CallbackResponder) NextResponder() callback.Responder { return r.Next }

// OpenURL implements callback.CallbackOpener.
func (r *CallbackResponder) OpenURL(u *url.URL, completion func(bool)) {
	r.Opened = append(r.Opened, u.String())
	completion(r.Result)
}

// PNG returns a small encoded PNG.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// CountingAttachment wraps a static attachment and counts loads.
func CountingAttachment(types []string, data []byte, calls *int) share.Attachment {
	var mu sync.Mutex
	return share.Attachment{
		Source:          "test",
		TypeIdentifiers: types,
		Load: func(ctx context.Context) ([]byte, error) {
			mu.Lock()
			*calls++
			mu.Unlock()
			return data, nil
		},
	}
}

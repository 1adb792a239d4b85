package resilience

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/ShareBridge/internal/share"
	"github.com/GriffinCanCode/ShareBridge/internal/upload"
)

// Uploader guards an upload.Uploader with a breaker. Only upload failures
// count; a missing token or a cancelled caller says nothing about the
// image host.
type Uploader struct {
	next    upload.Uploader
	breaker *Breaker
}

// NewUploader wraps next. The breaker's IsFailure setting is replaced.
func NewUploader(next upload.Uploader, settings Settings) *Uploader {
	settings.IsFailure = isHostFailure
	return &Uploader{next: next, breaker: New("upload", settings)}
}

// Breaker exposes the underlying breaker.
func (u *Uploader) Breaker() *Breaker {
	return u.breaker
}

// Upload implements upload.Uploader. A rejected call wraps
// share.ErrUploadFailure.
func (u *Uploader) Upload(ctx context.Context, token string, image []byte) (string, error) {
	var hosted string
	err := u.breaker.Do(func() error {
		var err error
		hosted, err = u.next.Upload(ctx, token, image)
		return err
	})
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %w", share.ErrUploadFailure, err)
	}
	return hosted, err
}

func isHostFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, share.ErrUploadFailure)
}

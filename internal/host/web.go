package host

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/callback"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
)

// WebOptions configures a Web host.
type WebOptions struct {
	// LocalOpen opens the link on the machine running the server when the
	// client cannot follow a redirect. Nil disables it.
	LocalOpen func(string) error
	Logger    *logging.Logger
}

// Web is the host for one share-target request.
type Web struct {
	c      *gin.Context
	head   callback.Responder
	logger *logging.Logger

	redirect  atomic.Pointer[string]
	completed atomic.Bool
}

// NewWeb creates a host bound to c.
func NewWeb(c *gin.Context, opts WebOptions) *Web {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	w := &Web{c: c, logger: opts.Logger}
	if opts.LocalOpen != nil {
		w.head = NewLocalOpenResponder(opts.LocalOpen)
	}
	return w
}

// Open schedules a redirect to u. Clients that only accept JSON cannot be
// redirected into the app.
func (w *Web) Open(ctx context.Context, u *url.URL) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !acceptsRedirect(w.c) {
		return callback.ErrOpenUnavailable
	}
	link := u.String()
	w.redirect.Store(&link)
	return nil
}

// FirstResponder implements callback.ResponderSource.
func (w *Web) FirstResponder() callback.Responder {
	return w.head
}

// CompleteRequest answers the request with the pending redirect, if any.
// Without one the handler writes the response body itself.
func (w *Web) CompleteRequest() {
	if w.completed.Swap(true) {
		return
	}
	if link := w.redirect.Load(); link != nil {
		w.c.Redirect(http.StatusSeeOther, *link)
		w.c.Writer.WriteHeaderNow()
	}
	w.logger.Debug("share request completed",
		zap.String("host", "web"),
		zap.Bool("redirected", w.redirect.Load() != nil),
	)
}

// Completed reports whether CompleteRequest has run.
func (w *Web) Completed() bool {
	return w.completed.Load()
}

// Redirected reports whether the response is a redirect into the app.
func (w *Web) Redirected() bool {
	return w.completed.Load() && w.redirect.Load() != nil
}

func acceptsRedirect(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) != gin.MIMEJSON
}

// LocalOpenResponder opens the link on the server's own desktop.
type LocalOpenResponder struct {
	link
	open func(string) error
}

// NewLocalOpenResponder wraps open, typically browser.OpenURL.
func NewLocalOpenResponder(open func(string) error) *LocalOpenResponder {
	return &LocalOpenResponder{open: open}
}

// OpenURL implements callback.CallbackOpener.
func (r *LocalOpenResponder) OpenURL(u *url.URL, completion func(bool)) {
	go func() {
		completion(r.open(u.String()) == nil)
	}()
}

package host

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/callback"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
)

// DesktopOptions configures a Desktop host.
type DesktopOptions struct {
	// FallbackCommand, when set, is tried after the OS handler fails.
	FallbackCommand string
	// PrintFallback prints the link to Out when nothing else opened it.
	PrintFallback bool
	Out           io.Writer
	Logger        *logging.Logger
	// OpenURL replaces the OS handler. Defaults to browser.OpenURL.
	OpenURL func(string) error
}

// Desktop is the host used by the share command.
type Desktop struct {
	openURL func(string) error
	head    callback.Responder
	logger  *logging.Logger

	done chan struct{}
	once sync.Once
}

// NewDesktop creates a desktop host.
func NewDesktop(opts DesktopOptions) *Desktop {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.OpenURL == nil {
		opts.OpenURL = openWithBrowser
	}

	var printer callback.Responder
	if opts.PrintFallback {
		printer = NewPrintResponder(opts.Out)
	}
	var command callback.Responder
	if c := NewCommandResponder(opts.FallbackCommand, opts.Logger); c != nil {
		command = c
	}

	return &Desktop{
		openURL: opts.OpenURL,
		head:    chain(command, printer),
		logger:  opts.Logger,
		done:    make(chan struct{}),
	}
}

// openWithBrowser keeps the handler's own output off the terminal.
func openWithBrowser(u string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(u)
}

// Open hands u to the OS URL handler.
func (d *Desktop) Open(ctx context.Context, u *url.URL) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.openURL(u.String()); err != nil {
		return fmt.Errorf("%w: %w", callback.ErrOpenUnavailable, err)
	}
	return nil
}

// FirstResponder implements callback.ResponderSource.
func (d *Desktop) FirstResponder() callback.Responder {
	return d.head
}

// CompleteRequest marks the invocation finished.
func (d *Desktop) CompleteRequest() {
	d.once.Do(func() {
		d.logger.Debug("share request completed", zap.String("host", "desktop"))
		close(d.done)
	})
}

// Done is closed once the request has completed.
func (d *Desktop) Done() <-chan struct{} {
	return d.done
}

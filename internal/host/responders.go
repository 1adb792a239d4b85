package host

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/callback"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
)

const commandTimeout = 30 * time.Second

// link is the chaining part shared by all responders.
type link struct {
	next callback.Responder
}

func (l *link) NextResponder() callback.Responder {
	if l.next == nil {
		return nil
	}
	return l.next
}

// CommandResponder opens the deep link by running a configured command with
// the link appended as the last argument, e.g. "xdg-open" or
// "open -a LogSense". The exit status is the result.
type CommandResponder struct {
	link
	argv   []string
	logger *logging.Logger
}

// NewCommandResponder parses command into argv. It returns nil for a blank
// command.
func NewCommandResponder(command string, logger *logging.Logger) *CommandResponder {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CommandResponder{argv: argv, logger: logger}
}

// OpenURL implements callback.CallbackOpener.
func (r *CommandResponder) OpenURL(u *url.URL, completion func(bool)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		args := append(append([]string{}, r.argv[1:]...), u.String())
		out, err := exec.CommandContext(ctx, r.argv[0], args...).CombinedOutput()
		if err != nil {
			r.logger.Warn("fallback open command failed",
				zap.String("command", r.argv[0]),
				zap.ByteString("output", out),
				zap.Error(err),
			)
		}
		completion(err == nil)
	}()
}

// PrintResponder writes the deep link to a terminal so the user can open it
// by hand. It cannot tell whether that happens.
type PrintResponder struct {
	link
	out io.Writer
}

// NewPrintResponder writes to out.
func NewPrintResponder(out io.Writer) *PrintResponder {
	return &PrintResponder{out: out}
}

// OpenURLLegacy implements callback.LegacyOpener.
func (r *PrintResponder) OpenURLLegacy(u *url.URL) {
	fmt.Fprintln(r.out, u.String())
}

// chain links responders in order, skipping nils, and returns the head.
func chain(responders ...callback.Responder) callback.Responder {
	var head, tail callback.Responder
	for _, r := range responders {
		if r == nil {
			continue
		}
		if head == nil {
			head = r
		} else {
			setNext(tail, r)
		}
		tail = r
	}
	return head
}

func setNext(r, next callback.Responder) {
	switch r := r.(type) {
	case *CommandResponder:
		r.next = next
	case *PrintResponder:
		r.next = next
	case *LocalOpenResponder:
		r.next = next
	}
}

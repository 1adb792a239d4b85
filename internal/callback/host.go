package callback

import (
	"context"
	"errors"
	"net/url"
)

// ErrOpenUnavailable is returned by an Opener that cannot open URLs in the
// current context.
var ErrOpenUnavailable = errors.New("url opener unavailable")

// Opener is the host's primary way to open a URL. A nil error means the
// URL was handed off.
type Opener interface {
	Open(ctx context.Context, u *url.URL) error
}

// Completer receives the terminal completion signal of an invocation.
type Completer interface {
	CompleteRequest()
}

// Responder is one link of the host's responder chain.
type Responder interface {
	NextResponder() Responder
}

// ResponderSource exposes the head of a host's responder chain. A nil head
// means there is no chain to walk.
type ResponderSource interface {
	FirstResponder() Responder
}

// CallbackOpener is a responder that reports whether the open succeeded
// through completion, possibly from another goroutine.
type CallbackOpener interface {
	OpenURL(u *url.URL, completion func(ok bool))
}

// LegacyOpener is a responder that opens without reporting a result.
type LegacyOpener interface {
	OpenURLLegacy(u *url.URL)
}

// Host is everything the pipeline needs from the surface it runs in.
type Host interface {
	Opener
	Completer
	ResponderSource
}

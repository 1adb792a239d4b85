package callback

import (
	"context"
	"net/url"
	"sync"
)

// Strategy is one way of delivering the deep link. Deliver reports whether
// the link was handed off; err carries the reason when it was not.
type Strategy interface {
	Name() string
	Deliver(ctx context.Context, u *url.URL) (bool, error)
}

// PrimaryStrategy opens through the host's own opener and waits for it.
type PrimaryStrategy struct {
	Opener Opener
}

func (PrimaryStrategy) Name() string { return "primary" }

// Deliver implements Strategy.
func (s PrimaryStrategy) Deliver(ctx context.Context, u *url.URL) (bool, error) {
	if s.Opener == nil {
		return false, ErrOpenUnavailable
	}
	if err := s.Opener.Open(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

// ResponderChainStrategy walks the host's responder chain and uses the first
// responder able to open URLs. Its callback opener is preferred and awaited;
// a responder with only a legacy opener is fired and counted as handed off.
type ResponderChainStrategy struct {
	Source ResponderSource
}

func (ResponderChainStrategy) Name() string { return "responder_chain" }

// Deliver implements Strategy.
func (s ResponderChainStrategy) Deliver(ctx context.Context, u *url.URL) (bool, error) {
	if s.Source == nil {
		return false, ErrOpenUnavailable
	}
	head := s.Source.FirstResponder()

	for r := head; r != nil; r = r.NextResponder() {
		switch opener := r.(type) {
		case CallbackOpener:
			return await(ctx, opener, u)
		case LegacyOpener:
			opener.OpenURLLegacy(u)
			return true, nil
		}
	}
	return false, ErrOpenUnavailable
}

// await blocks until the opener reports or ctx ends. Extra or late
// completion calls are dropped.
func await(ctx context.Context, opener CallbackOpener, u *url.URL) (bool, error) {
	result := make(chan bool, 1)
	var once sync.Once
	opener.OpenURL(u, func(ok bool) {
		once.Do(func() { result <- ok })
	})

	select {
	case ok := <-result:
		if !ok {
			return false, ErrOpenUnavailable
		}
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

package callback

import (
	"fmt"
	"net/url"

	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

const (
	// DefaultScheme is the host application's URL scheme.
	DefaultScheme = "logsense"

	deepLinkHost  = "open"
	deepLinkParam = "scrapboxUrl"
)

// DeepLink builds "<scheme>://open?scrapboxUrl=<target>" from structured
// components, so target is encoded exactly once.
func DeepLink(scheme, target string) (*url.URL, error) {
	if !validScheme(scheme) {
		return nil, fmt.Errorf("%w: invalid scheme %q", share.ErrCallbackBuild, scheme)
	}
	if target == "" {
		return nil, fmt.Errorf("%w: empty target", share.ErrCallbackBuild)
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     deepLinkHost,
		RawQuery: url.Values{deepLinkParam: {target}}.Encode(),
	}, nil
}

// TargetOf extracts the page URL from a deep link built by DeepLink.
func TargetOf(u *url.URL) (string, error) {
	if u == nil || u.Host != deepLinkHost {
		return "", fmt.Errorf("%w: not a deep link", share.ErrCallbackBuild)
	}
	target := u.Query().Get(deepLinkParam)
	if target == "" {
		return "", fmt.Errorf("%w: missing %s", share.ErrCallbackBuild, deepLinkParam)
	}
	return target, nil
}

// validScheme follows RFC 3986: a letter followed by letters, digits, "+",
// "-" or ".".
func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

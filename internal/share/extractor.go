package share

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Extract resolves the title and URL of a link or text share. Image shares
// are not handled here and yield ErrExtraction.
func Extract(req Request) (Link, error) {
	switch r := req.(type) {
	case LinkShare:
		if r.URL == nil {
			return Link{}, fmt.Errorf("%w: link share without url", ErrExtraction)
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = r.URL.String()
		}
		return Link{Title: title, URL: r.URL}, nil

	case TextShare:
		text := strings.TrimSpace(r.RawText)
		u, err := parseAbsoluteURL(text)
		if err != nil {
			return Link{}, err
		}
		return Link{Title: text, URL: u}, nil

	case ImageShare:
		return Link{}, fmt.Errorf("%w: image share has no link", ErrExtraction)

	default:
		return Link{}, fmt.Errorf("%w: unsupported request %T", ErrExtraction, req)
	}
}

// parseAbsoluteURL accepts the whole string as one absolute URL: a scheme is
// required and no whitespace may appear anywhere in it.
func parseAbsoluteURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty text", ErrExtraction)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return nil, fmt.Errorf("%w: %q is not a single url", ErrExtraction, s)
	}
	return parseLinkURL(s)
}

// parseLinkURL accepts a URL attachment as delivered. Only a scheme and a
// target are required; spaces in the path are re-escaped by url.URL.String.
func parseLinkURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty url", ErrExtraction)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	if u.Scheme == "" || (u.Host == "" && u.Opaque == "" && u.Path == "") {
		return nil, fmt.Errorf("%w: %q is not an absolute url", ErrExtraction, s)
	}
	return u, nil
}

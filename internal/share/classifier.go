package share

import (
	"context"
	"fmt"
	"strings"
)

var (
	imageIdentifiers = []string{"public.image", "public.jpeg", "public.png", "public.heic", "public.tiff"}
	urlIdentifiers   = []string{"public.url", "text/uri-list", "application/x-url"}
	textIdentifiers  = []string{"public.plain-text", "public.utf8-plain-text", "public.text"}
)

// Selection is the outcome of classification: the variant to build and the
// attachment that will provide it.
type Selection struct {
	Kind       Kind
	Attachment Attachment
}

// Classify picks the share variant for p without loading anything. An image
// attachment wins over a URL, a URL wins over text, regardless of attachment
// order. ErrClassification is returned when nothing is supported.
func Classify(p Payload) (Selection, error) {
	for _, kind := range []Kind{KindImage, KindLink, KindText} {
		for _, a := range p.Attachments {
			if a.Load != nil && conforms(a, kind) {
				return Selection{Kind: kind, Attachment: a}, nil
			}
		}
	}
	return Selection{}, fmt.Errorf("%w: %d attachment(s) inspected", ErrClassification, len(p.Attachments))
}

// Resolve loads the selected attachment and builds the classified request.
// Load failures and unusable URL attachments surface as ErrExtraction.
func Resolve(ctx context.Context, p Payload, sel Selection) (Request, error) {
	data, err := sel.Attachment.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrExtraction, sel.Attachment.Source, err)
	}

	switch sel.Kind {
	case KindImage:
		return ImageShare{Bytes: data}, nil
	case KindLink:
		u, err := parseLinkURL(firstURIListEntry(DecodeText(data)))
		if err != nil {
			return nil, err
		}
		return LinkShare{Title: DisplayTitle(p.ContentText), URL: u}, nil
	case KindText:
		return TextShare{RawText: DecodeText(data)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrClassification, sel.Kind)
	}
}

func conforms(a Attachment, kind Kind) bool {
	for _, t := range a.TypeIdentifiers {
		t = strings.ToLower(strings.TrimSpace(t))
		switch kind {
		case KindImage:
			if contains(imageIdentifiers, t) || strings.HasPrefix(t, "image/") {
				return true
			}
		case KindLink:
			if contains(urlIdentifiers, t) {
				return true
			}
		case KindText:
			if contains(textIdentifiers, t) || strings.HasPrefix(t, "text/") {
				return true
			}
		}
	}
	return false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// firstURIListEntry returns the first non-comment line of a text/uri-list
// body; a single bare URL passes through unchanged.
func firstURIListEntry(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}

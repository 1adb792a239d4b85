package share

import (
	"context"
	"net/url"
)

// Kind names a share request variant.
type Kind string

const (
	KindLink  Kind = "link"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Request is the classified share payload. Exactly one of LinkShare,
// TextShare or ImageShare; the unexported method keeps the set closed.
type Request interface {
	Kind() Kind
	isRequest()
}

// LinkShare is a shared URL with an optional display title.
type LinkShare struct {
	Title string
	URL   *url.URL
}

// TextShare is shared plain text expected to contain a URL.
type TextShare struct {
	RawText string
}

// ImageShare is shared raw image bytes.
type ImageShare struct {
	Bytes []byte
}

func (LinkShare) Kind() Kind  { return KindLink }
func (TextShare) Kind() Kind  { return KindText }
func (ImageShare) Kind() Kind { return KindImage }

func (LinkShare) isRequest()  {}
func (TextShare) isRequest()  {}
func (ImageShare) isRequest() {}

// Loader asynchronously produces the bytes of an attachment. It is called at
// most once per invocation.
type Loader func(ctx context.Context) ([]byte, error)

// Attachment is one typed item of a share payload.
type Attachment struct {
	// Source describes where the attachment came from (file path, form
	// field) and is only used for logging.
	Source string
	// TypeIdentifiers lists the declared types, UTI style ("public.url")
	// or MIME style ("image/png").
	TypeIdentifiers []string
	Load            Loader
}

// Payload is what a host hands to the pipeline for one invocation.
type Payload struct {
	// ContentText is the share surface's display text. It may be HTML.
	ContentText string
	Attachments []Attachment
}

// Link is the title and URL pair extracted from a link or text share.
type Link struct {
	Title string
	URL   *url.URL
}

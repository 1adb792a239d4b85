package pageref

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/GriffinCanCode/ShareBridge/internal/imaging"
	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

// DefaultBaseURL is the page host.
const DefaultBaseURL = "https://scrapbox.io"

// DateLayout is the title format for image pages.
const DateLayout = "2006-01-02"

// Reference is an unencoded page title and body.
type Reference struct {
	Title string
	Body  string
}

// ForLink builds the reference for a link or text share. The body embeds
// the strictly encoded link so that it survives as one bracket token.
func ForLink(link share.Link) Reference {
	return Reference{
		Title: link.Title,
		Body:  fmt.Sprintf("[%s %s]", link.Title, EscapeStrict(link.URL.String())),
	}
}

// ForImage builds the reference for an uploaded image. The title is the
// capture date, or now's date when the image carries none.
func ForImage(hostedURL string, md imaging.Metadata, now time.Time) Reference {
	title := md.CaptureDate
	if title == "" {
		title = now.Format(DateLayout)
	}

	var body strings.Builder
	body.WriteString("[" + hostedURL + "]")
	switch {
	case md.CameraModel != "" && md.LensModel != "":
		fmt.Fprintf(&body, "\n[%s] + [%s]", md.CameraModel, md.LensModel)
	case md.CameraModel != "":
		fmt.Fprintf(&body, "\n[%s]", md.CameraModel)
	case md.LensModel != "":
		fmt.Fprintf(&body, "\n[%s]", md.LensModel)
	}

	return Reference{Title: title, Body: body.String()}
}

// Builder renders references into target page URLs.
type Builder struct {
	base string
}

// NewBuilder validates baseURL, which must be an absolute http(s) URL.
func NewBuilder(baseURL string) (*Builder, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("page base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("page base url %q must be absolute http(s)", baseURL)
	}
	return &Builder{base: strings.TrimRight(baseURL, "/")}, nil
}

// URL renders "<base>/<project>/<title>?body=<body>". Project and title are
// strictly encoded path segments; the body is query encoded.
func (b *Builder) URL(project string, ref Reference) string {
	return fmt.Sprintf("%s/%s/%s?body=%s",
		b.base,
		EscapeStrict(project),
		EscapeStrict(ref.Title),
		EscapeQueryValue(ref.Body),
	)
}

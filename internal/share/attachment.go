package share

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// URLAttachment wraps a URL string declared as public.url.
func URLAttachment(raw string) Attachment {
	return Attachment{
		Source:          "url",
		TypeIdentifiers: []string{"public.url"},
		Load:            staticLoader([]byte(raw)),
	}
}

// TextAttachment wraps plain text declared as public.plain-text.
func TextAttachment(text string) Attachment {
	return Attachment{
		Source:          "text",
		TypeIdentifiers: []string{"public.plain-text"},
		Load:            staticLoader([]byte(text)),
	}
}

// BytesAttachment types in-memory content by sniffing it.
func BytesAttachment(source string, data []byte) Attachment {
	return Attachment{
		Source:          source,
		TypeIdentifiers: mimeIdentifiers(mimetype.Detect(data)),
		Load:            staticLoader(data),
	}
}

// FileAttachment types a file on disk by sniffing its header. The contents
// are read lazily by the returned loader.
func FileAttachment(path string) (Attachment, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return Attachment{
		Source:          path,
		TypeIdentifiers: mimeIdentifiers(mt),
		Load: func(ctx context.Context) ([]byte, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return os.ReadFile(path)
		},
	}, nil
}

// mimeIdentifiers lists the detected type and its ancestors without
// parameters, most specific first.
func mimeIdentifiers(mt *mimetype.MIME) []string {
	var ids []string
	for m := mt; m != nil; m = m.Parent() {
		base, _, _ := strings.Cut(m.String(), ";")
		ids = append(ids, strings.TrimSpace(base))
	}
	return ids
}

func staticLoader(data []byte) Loader {
	return func(ctx context.Context) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return data, nil
	}
}

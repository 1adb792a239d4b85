package share

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

var strictPolicy = bluemonday.StrictPolicy()

// DecodeText converts attachment bytes to a UTF-8 string. Valid UTF-8 is
// returned as is; anything else goes through charset detection.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}

	r, err := charset.NewReaderLabel(result.Charset, bytes.NewReader(data))
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	return string(out)
}

// DisplayTitle turns the share surface's display text into a page title.
// Attributed (HTML) text is reduced to its visible text.
func DisplayTitle(content string) string {
	content = strings.TrimSpace(content)
	if !looksLikeHTML(content) {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strictPolicy.Sanitize(content)))
	if err != nil {
		return content
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func looksLikeHTML(s string) bool {
	open := strings.IndexByte(s, '<')
	return open >= 0 && strings.IndexByte(s[open:], '>') > 0
}

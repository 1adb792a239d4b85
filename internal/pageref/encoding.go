package pageref

import "strings"

const upperhex = "0123456789ABCDEF"

// EscapeStrict percent-encodes every byte outside ASCII letters, digits and
// "-._~". The result is safe as a single path segment: it never contains a
// raw "/".
func EscapeStrict(s string) string {
	return escape(s, isUnreserved)
}

// EscapeQueryValue percent-encodes s for use as a query value. Besides the
// unreserved set it keeps "!$'()*,/:;@?" readable, and always escapes the
// query delimiters "&", "=", "+" and "#".
func EscapeQueryValue(s string) string {
	return escape(s, isQuerySafe)
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return false
}

func isQuerySafe(c byte) bool {
	if isUnreserved(c) {
		return true
	}
	switch c {
	case '!', '$', '\'', '(', ')', '*', ',', '/', ':', ';', '@', '?':
		return true
	}
	return false
}

func escape(s string, keep func(byte) bool) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

package audit2pdf

import (
	"fmt"
	"regexp"
	"strings"
)

// fallbackFilenameStem replaces a domain that sanitizes to nothing.
const fallbackFilenameStem = "audit"

var (
	unsafeFilenameChars = regexp.MustCompile(`[\s\\/:*?"<>|]`)
	dashRuns            = regexp.MustCompile(`-+`)
)

// SanitizeDomain makes a domain usable as a filename component: every
// whitespace and path- or shell-significant character becomes '-', runs
// of '-' collapse to one, and an empty result becomes "audit".
func SanitizeDomain(domain string) string {
	s := unsafeFilenameChars.ReplaceAllString(domain, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	if s == "" {
		return fallbackFilenameStem
	}
	return s
}

// asciiStem is SanitizeDomain restricted to printable ASCII, for the plain
// filename parameter older clients read.
func asciiStem(domain string) string {
	s := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '-'
		}
		return r
	}, SanitizeDomain(domain))
	s = dashRuns.ReplaceAllString(s, "-")
	if s == "" {
		return fallbackFilenameStem
	}
	return s
}

// ASCIIFilename is the download name for clients without RFC 5987 support.
func ASCIIFilename(domain string) string {
	return "seo-audit-" + asciiStem(domain) + ".pdf"
}

// UnicodeFilename is the localized download name.
func UnicodeFilename(domain string) string {
	return "Технический SEO-аудит — " + SanitizeDomain(domain) + ".pdf"
}

// ContentDisposition builds an attachment header carrying both the ASCII
// fallback and the UTF-8 name.
func ContentDisposition(domain string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		ASCIIFilename(domain), encodeRFC5987(UnicodeFilename(domain)))
}

// encodeRFC5987 percent-encodes every byte outside attr-char.
func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

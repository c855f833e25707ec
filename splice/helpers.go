package splice

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// pdfString best-effort transliterates s to PDFDocEncoding-safe bytes, then
// escapes the three characters that would otherwise break a PDF literal
// string, and wraps the result in parentheses. The source this splicer was
// distilled from did none of this escaping, which the design notes flag as
// a latent bug (a caller-supplied ")" breaks the dictionary); this splicer
// takes the recommended fix instead of reproducing the bug.
func pdfString(s string) string {
	transliterated, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		transliterated = s
	}

	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < len(transliterated); i++ {
		c := transliterated[i]
		switch c {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// pdfDate renders t as the fixed-width "D:YYYYMMDDHHMMSSZ" form used by the
// /M placeholder and compared against the CMS signingTime attribute.
func pdfDate(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("D:%04d%02d%02d%02d%02d%02dZ",
		u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second())
}

// padRight right-pads s with ASCII spaces to exactly width bytes. It panics
// if s is already longer than width: callers must have validated the
// length invariant before calling this.
func padRight(s string, width int) string {
	if len(s) > width {
		panic(fmt.Sprintf("splice: %q exceeds pad width %d", s, width))
	}
	return s + strings.Repeat(" ", width-len(s))
}

// leftPadDigits zero-pads a non-negative integer to width digits.
func leftPadDigits(n int64, width int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

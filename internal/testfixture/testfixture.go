// Package testfixture builds minimal, hand-assembled PDF documents for
// tests across the module: just enough structure (Catalog, Pages, one
// Page, a classic xref table, and a trailer) for the splicer's structure
// probe to find a Catalog, a Pages reference, and a first page.
package testfixture

import (
	"fmt"
	"strings"
)

// MinimalPDF returns a tiny single-page PDF, built the same way a minimal
// PDF producer would: three indirect objects, a non-incremental xref
// table, and a trailer pointing at the Catalog.
func MinimalPDF() []byte {
	var objs []string
	objs = append(objs, "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	objs = append(objs, "2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	objs = append(objs, "3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")

	header := "%PDF-1.7\n%\xE2\xE3\xCF\xD3\n"

	var b strings.Builder
	b.WriteString(header)

	offsets := make([]int, len(objs)+1)
	pos := len(header)
	for i, o := range objs {
		offsets[i+1] = pos
		b.WriteString(o)
		pos += len(o)
	}

	xrefStart := pos
	b.WriteString("xref\n")
	fmt.Fprintf(&b, "0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xrefStart)

	return []byte(b.String())
}

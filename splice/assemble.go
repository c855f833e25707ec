package splice

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/mattetti/filebuffer"
)

// assemble is the Incremental Assembler (C3). It copies the (trailing-
// newline-stripped) input into a fresh output buffer, then appends the three
// new objects, the replacement Catalog, the incremental xref and the
// trailer, recording every offset the later stages (ByteRange, /M,
// Contents) need to find and patch their placeholders.
func assemble(ctx *Context) error {
	input := removeTrailingNewline(ctx.Input)

	coords, err := probe(input, func(format string, args ...any) {
		ctx.Config.logger().Printf(format, args...)
	})
	if err != nil {
		return err
	}
	ctx.coords = coords

	next := nextObjectNumber(input)
	ctx.sigObj = next
	ctx.acroformObj = next + 1
	ctx.sigFieldObj = next + 2

	ctx.Output = filebuffer.New(nil)
	buf := ctx.Output

	if _, err := buf.Write(input); err != nil {
		return err
	}
	if _, err := buf.Write([]byte("\n")); err != nil {
		return err
	}

	if err := writeSignatureObject(ctx); err != nil {
		return err
	}
	if err := writeAcroForm(ctx); err != nil {
		return err
	}
	if err := writeSigField(ctx); err != nil {
		return err
	}
	if err := writeReplacementCatalog(ctx); err != nil {
		return err
	}
	if err := writeXref(ctx); err != nil {
		return err
	}
	if err := writeTrailer(ctx); err != nil {
		return err
	}

	if ctx.Config.PreSignHook != nil {
		if err := ctx.Config.PreSignHook(ctx); err != nil {
			return fmt.Errorf("pre-sign hook: %w", err)
		}
	}

	return nil
}

func offset(ctx *Context) int64 {
	return int64(ctx.Output.Buff.Len())
}

func writeSignatureObject(ctx *Context) error {
	ctx.sigDictOffset = offset(ctx)

	byteRangeField := byteRangePlaceholder
	byteRangeField = padRight(byteRangeField, byteRangePlaceholderLen)

	name := ctx.Identity.SubjectCN()

	var b strings.Builder
	fmt.Fprintf(&b, "%d 0 obj\n<<\n", ctx.sigObj)
	b.WriteString("/Type /Sig\n")
	b.WriteString("/Filter /Adobe.PPKLite\n")
	b.WriteString("/SubFilter /adbe.pkcs7.detached\n")
	b.WriteString(byteRangeField + "\n")
	fmt.Fprintf(&b, "/Contents <%s>\n", strings.Repeat("0", SigSlot))
	fmt.Fprintf(&b, "/Reason %s\n", pdfString(ctx.Config.Info.Reason))
	fmt.Fprintf(&b, "/M (%s)\n", mPlaceholder)
	fmt.Fprintf(&b, "/ContactInfo %s\n", pdfString(ctx.Config.Info.ContactInfo))
	fmt.Fprintf(&b, "/Name %s\n", pdfString(name))
	fmt.Fprintf(&b, "/Location %s\n", pdfString(ctx.Config.Info.Location))
	b.WriteString("/Prop_Build << /Filter << /Name /Adobe.PPKLite >> >>\n")
	b.WriteString(">>\nendobj\n")

	dict := b.String()

	// Locate the placeholder offsets within the dictionary text we are
	// about to write, relative to this object's start, then translate to
	// absolute offsets once the write lands at sigDictOffset.
	byteRangeRel := bytes.Index([]byte(dict), []byte(byteRangePlaceholder))
	mRel := bytes.Index([]byte(dict), []byte(mPlaceholder))
	contentsRel := bytes.Index([]byte(dict), []byte("<"+strings.Repeat("0", SigSlot)+">"))

	if byteRangeRel < 0 || mRel < 0 || contentsRel < 0 {
		return fmt.Errorf("%w: signature dictionary template did not contain expected placeholders", ErrInvalidPdf)
	}

	ctx.byteRangePos = ctx.sigDictOffset + int64(byteRangeRel)
	ctx.mPos = ctx.sigDictOffset + int64(mRel)
	ctx.contentsPos = ctx.sigDictOffset + int64(contentsRel)
	ctx.contentsLen = int64(SigSlot + 2)

	_, err := ctx.Output.Write([]byte(dict))
	return err
}

func writeAcroForm(ctx *Context) error {
	ctx.acroformOffset = offset(ctx)
	s := fmt.Sprintf("%d 0 obj\n<< /Type /AcroForm /SigFlags 3 /Fields [%d 0 R] >>\nendobj\n",
		ctx.acroformObj, ctx.sigFieldObj)
	_, err := ctx.Output.Write([]byte(s))
	return err
}

func writeSigField(ctx *Context) error {
	ctx.sigFieldOffset = offset(ctx)
	s := fmt.Sprintf(
		"%d 0 obj\n<< /Type /Annot /Subtype /Widget /FT /Sig /Rect [0 0 0 0] /V %d 0 R /T (Signature1) /F 4 /P %d 0 R >>\nendobj\n",
		ctx.sigFieldObj, ctx.sigObj, ctx.coords.firstPageObj)
	_, err := ctx.Output.Write([]byte(s))
	return err
}

func writeReplacementCatalog(ctx *Context) error {
	ctx.catalogOffset = offset(ctx)

	var b strings.Builder
	fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Catalog /Pages %d 0 R /AcroForm %d 0 R",
		ctx.coords.catalogObj, ctx.coords.pagesRef, ctx.acroformObj)
	for _, extra := range ctx.coords.catalogExtras {
		b.WriteString(" " + extra)
	}
	b.WriteString(" >>\nendobj\n")

	_, err := ctx.Output.Write([]byte(b.String()))
	return err
}

// xrefRow is one "N offset" subsection to emit, in the order C3 §4.3 step 6
// requires: ascending first-object order, except the new-object subsection
// sorts ahead of the Catalog subsection when catalog_obj > sigObj.
type xrefRow struct {
	firstObj int
	entries  []int64 // byte offsets, in object order starting at firstObj
}

func writeXref(ctx *Context) error {
	ctx.xrefStart = offset(ctx)

	rows := []xrefRow{
		{firstObj: ctx.coords.catalogObj, entries: []int64{ctx.catalogOffset}},
		{firstObj: ctx.sigObj, entries: []int64{ctx.sigDictOffset, ctx.acroformOffset, ctx.sigFieldOffset}},
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].firstObj < rows[j].firstObj })

	var b strings.Builder
	b.WriteString("xref\n")
	b.WriteString("0 1\n")
	b.WriteString(xrefFreeEntry())
	for _, row := range rows {
		fmt.Fprintf(&b, "%d %d\n", row.firstObj, len(row.entries))
		for _, e := range row.entries {
			b.WriteString(xrefEntry(e))
		}
	}

	_, err := ctx.Output.Write([]byte(b.String()))
	return err
}

// xrefEntry renders one 20-byte in-use entry: 10-digit offset, 5-digit
// generation, 'n', a single trailing space, and "\n".
func xrefEntry(o int64) string {
	entry := fmt.Sprintf("%010d 00000 n \n", o)
	if len(entry) != xrefEntryLen {
		panic(fmt.Sprintf("splice: xref entry %q is not %d bytes", entry, xrefEntryLen))
	}
	return entry
}

func xrefFreeEntry() string {
	entry := "0000000000 65535 f \n"
	if len(entry) != xrefEntryLen {
		panic(fmt.Sprintf("splice: free xref entry %q is not %d bytes", entry, xrefEntryLen))
	}
	return entry
}

func writeTrailer(ctx *Context) error {
	size := ctx.sigFieldObj + 1
	s := fmt.Sprintf("trailer\n<< /Size %d /Prev %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		size, ctx.coords.prevXref, ctx.coords.catalogObj, ctx.xrefStart)
	_, err := ctx.Output.Write([]byte(s))
	return err
}

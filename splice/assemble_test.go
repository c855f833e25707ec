package splice

import (
	"bytes"
	"strings"
	"testing"
)

// S1: the assembler appends exactly three new objects after the existing
// ones and orders the incremental xref subsections "0 1", "1 1", "4 3".
func TestAssemble_ObjectNumberingAndXrefSubsections(t *testing.T) {
	ctx := &Context{Input: minimalStructuredPDF("")}
	if err := assemble(ctx); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if ctx.sigObj != 4 {
		t.Errorf("sigObj = %d, want 4", ctx.sigObj)
	}
	if ctx.acroformObj != 5 {
		t.Errorf("acroformObj = %d, want 5", ctx.acroformObj)
	}
	if ctx.sigFieldObj != 6 {
		t.Errorf("sigFieldObj = %d, want 6", ctx.sigFieldObj)
	}

	out := ctx.Output.Buff.Bytes()
	if !bytes.Contains(out, []byte("xref\n0 1\n0000000000 65535 f \n1 1\n")) {
		t.Error("xref does not open with the expected \"0 1\"/\"1 1\" subsections in order")
	}
	if !bytes.Contains(out, []byte("4 3\n")) {
		t.Error("xref does not contain the expected \"4 3\" subsection for the new objects")
	}
}

// S2: Catalog extras are reproduced verbatim, in order, after /AcroForm in
// the replacement Catalog object the assembler appends.
func TestAssemble_PreservesCatalogExtrasInReplacementCatalog(t *testing.T) {
	ctx := &Context{Input: minimalStructuredPDF("\n/Metadata 10 0 R\n/Lang (en-US)\n")}
	if err := assemble(ctx); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	out := ctx.Output.Buff.Bytes()
	start := int(ctx.catalogOffset)
	end := bytes.Index(out[start:], []byte("endobj"))
	if end < 0 {
		t.Fatal("replacement Catalog has no endobj")
	}
	catalogText := string(out[start : start+end])

	acroIdx := strings.Index(catalogText, "/AcroForm")
	if acroIdx < 0 {
		t.Fatal("replacement Catalog has no /AcroForm entry")
	}
	tail := catalogText[acroIdx:]

	mIdx := strings.Index(tail, "/Metadata 10 0 R")
	lIdx := strings.Index(tail, "/Lang (en-US)")
	if mIdx < 0 || lIdx < 0 {
		t.Fatalf("catalog extras not preserved verbatim after /AcroForm: %q", tail)
	}
	if mIdx > lIdx {
		t.Errorf("catalog extras out of order: %q", tail)
	}
}

// S3: trailing newlines on the input are stripped before appending, and
// exactly one newline separates the stripped input from the first new
// object.
func TestAssemble_StripsTrailingNewlines(t *testing.T) {
	padded := append(append([]byte{}, minimalStructuredPDF("")...), []byte("\n\n\n")...)

	ctx := &Context{Input: padded}
	if err := assemble(ctx); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	stripped := removeTrailingNewline(padded)
	out := ctx.Output.Buff.Bytes()

	if !bytes.Equal(out[:len(stripped)], stripped) {
		t.Fatal("assembled output does not start with the trailing-newline-stripped input")
	}
	if out[len(stripped)] != '\n' {
		t.Errorf("byte after stripped input = %q, want a newline", out[len(stripped)])
	}
	if out[len(stripped)+1] == '\n' {
		t.Error("more than one newline separates stripped input from the first new object")
	}
}

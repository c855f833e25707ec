package splice

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mattetti/filebuffer"
)

// buildPlaceholderBuffer writes a buffer shaped the way the assembler leaves
// one: a signature dictionary somewhere in the middle carrying the unpatched
// ByteRange and Contents placeholders, framed by unrelated bytes on both
// sides.
func buildPlaceholderBuffer(t *testing.T) *filebuffer.Buffer {
	t.Helper()
	buf := filebuffer.New(nil)

	prefix := "%PDF-1.7\n1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n"
	if _, err := buf.Write([]byte(prefix)); err != nil {
		t.Fatalf("write prefix: %v", err)
	}

	var sig strings.Builder
	sig.WriteString("4 0 obj\n<<\n/Type /Sig\n")
	sig.WriteString(padRight(byteRangePlaceholder, byteRangePlaceholderLen) + "\n")
	fmt.Fprintf(&sig, "/Contents <%s>\n", strings.Repeat("0", SigSlot))
	sig.WriteString(">>\nendobj\n")
	if _, err := buf.Write([]byte(sig.String())); err != nil {
		t.Fatalf("write signature object: %v", err)
	}

	suffix := "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n0\n%%EOF\n"
	if _, err := buf.Write([]byte(suffix)); err != nil {
		t.Fatalf("write suffix: %v", err)
	}

	return buf
}

// S1: ByteRange is computed as [0, a, a+16002, len-a-16002], 16002 being
// SigSlot hex digits plus the two angle brackets.
func TestPlanByteRange_ComputesExpectedByteRange(t *testing.T) {
	buf := buildPlaceholderBuffer(t)
	ctx := &Context{Output: buf}

	if err := planByteRange(ctx); err != nil {
		t.Fatalf("planByteRange: %v", err)
	}

	total := int64(buf.Buff.Len())
	a := ctx.byteRange[1]
	contentsSpan := int64(SigSlot) + 2

	if ctx.byteRange[0] != 0 {
		t.Errorf("byteRange[0] = %d, want 0", ctx.byteRange[0])
	}
	if ctx.byteRange[2] != a+contentsSpan {
		t.Errorf("byteRange[2] = %d, want %d", ctx.byteRange[2], a+contentsSpan)
	}
	if ctx.byteRange[3] != total-(a+contentsSpan) {
		t.Errorf("byteRange[3] = %d, want %d", ctx.byteRange[3], total-(a+contentsSpan))
	}
	if ctx.contentsPos != a {
		t.Errorf("contentsPos = %d, want %d", ctx.contentsPos, a)
	}
	if ctx.contentsLen != contentsSpan {
		t.Errorf("contentsLen = %d, want %d", ctx.contentsLen, contentsSpan)
	}

	out := buf.Buff.Bytes()
	patched := out[ctx.byteRangePos : ctx.byteRangePos+byteRangePlaceholderLen]
	if bytes.Contains(patched, []byte("0000000 0000000 0000000 0000000")) {
		t.Error("ByteRange placeholder was not patched in the buffer")
	}
}

// S4: a CMS that hex-encodes to exactly the reserved slot fits with zero
// padding; one byte more overflows with ErrSignatureTooLarge.
func TestInjectContents_SignatureJustFitsAndOverflows(t *testing.T) {
	buf := buildPlaceholderBuffer(t)
	ctx := &Context{Output: buf}
	if err := planByteRange(ctx); err != nil {
		t.Fatalf("planByteRange: %v", err)
	}

	fits := bytes.Repeat([]byte{0xAB}, SigSlot/2)
	if err := injectContents(ctx, fits); err != nil {
		t.Fatalf("injectContents with an exactly-fitting CMS: %v", err)
	}

	out := buf.Buff.Bytes()
	start := ctx.contentsPos + 1
	encoded := string(out[start : start+int64(SigSlot)])
	if len(encoded) != SigSlot {
		t.Fatalf("encoded Contents slot is %d bytes, want %d", len(encoded), SigSlot)
	}
	if !strings.HasSuffix(encoded, "ab") {
		t.Errorf("expected no zero padding for an exactly-fitting CMS, tail was %q", encoded[len(encoded)-4:])
	}

	overflow := bytes.Repeat([]byte{0xAB}, SigSlot/2+1)
	err := injectContents(ctx, overflow)
	if !errors.Is(err, ErrSignatureTooLarge) {
		t.Fatalf("injectContents with an oversized CMS: got %v, want ErrSignatureTooLarge", err)
	}
}

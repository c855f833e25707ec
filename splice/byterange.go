package splice

import (
	"fmt"
)

// planByteRange is the ByteRange Planner & Patcher (C4). It relocates the
// placeholder by literal search (rather than trusting the offsets recorded
// during assembly) so that a layout bug producing a misaligned placeholder
// fails loudly instead of silently signing the wrong bytes.
func planByteRange(ctx *Context) error {
	buf := ctx.Output.Buff.Bytes()

	placeholderFull := padRight(byteRangePlaceholder, byteRangePlaceholderLen)
	brPos := findToken(buf, []byte(placeholderFull))
	if brPos < 0 {
		return fmt.Errorf("%w: ByteRange placeholder not found", ErrInvalidPdf)
	}

	afterBR := brPos + byteRangePlaceholderLen
	contentsIdx := findToken(buf[afterBR:], []byte("/Contents "))
	if contentsIdx < 0 {
		return fmt.Errorf("%w: /Contents not found after ByteRange placeholder", ErrInvalidPdf)
	}
	afterContentsKeyword := afterBR + contentsIdx + len("/Contents ")

	ltRel := findToken(buf[afterContentsKeyword:], []byte("<"))
	if ltRel < 0 {
		return fmt.Errorf("%w: Contents placeholder has no '<'", ErrInvalidPdf)
	}
	a := int64(afterContentsKeyword + ltRel)

	gtRel := findToken(buf[a:], []byte(">"))
	if gtRel < 0 {
		return fmt.Errorf("%w: Contents placeholder has no '>'", ErrInvalidPdf)
	}
	l := int64(gtRel) + 1

	total := int64(len(buf))
	byteRange := [4]int64{0, a, a + l, total - (a + l)}

	formatted := fmt.Sprintf("/ByteRange [%s %s %s %s]",
		leftPadDigits(byteRange[0], byteRangeFieldWidth),
		leftPadDigits(byteRange[1], byteRangeFieldWidth),
		leftPadDigits(byteRange[2], byteRangeFieldWidth),
		leftPadDigits(byteRange[3], byteRangeFieldWidth))

	if len(formatted) > byteRangePlaceholderLen {
		return fmt.Errorf("%w: ByteRange value %v does not fit the %d-digit field width", ErrInvalidPdf, byteRange, byteRangeFieldWidth)
	}
	formatted = padRight(formatted, byteRangePlaceholderLen)

	copy(buf[brPos:brPos+byteRangePlaceholderLen], formatted)

	ctx.byteRangePos = int64(brPos)
	ctx.contentsPos = a
	ctx.contentsLen = l
	ctx.byteRange = byteRange

	return nil
}

// signedSlab returns the concatenation of the two byte ranges ByteRange
// names: everything except the Contents hex slot itself.
func signedSlab(ctx *Context) []byte {
	buf := ctx.Output.Buff.Bytes()
	a, l, total := ctx.byteRange[1], ctx.byteRange[2]-ctx.byteRange[1], ctx.byteRange[3]
	slab := make([]byte, 0, a+total)
	slab = append(slab, buf[0:a]...)
	slab = append(slab, buf[a+l:a+l+total]...)
	return slab
}

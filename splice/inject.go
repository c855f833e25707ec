package splice

import (
	"encoding/hex"
	"fmt"
	"time"
)

// patchSigningTime overwrites the /M placeholder with the signing instant
// now, so the CMS signingTime attribute (added by the
// pkcs7 library from SignerInfoConfig) and /M agree, per the invariant that
// a verifier checks the two timestamps for equality.
func patchSigningTime(ctx *Context, now time.Time) error {
	value := pdfDate(now)
	if len(value) != mPlaceholderLen {
		return fmt.Errorf("%w: formatted /M value %q is %d bytes, want %d", ErrPlaceholderMismatch, value, len(value), mPlaceholderLen)
	}

	buf := ctx.Output.Buff.Bytes()
	if ctx.mPos < 0 || ctx.mPos+int64(mPlaceholderLen) > int64(len(buf)) {
		return fmt.Errorf("%w: /M position out of range", ErrInvalidPdf)
	}
	copy(buf[ctx.mPos:ctx.mPos+int64(mPlaceholderLen)], value)
	return nil
}

// injectContents hex-encodes der (lowercase, per convention) and patches it
// into the Contents placeholder, zero-padding on the right to fill the
// reserved slot exactly. It fails with ErrSignatureTooLarge rather than
// truncating if the signature does not fit.
func injectContents(ctx *Context, der []byte) error {
	encoded := hex.EncodeToString(der)
	if len(encoded) > SigSlot {
		return fmt.Errorf("%w: encoded signature is %d hex digits, slot holds %d", ErrSignatureTooLarge, len(encoded), SigSlot)
	}
	padded := encoded + zeros(SigSlot-len(encoded))

	buf := ctx.Output.Buff.Bytes()
	// contentsPos points at '<'; the hex payload starts one byte later and
	// runs for exactly SigSlot bytes, followed by '>'.
	start := ctx.contentsPos + 1
	if start < 0 || start+int64(SigSlot) > int64(len(buf)) {
		return fmt.Errorf("%w: Contents position out of range", ErrInvalidPdf)
	}
	copy(buf[start:start+int64(SigSlot)], padded)
	return nil
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

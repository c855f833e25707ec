package verify

import "errors"

var (
	// ErrNoSignature is returned when a PDF has no /Type /Sig object.
	ErrNoSignature = errors.New("verify: no signature found")

	// ErrMalformedSignature is returned when a signature's ByteRange or
	// Contents entry can't be parsed from the scanned bytes.
	ErrMalformedSignature = errors.New("verify: malformed signature dictionary")
)

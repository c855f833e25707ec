package splice

import "errors"

// Sentinel error kinds. Callers use errors.Is against these, wrapped errors
// carry the underlying cause via %w.
var (
	// ErrInvalidPdf is returned when the input lacks a parseable trailer,
	// Catalog, first Page, or when a required placeholder has gone missing.
	ErrInvalidPdf = errors.New("splice: invalid pdf")

	// ErrPlaceholderMismatch indicates a length-preservation assertion
	// failed mid-patch. This should never happen on valid input; it
	// signals either a bug in the assembler or an adversarial buffer.
	ErrPlaceholderMismatch = errors.New("splice: placeholder length mismatch")

	// ErrSignatureTooLarge is returned when the DER CMS blob exceeds the
	// reserved SigSlot/2 bytes, typically from an oversized cert chain.
	ErrSignatureTooLarge = errors.New("splice: signature exceeds reserved slot")

	// ErrCryptoError wraps a failure from the detached CMS signing backend.
	ErrCryptoError = errors.New("splice: crypto backend failure")

	// ErrCertificateError is raised before layout begins when the signer
	// identity is missing a key, certificate, or has an empty chain.
	ErrCertificateError = errors.New("splice: certificate error")
)

package splice

import (
	"crypto"
	"fmt"
	"time"
)

// Sign is the splicer's entry point. It appends a detached PKCS#7/CMS
// signature to pdf using identity and cfg, returning the fully spliced
// document. The input bytes are never modified; on success, the returned
// slice shares no backing array with pdf.
//
// The pipeline runs in a fixed order that later stages depend on: layout is
// assembled and all object offsets fixed first, then ByteRange is computed
// by literal re-scan, then the signing time is stamped into /M, then the
// CMS is built over exactly the ByteRange-covered bytes, and finally the
// Contents placeholder is patched. Each stage can only run once the
// previous one has committed its bytes to the output buffer.
func Sign(pdf []byte, identity Identity, cfg Config) ([]byte, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	ctx := &Context{
		Input:    pdf,
		Config:   cfg,
		Identity: identity,
	}

	if err := assemble(ctx); err != nil {
		return nil, err
	}

	if err := planByteRange(ctx); err != nil {
		return nil, err
	}

	if err := patchSigningTime(ctx, time.Now()); err != nil {
		return nil, err
	}

	der, err := signContent(ctx, signedSlab(ctx))
	if err != nil {
		return nil, err
	}

	if err := injectContents(ctx, der); err != nil {
		return nil, err
	}

	out := make([]byte, ctx.Output.Buff.Len())
	copy(out, ctx.Output.Buff.Bytes())
	return out, nil
}

// validateConfig rejects configuration-time contradictions before any
// layout work begins: a PAdES level above B-B requires a TSA, since the
// splicer has no other source of a trusted signing time.
func validateConfig(cfg Config) error {
	if cfg.PAdESLevel > PAdESBB && cfg.TSA.URL == "" {
		return fmt.Errorf("%w: PAdES level %v requires a TSA URL", ErrCertificateError, cfg.PAdESLevel)
	}
	if (cfg.IncludeOCSP || cfg.IncludeCRL) && cfg.RevocationFetch == nil {
		return fmt.Errorf("%w: revocation requested but no RevocationFetch configured", ErrCertificateError)
	}
	return nil
}

// validateIdentity rejects an incomplete or inconsistent signer identity
// before any layout work begins, per the fatal-before-layout contract on
// ErrCertificateError: a missing key, a missing certificate, an empty chain,
// or a signer whose public key does not match the leaf certificate's.
func validateIdentity(identity Identity) error {
	if identity.Signer == nil {
		return fmt.Errorf("%w: signer identity is missing a key", ErrCertificateError)
	}
	if identity.Leaf == nil {
		return fmt.Errorf("%w: signer identity is missing a certificate", ErrCertificateError)
	}
	if len(identity.Chain) == 0 {
		return fmt.Errorf("%w: signer identity has an empty certificate chain", ErrCertificateError)
	}

	pub, ok := identity.Signer.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return fmt.Errorf("%w: signer public key of type %T cannot be compared against the leaf certificate", ErrCertificateError, identity.Signer.Public())
	}
	if !pub.Equal(identity.Leaf.PublicKey) {
		return fmt.Errorf("%w: signer public key does not match the leaf certificate's public key", ErrCertificateError)
	}

	return nil
}

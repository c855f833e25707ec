package splice

import (
	"crypto"
	"crypto/x509"
	"encoding/asn1"
	"fmt"

	"github.com/digitorus/pkcs7"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/sigspan/pdfsign/revocation"
)

// oidRevocationInfoArchival is the signed attribute carrying a
// RevocationInfoArchival value, letting the signature embed its own CRL/OCSP
// evidence for long-term validation instead of relying on the verifier to
// fetch it later.
var oidRevocationInfoArchival = asn1.ObjectIdentifier{1, 2, 840, 113583, 1, 1, 8}

// oidSHA256 is the digestAlgorithm this splicer always uses; the core
// targets PAdES-B-B with a fixed SHA-256 profile, so there is no algorithm
// negotiation to thread through the CMS builder.
var oidSHA256 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}

// oidSigningCertificateV2 is the ESSCertIDv2-based signing-certificate
// signed attribute (RFC 5035).
var oidSigningCertificateV2 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 16, 2, 47}

// signingCertificateAttribute builds the SigningCertificateV2 signed
// attribute binding the CMS to the specific leaf certificate used, the same
// low-level ASN.1 construction the teacher's signer uses to defeat
// certificate-substitution attacks against naive detached-CMS verifiers.
func signingCertificateAttribute(leaf *x509.Certificate) (*pkcs7.Attribute, error) {
	hash := crypto.SHA256.New()
	hash.Write(leaf.Raw)

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) { // SigningCertificateV2
		b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) { // []ESSCertIDv2
			b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) { // ESSCertIDv2
				b.AddASN1OctetString(hash.Sum(nil)) // certHash (default alg omitted: SHA-256)
			})
		})
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, err
	}

	return &pkcs7.Attribute{
		Type:  oidSigningCertificateV2,
		Value: asn1.RawValue{FullBytes: der},
	}, nil
}

// revocationAttribute fetches revocation evidence for the full chain (leaf
// plus every certificate in Identity.Chain) via the configured RevocationFetch and marshals
// it as the RevocationInfoArchival signed attribute.
func revocationAttribute(ctx *Context) (*pkcs7.Attribute, error) {
	if ctx.Config.RevocationFetch == nil {
		return nil, fmt.Errorf("%w: OCSP/CRL archival requested but no RevocationFetch configured", ErrCertificateError)
	}

	chain := append([]*x509.Certificate{ctx.Identity.Leaf}, ctx.Identity.Chain...)
	archive := revocation.Fetch(chain, ctx.Config.RevocationFetch)

	if !ctx.Config.IncludeOCSP {
		archive.OCSP = nil
	}
	if !ctx.Config.IncludeCRL {
		archive.CRL = nil
	}

	der, err := asn1.Marshal(*archive)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal revocation archive: %v", ErrCryptoError, err)
	}

	return &pkcs7.Attribute{
		Type:  oidRevocationInfoArchival,
		Value: asn1.RawValue{FullBytes: der},
	}, nil
}

// signContent is the Detached CMS Signer (C5) adapter: it produces a
// detached PKCS#7 SignedData over slab using the configured identity.
//
// It must be called after ByteRange and /M have both been patched; the
// slab passed in is exactly the two byte ranges the final ByteRange names.
func signContent(ctx *Context, slab []byte) ([]byte, error) {
	signedData, err := pkcs7.NewSignedData(slab)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoError, err)
	}
	signedData.SetDigestAlgorithm(oidSHA256)

	signingCert, err := signingCertificateAttribute(ctx.Identity.Leaf)
	if err != nil {
		return nil, fmt.Errorf("%w: signing-certificate attribute: %v", ErrCryptoError, err)
	}

	attrs := []pkcs7.Attribute{*signingCert}

	if ctx.Config.IncludeOCSP || ctx.Config.IncludeCRL {
		revAttr, err := revocationAttribute(ctx)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, *revAttr)
	}

	signerConfig := pkcs7.SignerInfoConfig{
		ExtraSignedAttributes: attrs,
	}

	if err := signedData.AddSignerChain(ctx.Identity.Leaf, ctx.Identity.Signer, ctx.Identity.Chain, signerConfig); err != nil {
		return nil, fmt.Errorf("%w: add signer chain: %v", ErrCryptoError, err)
	}

	signedData.Detach()

	if err := attachTimestamp(ctx, signedData); err != nil {
		return nil, err
	}

	der, err := signedData.Finish()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoError, err)
	}

	if len(der) > SigSlot/2 {
		return nil, fmt.Errorf("%w: CMS is %d bytes, budget is %d", ErrSignatureTooLarge, len(der), SigSlot/2)
	}

	return der, nil
}

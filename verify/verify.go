// Package verify checks a detached PKCS#7/CMS signature spliced into a PDF
// by the splice package, without parsing the PDF's full object graph: it
// locates the signature dictionary by byte search, reads the ByteRange-
// covered bytes directly, and hands them to the CMS library.
package verify

import (
	"bytes"
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"io"
	"time"

	"github.com/digitorus/pkcs7"

	"github.com/sigspan/pdfsign/revocation"
)

// Options controls how strictly a signature is validated.
type Options struct {
	// Roots, when non-nil, is used for chain verification; a signature whose
	// chain verifies against it is reported as trusted. When nil, no chain
	// verification is done and every valid signature is reported as
	// untrusted-but-valid, as it is with an empty *x509.CertPool.
	Roots *x509.CertPool

	// CheckRevocation enables checking the embedded RevocationInfoArchival
	// attribute (if present) against each chain certificate.
	CheckRevocation bool
}

// Result is one signature's verification outcome.
type Result struct {
	Name, Reason, Location, ContactInfo string

	SigningTime time.Time // from /M
	SubFilter   string

	ValidSignature bool
	TrustedIssuer  bool
	Revoked        bool

	Certificates []*x509.Certificate

	Errors []string
}

// Verify locates every signature in pdf and validates each independently.
func Verify(pdf []byte, opts Options) ([]Result, error) {
	sigs, err := findSignatures(pdf)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(sigs))
	for _, sig := range sigs {
		results = append(results, verifyOne(pdf, sig, opts))
	}
	return results, nil
}

func verifyOne(pdf []byte, sig sigDict, opts Options) Result {
	res := Result{
		Name:        sig.name,
		Reason:      sig.reason,
		Location:    sig.location,
		ContactInfo: sig.contact,
		SubFilter:   sig.subFilter,
	}

	if t, err := parseSigningTime(sig.m); err == nil {
		res.SigningTime = t
	} else if sig.m != "" {
		res.Errors = append(res.Errors, fmt.Sprintf("unparseable /M value %q: %v", sig.m, err))
	}

	signedContent, err := readByteRange(pdf, sig.byteRange)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	p7, err := pkcs7.Parse(sig.contents)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("parse PKCS#7: %v", err))
		return res
	}
	p7.Content = signedContent
	res.Certificates = p7.Certificates

	if err := verifySignedData(p7, opts, &res); err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	if opts.CheckRevocation {
		checkRevocation(p7, &res)
	}

	return res
}

// readByteRange reads the two byte ranges ByteRange names directly out of
// pdf and concatenates them, mirroring how the splicer itself defines the
// signed content.
func readByteRange(pdf []byte, br [4]int64) ([]byte, error) {
	if br[1] < 0 || br[3] < 0 || br[0]+br[1] > int64(len(pdf)) || br[2]+br[3] > int64(len(pdf)) {
		return nil, fmt.Errorf("%w: ByteRange %v is out of bounds for a %d-byte file", ErrMalformedSignature, br, len(pdf))
	}

	reader := bytes.NewReader(pdf)
	parts := []io.Reader{
		io.NewSectionReader(reader, br[0], br[1]),
		io.NewSectionReader(reader, br[2], br[3]),
	}

	content := make([]byte, br[1]+br[3])
	if _, err := io.ReadFull(io.MultiReader(parts...), content); err != nil {
		return nil, fmt.Errorf("%w: reading ByteRange content: %v", ErrMalformedSignature, err)
	}
	return content, nil
}

func verifySignedData(p7 *pkcs7.PKCS7, opts Options, res *Result) error {
	if opts.Roots != nil {
		if err := p7.VerifyWithChain(opts.Roots); err == nil {
			res.ValidSignature = true
			res.TrustedIssuer = true
			return nil
		}
	}

	if err := p7.Verify(); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	res.ValidSignature = true
	res.TrustedIssuer = false
	return nil
}

func checkRevocation(p7 *pkcs7.PKCS7, res *Result) {
	var archive revocation.InfoArchival
	if err := p7.UnmarshalSignedAttribute(asn1.ObjectIdentifier{1, 2, 840, 113583, 1, 1, 8}, &archive); err != nil {
		return
	}

	for i, cert := range p7.Certificates {
		var issuer *x509.Certificate
		if i+1 < len(p7.Certificates) {
			issuer = p7.Certificates[i+1]
		} else {
			issuer = cert
		}
		if archive.IsRevoked(cert, issuer) {
			res.Revoked = true
			return
		}
	}
}

func parseSigningTime(m string) (time.Time, error) {
	return time.Parse("D:20060102150405Z", m)
}

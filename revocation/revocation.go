// Package revocation builds the revocation-information archival attribute
// embedded in a CMS SignedData so a PAdES-B-LT signature carries its own
// proof of non-revocation rather than depending on the verifier reaching
// the network.
package revocation

import (
	"crypto/x509"
	"encoding/asn1"
	"time"

	"golang.org/x/crypto/ocsp"
)

// InfoArchival is the revocation information for every certificate in a
// signing chain, in the shape the RevocationInfoArchival attribute
// (1.2.840.113583.1.1.8) expects.
type InfoArchival struct {
	CRL   CRL   `asn1:"tag:0,optional,explicit"`
	OCSP  OCSP  `asn1:"tag:1,optional,explicit"`
	Other Other `asn1:"tag:2,optional,explicit"`
}

// AddCRL embeds the DER bytes of a downloaded CertificateList.
func (r *InfoArchival) AddCRL(b []byte) error {
	r.CRL = append(r.CRL, asn1.RawValue{FullBytes: b})
	return nil
}

// AddOCSP embeds the DER bytes of a downloaded OCSP response.
func (r *InfoArchival) AddOCSP(b []byte) error {
	r.OCSP = append(r.OCSP, asn1.RawValue{FullBytes: b})
	return nil
}

// IsRevoked reports whether any embedded CRL or OCSP response marks c as
// revoked. issuer is required to validate an OCSP responder's signature;
// pass nil to skip that check (the response's serial/status is still read,
// but its authenticity is not verified).
func (r *InfoArchival) IsRevoked(c, issuer *x509.Certificate) bool {
	for _, raw := range r.CRL {
		list, err := x509.ParseRevocationList(raw.FullBytes)
		if err != nil {
			continue
		}
		for _, entry := range list.RevokedCertificateEntries {
			if entry.SerialNumber.Cmp(c.SerialNumber) == 0 {
				return true
			}
		}
	}

	for _, raw := range r.OCSP {
		resp, err := ocsp.ParseResponseForCert(raw.FullBytes, c, issuer)
		if err != nil {
			// A response that doesn't verify against this cert/issuer pair
			// tells us nothing about c; fall through to the next source.
			continue
		}
		if resp.Status == ocsp.Revoked {
			return true
		}
	}

	return false
}

// NextUpdate returns the soonest expiry among the embedded revocation
// sources, or the zero Time if none are present. A caller archiving
// revocation info for long-term validation uses this to decide whether the
// archive is still fresh enough to trust without a refetch.
func (r *InfoArchival) NextUpdate(c, issuer *x509.Certificate) time.Time {
	var soonest time.Time
	for _, raw := range r.OCSP {
		resp, err := ocsp.ParseResponseForCert(raw.FullBytes, c, issuer)
		if err != nil {
			continue
		}
		if soonest.IsZero() || (!resp.NextUpdate.IsZero() && resp.NextUpdate.Before(soonest)) {
			soonest = resp.NextUpdate
		}
	}
	for _, raw := range r.CRL {
		list, err := x509.ParseRevocationList(raw.FullBytes)
		if err != nil {
			continue
		}
		if soonest.IsZero() || (!list.NextUpdate.IsZero() && list.NextUpdate.Before(soonest)) {
			soonest = list.NextUpdate
		}
	}
	return soonest
}

// CRL contains the raw bytes of a pkix CertificateList, parseable with
// x509.ParseRevocationList.
type CRL []asn1.RawValue

// OCSP contains the raw bytes of an OCSP response, parseable with
// golang.org/x/crypto/ocsp.ParseResponse.
type OCSP []asn1.RawValue

// Other is the catch-all OtherRevInfo alternative the ASN.1 definition
// allows for revocation sources besides CRL and OCSP.
type Other struct {
	Type  asn1.ObjectIdentifier
	Value []byte
}

// Fetch builds an InfoArchival for chain by calling fetch once per
// certificate, pairing each certificate with its issuer (the next entry in
// chain, or itself for a self-signed root). Fetch errors are not fatal to
// the archive as a whole: a certificate that can't be checked is simply
// omitted, since an incomplete archive is still useful and a required-fresh
// check belongs to the caller, not here.
func Fetch(chain []*x509.Certificate, fetch func(cert, issuer *x509.Certificate) (ocspDER, crlDER []byte, err error)) *InfoArchival {
	archive := &InfoArchival{}
	for i, cert := range chain {
		issuer := cert
		if i+1 < len(chain) {
			issuer = chain[i+1]
		}
		ocspDER, crlDER, err := fetch(cert, issuer)
		if err != nil {
			continue
		}
		if len(ocspDER) > 0 {
			_ = archive.AddOCSP(ocspDER)
		}
		if len(crlDER) > 0 {
			_ = archive.AddCRL(crlDER)
		}
	}
	return archive
}

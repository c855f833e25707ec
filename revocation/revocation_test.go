package revocation

import (
	"crypto/x509"
	"errors"
	"testing"

	"github.com/sigspan/pdfsign/internal/testpki"
)

func TestInfoArchival_AddAndParse(t *testing.T) {
	info := &InfoArchival{}

	if err := info.AddCRL([]byte("not-really-a-crl")); err != nil {
		t.Fatalf("AddCRL: %v", err)
	}
	if len(info.CRL) != 1 {
		t.Fatalf("AddCRL: got %d entries, want 1", len(info.CRL))
	}

	if err := info.AddOCSP([]byte("not-really-an-ocsp-response")); err != nil {
		t.Fatalf("AddOCSP: %v", err)
	}
	if len(info.OCSP) != 1 {
		t.Fatalf("AddOCSP: got %d entries, want 1", len(info.OCSP))
	}

	// Garbage bytes must not parse as revoked; IsRevoked should fail closed
	// to "not found" rather than erroring or panicking.
	pki := testpki.NewTestPKI(t)
	defer pki.Close()
	pki.StartCRLServer()
	_, leaf := pki.IssueLeaf("revocation-test")
	if info.IsRevoked(leaf, pki.RootCert) {
		t.Error("IsRevoked reported revoked for unparseable revocation data")
	}
}

func TestInfoArchival_IsRevoked_RealCRL(t *testing.T) {
	pki := testpki.NewTestPKI(t)
	defer pki.Close()
	pki.StartCRLServer()
	_, leaf := pki.IssueLeaf("crl-subject")

	info := &InfoArchival{}
	if err := info.AddCRL(pki.CRLBytes); err != nil {
		t.Fatalf("AddCRL: %v", err)
	}

	if info.IsRevoked(leaf, pki.RootCert) {
		t.Error("freshly issued leaf reported as revoked")
	}
}

func TestFetch_SkipsErroringCertificates(t *testing.T) {
	pki := testpki.NewTestPKI(t)
	defer pki.Close()
	pki.StartCRLServer()
	_, leaf := pki.IssueLeaf("fetch-subject")
	chain := append([]*x509.Certificate{leaf}, pki.Chain()...)

	archive := Fetch(chain, func(cert, issuer *x509.Certificate) ([]byte, []byte, error) {
		return nil, nil, errors.New("revocation source unreachable")
	})

	if len(archive.OCSP) != 0 || len(archive.CRL) != 0 {
		t.Error("Fetch should skip certificates whose fetch call errors")
	}
}

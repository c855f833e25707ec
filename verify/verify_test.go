package verify_test

import (
	"testing"

	"github.com/sigspan/pdfsign/internal/testfixture"
	"github.com/sigspan/pdfsign/internal/testpki"
	"github.com/sigspan/pdfsign/splice"
	"github.com/sigspan/pdfsign/verify"
)

func TestVerify_RoundTrip(t *testing.T) {
	pki := testpki.NewTestPKI(t)
	defer pki.Close()
	pki.StartCRLServer()
	key, leaf := pki.IssueLeaf("Verify Test Signer")

	input := testfixture.MinimalPDF()
	identity := splice.Identity{Signer: key, Leaf: leaf, Chain: pki.Chain()}

	signed, err := splice.Sign(input, identity, splice.Config{
		Info: splice.Info{Name: "Verify Test Signer", Reason: "Round trip test"},
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	results, err := verify.Verify(signed, verify.Options{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	res := results[0]
	if !res.ValidSignature {
		t.Errorf("ValidSignature = false, errors: %v", res.Errors)
	}
	if res.Reason != "Round trip test" {
		t.Errorf("Reason = %q, want %q", res.Reason, "Round trip test")
	}
	if res.SigningTime.IsZero() {
		t.Error("SigningTime was not parsed from /M")
	}
	if len(res.Certificates) == 0 {
		t.Error("no certificates recovered from the CMS")
	}
}

func TestVerify_TamperedContentFailsVerification(t *testing.T) {
	pki := testpki.NewTestPKI(t)
	defer pki.Close()
	pki.StartCRLServer()
	key, leaf := pki.IssueLeaf("Tamper Test Signer")

	input := testfixture.MinimalPDF()
	identity := splice.Identity{Signer: key, Leaf: leaf, Chain: pki.Chain()}

	signed, err := splice.Sign(input, identity, splice.Config{Info: splice.Info{Reason: "Tamper test"}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	// Flip a byte inside the signed range (well before the Contents slot).
	tampered := append([]byte{}, signed...)
	tampered[10] ^= 0xFF

	results, err := verify.Verify(tampered, verify.Options{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ValidSignature {
		t.Error("ValidSignature = true for a tampered document")
	}
}

func TestVerify_NoSignature(t *testing.T) {
	_, err := verify.Verify(testfixture.MinimalPDF(), verify.Options{})
	if err != verify.ErrNoSignature {
		t.Errorf("err = %v, want %v", err, verify.ErrNoSignature)
	}
}

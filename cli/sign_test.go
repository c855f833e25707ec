package cli

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/pkcs12"

	"github.com/sigspan/pdfsign/internal/testfixture"
	"github.com/sigspan/pdfsign/internal/testpki"
	"github.com/sigspan/pdfsign/splice"
)

func TestSignPDF(t *testing.T) {
	dir := t.TempDir()

	pki := testpki.NewTestPKI(t)
	defer pki.Close()
	pki.StartCRLServer()
	key, leaf := pki.IssueLeaf("CLI Test Signer")

	pfxData, err := pkcs12.Encode(rand.Reader, key, leaf, pki.Chain(), "hunter2")
	if err != nil {
		t.Fatalf("pkcs12.Encode: %v", err)
	}
	pfxPath := filepath.Join(dir, "identity.p12")
	if err := os.WriteFile(pfxPath, pfxData, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	inputPath := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(inputPath, testfixture.MinimalPDF(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outputPath := filepath.Join(dir, "output.pdf")

	SignPDF(inputPath, outputPath, pfxPath, "hunter2", splice.Config{
		Info: splice.Info{Name: "CLI Test Signer", Reason: "CLI test"},
	})

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading signed output: %v", err)
	}
	if len(out) == 0 {
		t.Error("signed output is empty")
	}
}

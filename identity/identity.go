// Package identity loads a signer identity (private key, leaf certificate,
// and chain) and exposes it as a splice.Identity. A local PKCS#12 container
// is the common case; FromAWSKMS builds the same shape around a remote AWS
// KMS signing key for callers who cannot hold private key material locally.
package identity

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"

	"golang.org/x/crypto/pkcs12"

	pdfsignaws "github.com/sigspan/pdfsign/signers/aws"
	"github.com/sigspan/pdfsign/splice"
)

var providersOnce sync.Once

// ensureProvidersLoaded runs any process-wide crypto provider registration
// exactly once. It is a no-op today; it exists as the place a future
// backend (e.g. legacy-cipher PKCS#12 support) would register itself,
// without forcing every call site to manage that state.
func ensureProvidersLoaded() {
	providersOnce.Do(func() {})
}

// Certificate is an eagerly-parsed, self-contained view of an X.509
// certificate: every field a caller typically needs is read once at
// construction and stored by value, so the certificate outlives any
// borrowed view into the original DER without aliasing concerns.
type Certificate struct {
	SubjectCN  string
	SubjectOrg string
	Issuer     string
	SerialHex  string
	NotBefore  string
	NotAfter   string

	cert *x509.Certificate
}

// NewCertificate wraps c, eagerly copying out the fields callers inspect
// most often.
func NewCertificate(c *x509.Certificate) Certificate {
	return Certificate{
		SubjectCN:  c.Subject.CommonName,
		SubjectOrg: joinOrg(c.Subject.Organization),
		Issuer:     c.Issuer.CommonName,
		SerialHex:  fmt.Sprintf("%x", c.SerialNumber),
		NotBefore:  c.NotBefore.Format("2006-01-02T15:04:05Z"),
		NotAfter:   c.NotAfter.Format("2006-01-02T15:04:05Z"),
		cert:       c,
	}
}

// Raw returns the underlying x509.Certificate for operations this view
// doesn't expose (signature verification, raw DER access).
func (c Certificate) Raw() *x509.Certificate { return c.cert }

func joinOrg(org []string) string {
	if len(org) == 0 {
		return ""
	}
	return org[0]
}

// LoadPKCS12 decodes a PKCS#12 container (a .pfx or .p12 file's bytes) into
// a splice.Identity. The private key must support crypto.Signer; PKCS#12
// containers holding a key type that doesn't (none of Go's standard key
// types fail this) would surface as an error here rather than later.
func LoadPKCS12(der []byte, password string) (splice.Identity, error) {
	ensureProvidersLoaded()

	key, leaf, chain, err := pkcs12.DecodeChain(der, password)
	if err != nil {
		return splice.Identity{}, fmt.Errorf("identity: decode pkcs12: %w", err)
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return splice.Identity{}, fmt.Errorf("identity: pkcs12 private key of type %T is not a crypto.Signer", key)
	}

	return splice.Identity{
		Signer: signer,
		Leaf:   leaf,
		Chain:  chain,
	}, nil
}

// FromAWSKMS builds a splice.Identity backed by an asymmetric AWS KMS
// signing key. KMS holds only key material, never a certificate, so the
// leaf certificate and its chain must be supplied separately as
// PEM-encoded blocks (chainPEM may contain any number of concatenated
// CERTIFICATE blocks). client is typically kms.NewFromConfig bound to a
// loaded aws.Config; it is accepted as an interface so callers can inject a
// fake in tests.
func FromAWSKMS(client pdfsignaws.KMSClient, keyID string, leafPEM, chainPEM []byte) (splice.Identity, error) {
	ensureProvidersLoaded()

	leaf, err := parsePEMCertificate(leafPEM)
	if err != nil {
		return splice.Identity{}, fmt.Errorf("identity: parse leaf certificate: %w", err)
	}

	chain, err := parsePEMCertificateChain(chainPEM)
	if err != nil {
		return splice.Identity{}, fmt.Errorf("identity: parse certificate chain: %w", err)
	}

	signer, err := pdfsignaws.NewSigner(client, keyID, leaf.PublicKey)
	if err != nil {
		return splice.Identity{}, fmt.Errorf("identity: new aws kms signer: %w", err)
	}

	return splice.Identity{
		Signer: signer,
		Leaf:   leaf,
		Chain:  chain,
	}, nil
}

func parsePEMCertificate(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}

func parsePEMCertificateChain(data []byte) ([]*x509.Certificate, error) {
	var chain []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		chain = append(chain, cert)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("no certificates found")
	}
	return chain, nil
}

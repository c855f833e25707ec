// Package splice implements the incremental-signature splicer: it appends a
// PKCS#7/CMS detached signature to an existing PDF using the PDF incremental
// update mechanism, producing output compatible with Adobe Reader's signature
// validator.
//
// The splicer never rewrites a single byte of the original input. It appends
// three new indirect objects (Signature, AcroForm, signature field), a
// replacement Catalog, an incremental xref
// section and a trailer, then patches three fixed-width placeholders
// (ByteRange, /M, Contents) in place once their final values are known.
package splice

import (
	"crypto"
	"crypto/x509"
	"log"

	"github.com/mattetti/filebuffer"
)

// Fixed, byte-exact constants. Test vectors and third-party validators
// depend on these; do not change without updating every placeholder
// template below.
const (
	// SigSlot is the number of hex digits reserved for the Contents
	// payload: 16000 hex digits, an 8000-byte CMS budget.
	SigSlot = 16000

	// byteRangePlaceholder is the literal template written at layout
	// time. It is padded on the right with ASCII spaces to
	// byteRangePlaceholderLen bytes total.
	byteRangePlaceholder = "/ByteRange [0000000 0000000 0000000 0000000]"

	// byteRangePlaceholderLen is the fixed total width of the ByteRange
	// placeholder, padding included. Chosen so the four 7-digit numeric
	// fields plus the padded tail always fit without reflowing any other
	// byte in the buffer.
	byteRangePlaceholderLen = 63

	// byteRangeFieldWidth is the zero-padded width of each of the four
	// numeric fields inside the ByteRange array. A larger value is written
	// with more digits and uses up the trailing padding; only a formatted
	// ByteRange longer than byteRangePlaceholderLen fails with ErrInvalidPdf.
	byteRangeFieldWidth = 7

	// mPlaceholder is the /M date placeholder: "D:" + 14 zero digits + "Z".
	mPlaceholder = "D:00000000000000Z"

	// mPlaceholderLen is the fixed byte width of the /M slot.
	mPlaceholderLen = 17

	// xrefEntryLen is the fixed byte width of one xref table entry,
	// "NNNNNNNNNN GGGGG f/n \n", the free entry included.
	xrefEntryLen = 20
)

// CertType selects how the signature field's permission semantics are
// expressed. The splicer only ever emits an approval-style signature field;
// this enum exists so a caller's intent is explicit in the config surface
// even though the layout it produces is uniform.
type CertType int

const (
	ApprovalSignature CertType = iota
)

// Info carries the free-text fields embedded as PDF literal strings in the
// Signature dictionary. Name is not written: /Name always carries the leaf
// certificate's common name (see Identity.SubjectCN).
type Info struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Reason      string `json:"reason"`
	ContactInfo string `json:"contact_info"`
}

// Identity is the signer identity: a private key plus the certificate chain
// that will be embedded in the CMS `certificates` field. Leaf is passed on
// its own; Chain holds its issuing certificates and need not contain Leaf.
// Sign sorts nothing, it simply includes Leaf and every certificate in Chain.
type Identity struct {
	Signer crypto.Signer
	Leaf   *x509.Certificate
	Chain  []*x509.Certificate
}

// SubjectCN returns the leaf certificate's common name, or "Unknown" if the
// leaf is absent or has no CN, matching the fallback the Signature
// dictionary's /Name field uses.
func (id Identity) SubjectCN() string {
	if id.Leaf == nil || id.Leaf.Subject.CommonName == "" {
		return "Unknown"
	}
	return id.Leaf.Subject.CommonName
}

// PAdESLevel selects the long-term-validation profile requested on the
// config surface. Only PAdESBB is implemented by the splicer itself; higher
// levels are a configuration-time error unless paired with a TSA URL.
type PAdESLevel int

const (
	PAdESBB PAdESLevel = iota
	PAdESBT
	PAdESBLT
	PAdESBLTA
)

// TSA holds the optional RFC 3161 timestamp authority endpoint and
// credentials. A zero value disables timestamping.
type TSA struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// RevocationFunc fetches revocation evidence (OCSP and/or CRL DER bytes) for
// a certificate given its issuer. It is called once per chain certificate
// when Config.IncludeOCSP or Config.IncludeCRL is set.
type RevocationFunc func(cert, issuer *x509.Certificate) (ocspDER []byte, crlDER []byte, err error)

// Config is the splicer's single input surface beyond the PDF bytes and
// signer identity.
type Config struct {
	Info Info
	TSA  TSA

	PAdESLevel PAdESLevel

	IncludeOCSP     bool
	IncludeCRL      bool
	RevocationFetch RevocationFunc

	// PreSignHook runs after layout is fixed (every object appended,
	// every offset known) but before the ByteRange is computed. It lets
	// a caller inspect or extend the Context, mirroring the generic
	// object-update extension point of the teacher's own signing
	// pipeline. Returning an error aborts the sign.
	PreSignHook func(*Context) error

	// Logger receives non-fatal diagnostics: a fall back to pattern-based
	// Catalog resolution. A nil Logger discards them.
	Logger *log.Logger
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(discard{}, "", 0)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// coordinates is the output of the structure probe (C2).
type coordinates struct {
	catalogObj    int
	pagesRef      int
	firstPageObj  int
	prevXref      int64
	catalogExtras []string
	viaFallback   bool
}

// Context carries all state threaded through the splice pipeline for a
// single signing call. It is constructed fresh per call and never reused.
type Context struct {
	Input  []byte
	Output *filebuffer.Buffer

	Config   Config
	Identity Identity

	coords coordinates

	sigObj      int
	acroformObj int
	sigFieldObj int

	sigDictOffset  int64
	acroformOffset int64
	sigFieldOffset int64
	catalogOffset  int64
	xrefStart      int64

	byteRangePos int64 // offset of the literal "/ByteRange " placeholder
	contentsPos  int64 // offset of '<' of the Contents placeholder
	contentsLen  int64 // SigSlot + 2, includes both angle brackets
	mPos         int64 // offset of 'D' of the /M placeholder

	byteRange [4]int64
}

package splice

import (
	"crypto"
	"encoding/asn1"
	"fmt"

	"github.com/digitorus/pkcs7"

	"github.com/sigspan/pdfsign/tsa"
)

// oidTimestampToken is the unauthenticated CMS attribute id used to embed
// an RFC 3161 token inside a CMS SignerInfo (RFC 3161 §2.4.2).
var oidTimestampToken = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 16, 2, 14}

// attachTimestamp embeds an RFC 3161 timestamp token over the first
// SignerInfo's encryptedDigest when a TSA is configured. It is a no-op
// when ctx.Config.TSA.URL is empty; Config.PAdESLevel does not gate it.
func attachTimestamp(ctx *Context, signedData *pkcs7.SignedData) error {
	if ctx.Config.TSA.URL == "" {
		return nil
	}

	inner := signedData.GetSignedData()
	if len(inner.SignerInfos) == 0 {
		return fmt.Errorf("%w: no SignerInfo to timestamp", ErrCryptoError)
	}

	client := tsa.Client{
		URL:      ctx.Config.TSA.URL,
		Username: ctx.Config.TSA.Username,
		Password: ctx.Config.TSA.Password,
	}

	token, err := client.Token(inner.SignerInfos[0].EncryptedDigest, crypto.SHA256)
	if err != nil {
		return fmt.Errorf("%w: timestamp: %v", ErrCryptoError, err)
	}

	attr := pkcs7.Attribute{
		Type:  oidTimestampToken,
		Value: asn1.RawValue{FullBytes: token},
	}
	if err := inner.SignerInfos[0].SetUnauthenticatedAttributes([]pkcs7.Attribute{attr}); err != nil {
		return fmt.Errorf("%w: set timestamp attribute: %v", ErrCryptoError, err)
	}

	return nil
}

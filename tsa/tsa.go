// Package tsa requests and validates RFC 3161 timestamp tokens from a
// Time-Stamping Authority, for embedding as an unauthenticated CMS
// attribute on a detached signature (PAdES-B-T and above).
package tsa

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/digitorus/pkcs7"
	"github.com/digitorus/timestamp"
)

// Client holds the configuration needed to reach a Time-Stamping Authority.
type Client struct {
	URL      string
	Username string
	Password string

	// HTTPClient is used for the request if non-nil, allowing callers to
	// inject timeouts or transports. A plain http.Client is used otherwise.
	HTTPClient *http.Client
}

// Token requests a timestamp token over digest (the value being
// timestamped, e.g. a SignerInfo's encryptedDigest) and returns the raw
// DER-encoded token, after confirming it parses as both an RFC 3161
// response and a valid PKCS#7 structure.
func (c Client) Token(digest []byte, hash crypto.Hash) ([]byte, error) {
	request, err := timestamp.CreateRequest(bytes.NewReader(digest), &timestamp.RequestOptions{
		Hash:         hash,
		Certificates: true,
	})
	if err != nil {
		return nil, fmt.Errorf("tsa: create request: %w", err)
	}

	raw, err := c.roundTrip(request)
	if err != nil {
		return nil, err
	}

	ts, err := timestamp.ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("tsa: parse response: %w", err)
	}

	if _, err := pkcs7.Parse(ts.RawToken); err != nil {
		return nil, fmt.Errorf("tsa: parse token: %w", err)
	}

	return ts.RawToken, nil
}

func (c Client) roundTrip(request []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewReader(request))
	if err != nil {
		return nil, fmt.Errorf("tsa: prepare request (%s): %w", c.URL, err)
	}
	req.Header.Set("Content-Type", "application/timestamp-query")
	req.Header.Set("Content-Transfer-Encoding", "binary")

	if c.Username != "" && c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tsa: request to %s: %w", c.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tsa: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New("tsa: non success response (" + strconv.Itoa(resp.StatusCode) + "): " + string(body))
	}

	return body, nil
}

package pageid

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

// ErrNoHost is returned when a URL has no usable host component.
var ErrNoHost = errors.New("pageid: url has no host")

// Identity returns the privacy-preserving page identifier for a host and
// path: the URL-safe base64 encoding of SHA256(host + path). The raw URL is
// never sent to the server; only this digest is.
func Identity(host, path string) string {
	h := sha256.Sum256([]byte(host + path))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// FromURL normalizes a raw URL down to host + path and returns its Identity.
// Query strings, fragments and userinfo are dropped so that two visits to
// the same page with different tracking parameters map to the same key.
func FromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", ErrNoHost
	}
	return Identity(host, u.EscapedPath()), nil
}

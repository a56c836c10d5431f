// Package encode provides the digest output encodings: lowercase hex and
// raw (unpadded) standard base64.
package encode

import (
	"encoding/base64"

	"github.com/tmthrgd/go-hex"
)

// ToHex returns the lowercase hexadecimal encoding of b.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex decodes a hexadecimal string, upper or lower case.
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// ToBase64 returns the raw standard base64 encoding of b, no padding.
func ToBase64(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}

// FromBase64 decodes a raw standard base64 string.
func FromBase64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(s)
}

package relay

import (
	"encoding/base64"
	"fmt"
)

// EncodeBase64 encodes b using standard padded base64.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes standard padded base64.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return b, nil
}

// BodyFromString converts a binary string, where every rune is a byte value 0-255,
// into its byte sequence. Runes above 0xff are truncated to their low byte.
func BodyFromString(s string) []byte {
	runes := []rune(s)
	b := make([]byte, len(runes))
	for i, r := range runes {
		b[i] = byte(r)
	}
	return b
}

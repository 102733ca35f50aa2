package serial

import (
	"encoding/base64"
	"strings"
)

// EncodeBase64 renders b in the standard base64 alphabet with '='
// padding. Empty input yields the empty string.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 reverses EncodeBase64. Bytes outside the alphabet and
// padding are stripped first, so whitespace-wrapped artifacts decode
// cleanly; the cleaned input must then be a multiple of 4 characters and
// every group must survive the table lookup, or decoding fails with a
// format error.
func DecodeBase64(s string) ([]byte, error) {
	clean := filterBase64(s)
	if len(clean)%4 != 0 {
		return nil, errFormatf("base64 input length %d is not a multiple of 4", len(clean))
	}
	out, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, errFormat("base64 decode", err)
	}
	return out, nil
}

func filterBase64(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isBase64Byte(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isBase64Byte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '/', c == '=':
		return true
	}
	return false
}

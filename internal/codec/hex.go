// Package codec converts between byte buffers and the hex strings used at the host boundary.
package codec

import (
	"encoding/hex"
	"fmt"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

// EncodeHex returns the lowercase hex encoding of b, two characters per byte.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex decodes s into bytes.
//
// An odd length or a non-hex character returns an error matching
// cryptoDomain.ErrInvalidHex. The offending character is never echoed back,
// only its position, since the string may be part of a key.
func DecodeHex(field, s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %s has odd length %d", cryptoDomain.ErrInvalidHex, field, len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isHexChar(s[i]) {
			return nil, fmt.Errorf("%w: %s has invalid character at position %d", cryptoDomain.ErrInvalidHex, field, i)
		}
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrInvalidHex, field)
	}
	return b, nil
}

// DecodeHexSize decodes s and checks the result is exactly size bytes.
//
// Format errors are reported before length errors.
func DecodeHexSize(field, s string, size int) ([]byte, error) {
	b, err := DecodeHex(field, s)
	if err != nil {
		return nil, err
	}
	if err := cryptoDomain.CheckLength(field, b, size); err != nil {
		cryptoDomain.Zero(b)
		return nil, err
	}
	return b, nil
}

func isHexChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}

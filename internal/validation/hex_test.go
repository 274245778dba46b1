package validation

import (
	"strings"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		shouldErr bool
	}{
		{"lowercase", "deadbeef", false},
		{"uppercase", "DEADBEEF", false},
		{"empty is left to Required", "", false},
		{"odd length", "abc", true},
		{"non-hex character", "zz", true},
		{"not a string", 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Hex.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHexBytes(t *testing.T) {
	rule := HexBytes(12)

	assert.NoError(t, rule.Validate(strings.Repeat("ab", 12)))
	assert.NoError(t, rule.Validate(""))

	err := rule.Validate(strings.Repeat("ab", 11))
	assert.EqualError(t, err, "must be 24 hex characters (12 bytes)")

	assert.Error(t, rule.Validate(strings.Repeat("zz", 12)))
}

func TestHexBytes_WithValidateStruct(t *testing.T) {
	req := struct {
		Nonce string
	}{Nonce: "00"}

	err := validation.ValidateStruct(&req,
		validation.Field(&req.Nonce, validation.Required, HexBytes(12)),
	)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Nonce")
}

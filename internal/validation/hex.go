package validation

import (
	"encoding/hex"
	"strconv"

	validation "github.com/jellydator/validation"
)

// Hex validates that a string is hex-encoded data with an even number of characters.
// Both cases are accepted.
var Hex = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_hex_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := hex.DecodeString(s); err != nil {
		return validation.NewError("validation_hex", "must be valid hex-encoded data")
	}
	return nil
})

// HexBytes validates that a string is hex encoding exactly size bytes.
func HexBytes(size int) validation.Rule {
	return validation.By(func(value interface{}) error {
		if err := Hex.Validate(value); err != nil {
			return err
		}
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if len(s) != size*2 {
			return validation.NewError(
				"validation_hex_length",
				"must be "+strconv.Itoa(size*2)+" hex characters ("+strconv.Itoa(size)+" bytes)",
			)
		}
		return nil
	})
}

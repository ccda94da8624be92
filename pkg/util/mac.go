package util

import (
	"fmt"
	"strings"
)

// CanonicalMAC converts any common MAC notation to the IEEE colon-separated
// uppercase form. Accepted inputs include "aabb.ccdd.eeff" (Cisco dotted),
// "aa:bb:cc:dd:ee:ff", "AA-BB-CC-DD-EE-FF", and bare "aabbccddeeff".
// The transform is idempotent: feeding the output back returns it unchanged.
func CanonicalMAC(raw string) (string, error) {
	var hex []byte
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			hex = append(hex, c)
		case c >= 'a' && c <= 'f':
			hex = append(hex, c-'a'+'A')
		case c >= 'A' && c <= 'F':
			hex = append(hex, c)
		case c == ':' || c == '-' || c == '.':
			// separator, skip
		default:
			return "", fmt.Errorf("invalid MAC address %q: unexpected character %q", raw, c)
		}
	}
	if len(hex) != 12 {
		return "", fmt.Errorf("invalid MAC address %q: expected 12 hex digits, got %d", raw, len(hex))
	}

	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteByte(hex[i])
		b.WriteByte(hex[i+1])
	}
	return b.String(), nil
}

// IsMAC reports whether raw parses as a 48-bit MAC address in any
// notation CanonicalMAC accepts.
func IsMAC(raw string) bool {
	_, err := CanonicalMAC(raw)
	return err == nil
}

package models

import "strings"

// ZeroAddress is the sentinel identity meaning "unset".
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// Address identifies an account holder. The ledger treats it as an opaque
// comparable key; it never parses or checksums it.
type Address string

// IsZero reports whether a is the unset sentinel (empty or ZeroAddress).
func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

// Normalize trims surrounding whitespace and lowercases hex style addresses so
// the same holder always maps to the same key.
func (a Address) Normalize() Address {
	s := strings.TrimSpace(string(a))
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = strings.ToLower(s)
	}
	if s == "" {
		return ZeroAddress
	}
	return Address(s)
}

func (a Address) String() string {
	if a == "" {
		return string(ZeroAddress)
	}
	return string(a)
}

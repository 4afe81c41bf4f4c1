// Package rfc5234 provides the core ABNF byte classes (RFC 5234
// appendix B) shared by the grammar packages.
package rfc5234

// IsWSP reports whether c is linear whitespace (space or horizontal tab).
func IsWSP(c byte) bool {
	return c == ' ' || c == '\t'
}

// IsAlpha reports whether c is an ASCII letter.
func IsAlpha(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

// IsDigit reports whether c is a decimal digit.
func IsDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// IsHexDig reports whether c is a hexadecimal digit. Both letter cases
// are accepted.
func IsHexDig(c byte) bool {
	return IsDigit(c) || ('A' <= c && c <= 'F') || ('a' <= c && c <= 'f')
}

// IsAlphanumeric reports whether c is an ASCII letter or a decimal digit.
func IsAlphanumeric(c byte) bool {
	return IsAlpha(c) || IsDigit(c)
}

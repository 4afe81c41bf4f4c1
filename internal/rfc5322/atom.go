// Package rfc5322 provides the token classes the envelope grammar
// borrows from the message-format grammar (RFC 5322 section 3.2.3).
package rfc5322

import (
	"github.com/moriyoshi/smtp-envelope/internal/rfc5234"
)

// IsAText reports whether c may appear in an unquoted atom. Only the
// ASCII repertoire is admitted; internationalized forms are out of
// scope for the envelope syntax.
func IsAText(c byte) bool {
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '/',
		'=', '?', '^', '_', '`', '{', '|', '}', '~':
		return true
	}
	return rfc5234.IsAlphanumeric(c)
}

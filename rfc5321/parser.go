/*
Package rfc5321 implements the envelope-address syntax of RFC 5321:
the argument bodies of the MAIL FROM and RCPT TO commands,
reverse-path and forward-path forms, mailbox local parts and domains,
bracketed address literals, and ESMTP parameter lists, together with
canonical rendering of the parsed values.

Some points worth noting:

  - The entrypoints are exact: input left over after a match is an
    error, and no line terminator is consumed or expected. Callers
    strip CRLF before handing over a command body.
  - Source routes, the obsolete "@relay,@relay:" prefix inside a
    path, are recognized and discarded.
  - ESMTP keywords and values are case-sensitive and come back in
    source order, duplicates included. Only the command verbs, the
    "IPv6:" literal tag and "<postmaster>" are matched without regard
    to case.
  - All text is treated as bytes; nothing outside ASCII is accepted
    anywhere.
  - Parsing never panics on any input; every failure is an error
    wrapping ErrSyntax.
*/
package rfc5321

import (
	"errors"
	"fmt"
)

// ErrSyntax is the error all parse failures wrap: the input does not
// match the grammar.
var ErrSyntax = errors.New("malformed syntax")

// ErrCannotUpgrade is returned by AddressLiteral.Upgrade when the
// literal is not free-form, or its text matches no formal literal
// form.
var ErrCannotUpgrade = errors.New("literal cannot be upgraded")

// ParseMailCommand parses a complete MAIL command body such as
// "MAIL FROM:<bob@example.org> SIZE=1000". The parameter slice is nil
// when the body carries none.
func ParseMailCommand(s string) (ReversePath, []EsmtpParam, error) {
	return ParseMailCommandBytes([]byte(s))
}

// ParseMailCommandBytes is ParseMailCommand for a byte slice.
func ParseMailCommandBytes(b []byte) (ReversePath, []EsmtpParam, error) {
	p := newCmdParser(b)
	rp, params, ok := p.consumeMailCommand()
	if !ok || !p.c.Empty() {
		return ReversePath{}, nil, fmt.Errorf("mail command: %w", ErrSyntax)
	}
	return rp, params, nil
}

// ParseRcptCommand parses a complete RCPT command body such as
// "RCPT TO:<alice@example.com>".
func ParseRcptCommand(s string) (Path, []EsmtpParam, error) {
	return ParseRcptCommandBytes([]byte(s))
}

// ParseRcptCommandBytes is ParseRcptCommand for a byte slice.
func ParseRcptCommandBytes(b []byte) (Path, []EsmtpParam, error) {
	p := newCmdParser(b)
	path, params, ok := p.consumeRcptCommand()
	if !ok || !p.c.Empty() {
		return Path{}, nil, fmt.Errorf("rcpt command: %w", ErrSyntax)
	}
	return path, params, nil
}

// ParseEsmtpParams parses a standalone ESMTP parameter list. Empty
// input is an empty list; anything else must be consumed entirely by
// the parameter grammar.
func ParseEsmtpParams(s string) ([]EsmtpParam, error) {
	return ParseEsmtpParamsBytes([]byte(s))
}

// ParseEsmtpParamsBytes is ParseEsmtpParams for a byte slice.
func ParseEsmtpParamsBytes(b []byte) ([]EsmtpParam, error) {
	p := newCmdParser(b)
	params := p.consumeEsmtpParams()
	if !p.c.Empty() {
		return nil, fmt.Errorf("esmtp params: %w", ErrSyntax)
	}
	return params, nil
}

// ParseMailbox parses a bare mailbox address of the form
// local-part@domain, outside any angle brackets.
func ParseMailbox(s string) (Mailbox, error) {
	return ParseMailboxBytes([]byte(s))
}

// ParseMailboxBytes is ParseMailbox for a byte slice.
func ParseMailboxBytes(b []byte) (Mailbox, error) {
	p := newCmdParser(b)
	mbox, ok := p.tryConsumingMailbox()
	if !ok || !p.c.Empty() {
		return Mailbox{}, fmt.Errorf("mailbox: %w", ErrSyntax)
	}
	return mbox, nil
}

// ValidateAddress reports whether s is exactly one valid mailbox
// address.
func ValidateAddress(s string) bool {
	_, err := ParseMailbox(s)
	return err == nil
}

// ValidateAddressBytes is ValidateAddress for a byte slice.
func ValidateAddressBytes(b []byte) bool {
	_, err := ParseMailboxBytes(b)
	return err == nil
}

// ParseAddressLiteral parses a bracketed address literal such as
// "[192.0.2.1]" or "[IPv6:2001:db8::1]". Bracketed text that matches
// no formal form comes back as a free-form literal; missing brackets
// are an error.
func ParseAddressLiteral(s string) (AddressLiteral, error) {
	return ParseAddressLiteralBytes([]byte(s))
}

// ParseAddressLiteralBytes is ParseAddressLiteral for a byte slice.
func ParseAddressLiteralBytes(b []byte) (AddressLiteral, error) {
	if len(b) < 2 || b[0] != '[' || b[len(b)-1] != ']' {
		return AddressLiteral{}, fmt.Errorf("address literal: %w", ErrSyntax)
	}
	inner := b[1 : len(b)-1]
	if lit, ok := parseInnerLiteral(inner); ok {
		return lit, nil
	}
	return AddressLiteral{Kind: LiteralFreeForm, Text: string(inner)}, nil
}

package rfc5321

import (
	"net"
)

// An EsmtpParam is one keyword/value parameter attached to a MAIL or
// RCPT command. Value is empty when the parameter carried no value;
// the grammar never produces an empty value otherwise.
type EsmtpParam struct {
	Name  string
	Value string
}

// A LocalPart is the part of a mailbox before the @. Value holds the
// decoded text: for the quoted form, the surrounding quotes and escape
// backslashes are already stripped.
type LocalPart struct {
	Value  string
	Quoted bool
}

// A LiteralKind discriminates the forms an address literal can take.
// The zero value marks the absence of a literal.
type LiteralKind int

const (
	LiteralIPAddr LiteralKind = iota + 1
	LiteralTagged
	LiteralFreeForm
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralIPAddr:
		return "ipaddr"
	case LiteralTagged:
		return "tagged"
	case LiteralFreeForm:
		return "freeform"
	default:
		return "none"
	}
}

// An AddressLiteral is a bracketed network address standing in for a
// domain. IP is set for LiteralIPAddr; Tag and Text for LiteralTagged;
// Text alone holds the raw inner text for LiteralFreeForm.
type AddressLiteral struct {
	Kind LiteralKind
	IP   net.IP
	Tag  string
	Text string
}

// Upgrade re-parses the text of a free-form literal against the formal
// literal forms (IPv4, IPv6, tagged). It fails with ErrCannotUpgrade
// when the receiver is not free-form or its text matches none of them.
// The receiver is left untouched either way.
func (l AddressLiteral) Upgrade() (AddressLiteral, error) {
	if l.Kind != LiteralFreeForm {
		return AddressLiteral{}, ErrCannotUpgrade
	}
	lit, ok := parseInnerLiteral([]byte(l.Text))
	if !ok {
		return AddressLiteral{}, ErrCannotUpgrade
	}
	return lit, nil
}

// A DomainPart is the part of a mailbox after the @: a dot-separated
// domain, or an address literal.
type DomainPart struct {
	Domain  string
	Literal AddressLiteral
}

// IsLiteral reports whether the domain part is an address literal.
func (d DomainPart) IsLiteral() bool {
	return d.Literal.Kind != 0
}

// A Mailbox is a local part and a domain part.
type Mailbox struct {
	LocalPart LocalPart
	Domain    DomainPart
}

// A Path is the target of a RCPT command: a mailbox, or the postmaster
// special case.
type Path struct {
	Mailbox    Mailbox
	PostMaster bool
}

// A ReversePath is the source of a MAIL command: a mailbox, or the
// null reverse-path.
type ReversePath struct {
	Mailbox Mailbox
	Null    bool
}

package rfc5321

import (
	"net"

	"github.com/moriyoshi/smtp-envelope/internal/cursor"
	"github.com/moriyoshi/smtp-envelope/internal/rfc5234"
	"github.com/moriyoshi/smtp-envelope/internal/rfc5322"
)

type cmdParser struct {
	c cursor.Cursor
}

func newCmdParser(b []byte) cmdParser {
	return cmdParser{c: cursor.New(b)}
}

// consumeMailCommand matches `"MAIL FROM:" reverse-path [" " params]`.
func (p *cmdParser) consumeMailCommand() (ReversePath, []EsmtpParam, bool) {
	if !p.c.TagFold("MAIL FROM:") {
		return ReversePath{}, nil, false
	}
	rp, ok := p.tryConsumingReversePath()
	if !ok {
		return ReversePath{}, nil, false
	}
	return rp, p.tryConsumingParamsSuffix(), true
}

// consumeRcptCommand matches `"RCPT TO:" forward-path [" " params]`.
func (p *cmdParser) consumeRcptCommand() (Path, []EsmtpParam, bool) {
	if !p.c.TagFold("RCPT TO:") {
		return Path{}, nil, false
	}
	path, ok := p.tryConsumingForwardPath()
	if !ok {
		return Path{}, nil, false
	}
	return path, p.tryConsumingParamsSuffix(), true
}

// tryConsumingParamsSuffix matches the optional " params" tail of a
// command. A space not followed by at least one parameter is left
// unconsumed.
func (p *cmdParser) tryConsumingParamsSuffix() []EsmtpParam {
	m := p.c.Mark()
	if !p.c.Tag(" ") {
		return nil
	}
	params := p.consumeEsmtpParams()
	if len(params) == 0 {
		p.c.Reset(m)
		return nil
	}
	return params
}

// consumeEsmtpParams matches `[param (wsp+ param)*]`. Zero parameters
// is a valid, empty match.
func (p *cmdParser) consumeEsmtpParams() []EsmtpParam {
	first, ok := p.tryConsumingEsmtpParam()
	if !ok {
		return nil
	}
	params := []EsmtpParam{first}
	for {
		m := p.c.Mark()
		if _, ok := p.c.TakeWhile1(rfc5234.IsWSP); !ok {
			break
		}
		param, ok := p.tryConsumingEsmtpParam()
		if !ok {
			p.c.Reset(m)
			break
		}
		params = append(params, param)
	}
	return params
}

// tryConsumingEsmtpParam matches `keyword ["=" value]`. Keywords are
// runs of alphanumerics; a "=" not followed by a value byte is left
// unconsumed.
func (p *cmdParser) tryConsumingEsmtpParam() (EsmtpParam, bool) {
	name, ok := p.c.TakeWhile1(rfc5234.IsAlphanumeric)
	if !ok {
		return EsmtpParam{}, false
	}
	param := EsmtpParam{Name: string(name)}
	m := p.c.Mark()
	if p.c.Tag("=") {
		if value, ok := p.c.TakeWhile1(isEsmtpValue); ok {
			param.Value = string(value)
		} else {
			p.c.Reset(m)
		}
	}
	return param, true
}

// tryConsumingReversePath matches `path | "<>"`.
func (p *cmdParser) tryConsumingReversePath() (ReversePath, bool) {
	if mbox, ok := p.tryConsumingPath(); ok {
		return ReversePath{Mailbox: mbox}, true
	}
	if p.c.Tag("<>") {
		return ReversePath{Null: true}, true
	}
	return ReversePath{}, false
}

// tryConsumingForwardPath matches `"<postmaster>" | path`, the special
// case without regard to case.
func (p *cmdParser) tryConsumingForwardPath() (Path, bool) {
	if p.c.TagFold("<postmaster>") {
		return Path{PostMaster: true}, true
	}
	if mbox, ok := p.tryConsumingPath(); ok {
		return Path{Mailbox: mbox}, true
	}
	return Path{}, false
}

// tryConsumingPath matches `"<" [source-route ":"] mailbox ">"`. The
// source route is matched and discarded.
func (p *cmdParser) tryConsumingPath() (Mailbox, bool) {
	m := p.c.Mark()
	if !p.c.Tag("<") {
		return Mailbox{}, false
	}
	p.tryConsumingSourceRoute()
	mbox, ok := p.tryConsumingMailbox()
	if !ok || !p.c.Tag(">") {
		p.c.Reset(m)
		return Mailbox{}, false
	}
	return mbox, true
}

// tryConsumingSourceRoute matches `at-domain ("," at-domain)* ":"`.
func (p *cmdParser) tryConsumingSourceRoute() bool {
	m := p.c.Mark()
	if !p.consumeAtDomain() {
		return false
	}
	for {
		inner := p.c.Mark()
		if !p.c.Tag(",") {
			break
		}
		if !p.consumeAtDomain() {
			p.c.Reset(inner)
			break
		}
	}
	if !p.c.Tag(":") {
		p.c.Reset(m)
		return false
	}
	return true
}

func (p *cmdParser) consumeAtDomain() bool {
	m := p.c.Mark()
	if !p.c.Tag("@") {
		return false
	}
	if _, ok := p.tryConsumingDomain(); !ok {
		p.c.Reset(m)
		return false
	}
	return true
}

// tryConsumingMailbox matches `local-part "@" domain-part`.
func (p *cmdParser) tryConsumingMailbox() (Mailbox, bool) {
	m := p.c.Mark()
	lp, ok := p.tryConsumingLocalPart()
	if !ok {
		return Mailbox{}, false
	}
	if !p.c.Tag("@") {
		p.c.Reset(m)
		return Mailbox{}, false
	}
	dp, ok := p.tryConsumingDomainPart()
	if !ok {
		p.c.Reset(m)
		return Mailbox{}, false
	}
	return Mailbox{LocalPart: lp, Domain: dp}, true
}

func (p *cmdParser) tryConsumingLocalPart() (LocalPart, bool) {
	if s, ok := p.tryConsumingDotString(); ok {
		return LocalPart{Value: s}, true
	}
	if s, ok := p.tryConsumingQuotedString(); ok {
		return LocalPart{Value: s, Quoted: true}, true
	}
	return LocalPart{}, false
}

// tryConsumingDotString matches `atom ("." atom)*`.
func (p *cmdParser) tryConsumingDotString() (string, bool) {
	m := p.c.Mark()
	if _, ok := p.c.TakeWhile1(rfc5322.IsAText); !ok {
		return "", false
	}
	for {
		dot := p.c.Mark()
		if !p.c.Tag(".") {
			break
		}
		if _, ok := p.c.TakeWhile1(rfc5322.IsAText); !ok {
			p.c.Reset(dot)
			break
		}
	}
	return string(p.c.Since(m)), true
}

// tryConsumingQuotedString matches a double-quoted run of qtext bytes
// and quoted pairs, returning the decoded content.
func (p *cmdParser) tryConsumingQuotedString() (string, bool) {
	m := p.c.Mark()
	if !p.c.Tag("\"") {
		return "", false
	}
	var b []byte
	for {
		if p.c.Tag("\\") {
			c, ok := p.c.TakeByte(isQuotedPairByte)
			if !ok {
				p.c.Reset(m)
				return "", false
			}
			b = append(b, c)
			continue
		}
		c, ok := p.c.TakeByte(isQtextSMTP)
		if !ok {
			break
		}
		b = append(b, c)
	}
	if !p.c.Tag("\"") {
		p.c.Reset(m)
		return "", false
	}
	return string(b), true
}

// tryConsumingDomainPart matches a domain or an address literal. The
// two never share a first byte, so no backtracking happens between
// them.
func (p *cmdParser) tryConsumingDomainPart() (DomainPart, bool) {
	if d, ok := p.tryConsumingDomain(); ok {
		return DomainPart{Domain: d}, true
	}
	if lit, ok := p.tryConsumingAddressLiteral(); ok {
		return DomainPart{Literal: lit}, true
	}
	return DomainPart{}, false
}

// tryConsumingDomain matches `label ("." label)*`.
func (p *cmdParser) tryConsumingDomain() (string, bool) {
	m := p.c.Mark()
	if !p.consumeLabel() {
		return "", false
	}
	for {
		dot := p.c.Mark()
		if !p.c.Tag(".") {
			break
		}
		if !p.consumeLabel() {
			p.c.Reset(dot)
			break
		}
	}
	return string(p.c.Since(m)), true
}

// consumeLabel matches an alphanumeric byte optionally followed by a
// run of alphanumerics and hyphens. A run ending in a hyphen does not
// count; the label then stops after its first byte.
func (p *cmdParser) consumeLabel() bool {
	if _, ok := p.c.TakeByte(rfc5234.IsAlphanumeric); !ok {
		return false
	}
	m := p.c.Mark()
	if run, ok := p.c.TakeWhile1(isLdh); ok && run[len(run)-1] == '-' {
		p.c.Reset(m)
	}
	return true
}

// tryConsumingAddressLiteral matches `"[" (IPv4 | IPv6 | tagged) "]"`.
// The first inner form to match is committed to; if the closing
// bracket then fails, the whole literal fails rather than trying the
// remaining forms.
func (p *cmdParser) tryConsumingAddressLiteral() (AddressLiteral, bool) {
	m := p.c.Mark()
	if !p.c.Tag("[") {
		return AddressLiteral{}, false
	}
	lit, ok := p.tryConsumingInnerLiteral()
	if !ok || !p.c.Tag("]") {
		p.c.Reset(m)
		return AddressLiteral{}, false
	}
	return lit, true
}

func (p *cmdParser) tryConsumingInnerLiteral() (AddressLiteral, bool) {
	if ip, ok := p.tryConsumingIPv4(); ok {
		return AddressLiteral{Kind: LiteralIPAddr, IP: ip}, true
	}
	if ip, ok := p.tryConsumingIPv6(); ok {
		return AddressLiteral{Kind: LiteralIPAddr, IP: ip}, true
	}
	if tag, text, ok := p.tryConsumingTaggedLiteral(); ok {
		return AddressLiteral{Kind: LiteralTagged, Tag: tag, Text: text}, true
	}
	return AddressLiteral{}, false
}

// parseInnerLiteral matches a whole byte string against the formal
// inner literal forms.
func parseInnerLiteral(inner []byte) (AddressLiteral, bool) {
	p := newCmdParser(inner)
	lit, ok := p.tryConsumingInnerLiteral()
	if !ok || !p.c.Empty() {
		return AddressLiteral{}, false
	}
	return lit, true
}

// tryConsumingIPv4 matches four dot-separated decimal octets. Octets
// may carry leading zeros, which is why this is not net.ParseIP.
func (p *cmdParser) tryConsumingIPv4() (net.IP, bool) {
	m := p.c.Mark()
	var octets [4]byte
	for i := range octets {
		if i > 0 && !p.c.Tag(".") {
			p.c.Reset(m)
			return nil, false
		}
		n, ok := p.consumeSnum()
		if !ok {
			p.c.Reset(m)
			return nil, false
		}
		octets[i] = n
	}
	return net.IPv4(octets[0], octets[1], octets[2], octets[3]), true
}

// consumeSnum matches one to three decimal digits valued 0 to 255.
func (p *cmdParser) consumeSnum() (byte, bool) {
	m := p.c.Mark()
	digits, ok := p.c.TakeWhileMN(1, 3, rfc5234.IsDigit)
	if !ok {
		return 0, false
	}
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}
	if n > 255 {
		p.c.Reset(m)
		return 0, false
	}
	return byte(n), true
}

// tryConsumingIPv6 matches the "IPv6:" tag (any case) followed by a
// run of hex, colon and dot bytes that parses as an IPv6 address. A
// dotted quad without a colon is not one, even though net.ParseIP
// would take it.
func (p *cmdParser) tryConsumingIPv6() (net.IP, bool) {
	m := p.c.Mark()
	if !p.c.TagFold("IPv6:") {
		return nil, false
	}
	text, ok := p.c.TakeWhile1(isIPv6Text)
	if !ok {
		p.c.Reset(m)
		return nil, false
	}
	if !containsColon(text) {
		p.c.Reset(m)
		return nil, false
	}
	ip := net.ParseIP(string(text))
	if ip == nil {
		p.c.Reset(m)
		return nil, false
	}
	return ip, true
}

// tryConsumingTaggedLiteral matches `ldh-str ":" dcontent+`.
func (p *cmdParser) tryConsumingTaggedLiteral() (string, string, bool) {
	m := p.c.Mark()
	tag, ok := p.tryConsumingLdhStr()
	if !ok {
		return "", "", false
	}
	if !p.c.Tag(":") {
		p.c.Reset(m)
		return "", "", false
	}
	text, ok := p.c.TakeWhile1(isDcontent)
	if !ok {
		p.c.Reset(m)
		return "", "", false
	}
	return tag, string(text), true
}

// tryConsumingLdhStr matches a run of alphanumerics and hyphens not
// ending in a hyphen.
func (p *cmdParser) tryConsumingLdhStr() (string, bool) {
	m := p.c.Mark()
	run, ok := p.c.TakeWhile1(isLdh)
	if !ok {
		return "", false
	}
	if run[len(run)-1] == '-' {
		p.c.Reset(m)
		return "", false
	}
	return string(run), true
}

func containsColon(b []byte) bool {
	for _, c := range b {
		if c == ':' {
			return true
		}
	}
	return false
}

// isEsmtpValue reports whether c may appear in an ESMTP parameter
// value: printable ASCII except "=".
func isEsmtpValue(c byte) bool {
	return (33 <= c && c <= 60) || (62 <= c && c <= 126)
}

// isQtextSMTP reports whether c may appear unescaped inside a quoted
// string: space and printable ASCII except `"` and `\`.
func isQtextSMTP(c byte) bool {
	return (32 <= c && c <= 33) || (35 <= c && c <= 91) || (93 <= c && c <= 126)
}

// isQuotedPairByte reports whether c may follow a backslash inside a
// quoted string: space and all printable ASCII.
func isQuotedPairByte(c byte) bool {
	return 32 <= c && c <= 126
}

// isDcontent reports whether c may appear inside an address literal:
// printable ASCII except "[", "\" and "]".
func isDcontent(c byte) bool {
	return (33 <= c && c <= 90) || (94 <= c && c <= 126)
}

func isLdh(c byte) bool {
	return rfc5234.IsAlphanumeric(c) || c == '-'
}

func isIPv6Text(c byte) bool {
	return rfc5234.IsHexDig(c) || c == ':' || c == '.'
}

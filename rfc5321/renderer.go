package rfc5321

// AppendReversePath appends the angle-bracketed form of rp to b:
// "<>" for the null reverse-path.
func AppendReversePath(b []byte, rp ReversePath) []byte {
	if rp.Null {
		return append(b, '<', '>')
	}
	b = append(b, '<')
	b = AppendMailbox(b, rp.Mailbox)
	return append(b, '>')
}

// AppendPath appends the angle-bracketed form of path to b:
// "<postmaster>" for the postmaster special case.
func AppendPath(b []byte, path Path) []byte {
	if path.PostMaster {
		return append(b, "<postmaster>"...)
	}
	b = append(b, '<')
	b = AppendMailbox(b, path.Mailbox)
	return append(b, '>')
}

// AppendMailbox appends local@domain to b.
func AppendMailbox(b []byte, m Mailbox) []byte {
	b = AppendLocalPart(b, m.LocalPart)
	b = append(b, '@')
	return AppendDomainPart(b, m.Domain)
}

// AppendLocalPart appends the dot-string verbatim, or the re-escaped
// quoted form when the local part was quoted.
func AppendLocalPart(b []byte, lp LocalPart) []byte {
	if !lp.Quoted {
		return append(b, lp.Value...)
	}
	return appendQuotedLocalPart(b, lp.Value)
}

// appendQuotedLocalPart wraps v in double quotes, escaping only `"`
// and `\`. Bytes that arrived through other quoted pairs render
// unescaped.
func appendQuotedLocalPart(b []byte, v string) []byte {
	b = append(b, '"')
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '"' || c == '\\' {
			b = append(b, '\\')
		}
		b = append(b, c)
	}
	return append(b, '"')
}

// AppendDomainPart appends the dot-joined labels, or the bracketed
// literal.
func AppendDomainPart(b []byte, d DomainPart) []byte {
	if d.IsLiteral() {
		return AppendAddressLiteral(b, d.Literal)
	}
	return append(b, d.Domain...)
}

// AppendAddressLiteral appends the bracketed form to b: "[a.b.c.d]"
// for IPv4, "[IPv6:...]" for IPv6, "[tag:text]" for tagged literals
// and "[text]" for free-form ones. IP addresses render canonically,
// so octet leading zeros and IPv6 case or zero-run spellings do not
// survive a round trip.
func AppendAddressLiteral(b []byte, l AddressLiteral) []byte {
	b = append(b, '[')
	switch l.Kind {
	case LiteralIPAddr:
		if l.IP.To4() == nil {
			b = append(b, "IPv6:"...)
		}
		b = append(b, l.IP.String()...)
	case LiteralTagged:
		b = append(b, l.Tag...)
		b = append(b, ':')
		b = append(b, l.Text...)
	default:
		b = append(b, l.Text...)
	}
	return append(b, ']')
}

// AppendEsmtpParam appends name or name=value to b.
func AppendEsmtpParam(b []byte, param EsmtpParam) []byte {
	b = append(b, param.Name...)
	if param.Value != "" {
		b = append(b, '=')
		b = append(b, param.Value...)
	}
	return b
}

// AppendEsmtpParams appends the parameters to b, space-joined, in
// order.
func AppendEsmtpParams(b []byte, params []EsmtpParam) []byte {
	for i, param := range params {
		if i > 0 {
			b = append(b, ' ')
		}
		b = AppendEsmtpParam(b, param)
	}
	return b
}

func (rp ReversePath) String() string {
	return string(AppendReversePath(nil, rp))
}

func (path Path) String() string {
	return string(AppendPath(nil, path))
}

func (m Mailbox) String() string {
	return string(AppendMailbox(nil, m))
}

func (lp LocalPart) String() string {
	return string(AppendLocalPart(nil, lp))
}

func (d DomainPart) String() string {
	return string(AppendDomainPart(nil, d))
}

func (l AddressLiteral) String() string {
	return string(AppendAddressLiteral(nil, l))
}

func (param EsmtpParam) String() string {
	return string(AppendEsmtpParam(nil, param))
}

package rfc5321

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMailCommand(t *testing.T) {
	bob := Mailbox{
		LocalPart: LocalPart{Value: "bob"},
		Domain:    DomainPart{Domain: "example.org"},
	}
	cases := []struct {
		input  string
		path   ReversePath
		params []EsmtpParam
		err    bool
	}{
		{input: "MAIL FROM:<>", path: ReversePath{Null: true}},
		{input: "mail from:<>", path: ReversePath{Null: true}},
		{input: "MAIL FROM:<bob@example.org>", path: ReversePath{Mailbox: bob}},
		{
			input:  "MAIL FROM:<bob@example.org> SIZE=1000 BODY=8BITMIME",
			path:   ReversePath{Mailbox: bob},
			params: []EsmtpParam{{Name: "SIZE", Value: "1000"}, {Name: "BODY", Value: "8BITMIME"}},
		},
		{
			input:  "MAIL FROM:<> AUTH=<> SMTPUTF8",
			path:   ReversePath{Null: true},
			params: []EsmtpParam{{Name: "AUTH", Value: "<>"}, {Name: "SMTPUTF8"}},
		},
		{
			input:  "MAIL FROM:<bob@example.org> SIZE=1 SIZE=2",
			path:   ReversePath{Mailbox: bob},
			params: []EsmtpParam{{Name: "SIZE", Value: "1"}, {Name: "SIZE", Value: "2"}},
		},
		{
			input: "MAIL FROM:<@relay.example,@other.example:bob@example.org>",
			path:  ReversePath{Mailbox: bob},
		},
		{
			input: "MAIL FROM:<\"bob smith\"@example.org>",
			path: ReversePath{Mailbox: Mailbox{
				LocalPart: LocalPart{Value: "bob smith", Quoted: true},
				Domain:    DomainPart{Domain: "example.org"},
			}},
		},
		{
			input: "MAIL FROM:<bob@[192.0.2.1]>",
			path: ReversePath{Mailbox: Mailbox{
				LocalPart: LocalPart{Value: "bob"},
				Domain: DomainPart{Literal: AddressLiteral{
					Kind: LiteralIPAddr,
					IP:   net.IPv4(192, 0, 2, 1),
				}},
			}},
		},
		{input: "", err: true},
		{input: "MAIL FROM:", err: true},
		{input: "MAIL FROM:bob@example.org", err: true},
		{input: "MAIL FROM:<bob@example.org", err: true},
		{input: "MAIL FROM:<bob@example.org> ", err: true},
		{input: "MAIL FROM:<bob@example.org> ?", err: true},
		{input: "MAIL FROM:<bob@example.org> SIZE=", err: true},
		{input: "MAIL FROM:<bob@example.org>SIZE=1000", err: true},
		{input: "MAIL FROM:<postmaster>", err: true},
		{input: "MAIL FROM: <bob@example.org>", err: true},
		{input: "RCPT TO:<bob@example.org>", err: true},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			path, params, err := ParseMailCommand(c.input)
			if c.err {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.path, path)
			assert.Equal(t, c.params, params)
		})
	}
}

func TestParseRcptCommand(t *testing.T) {
	cases := []struct {
		input  string
		path   Path
		params []EsmtpParam
		err    bool
	}{
		{input: "RCPT TO:<postmaster>", path: Path{PostMaster: true}},
		{input: "RCPT TO:<POSTMASTER>", path: Path{PostMaster: true}},
		{input: "rcpt to:<PostMaster>", path: Path{PostMaster: true}},
		{
			input: "RCPT TO:<postmaster@example.org>",
			path: Path{Mailbox: Mailbox{
				LocalPart: LocalPart{Value: "postmaster"},
				Domain:    DomainPart{Domain: "example.org"},
			}},
		},
		{
			input: "RCPT TO:<alice@example.com> NOTIFY=SUCCESS,FAILURE",
			path: Path{Mailbox: Mailbox{
				LocalPart: LocalPart{Value: "alice"},
				Domain:    DomainPart{Domain: "example.com"},
			}},
			params: []EsmtpParam{{Name: "NOTIFY", Value: "SUCCESS,FAILURE"}},
		},
		{
			input: "RCPT TO:<@relay.example:alice@example.com>",
			path: Path{Mailbox: Mailbox{
				LocalPart: LocalPart{Value: "alice"},
				Domain:    DomainPart{Domain: "example.com"},
			}},
		},
		{
			input: "RCPT TO:<bob@[IPv6:2001:db8::1]>",
			path: Path{Mailbox: Mailbox{
				LocalPart: LocalPart{Value: "bob"},
				Domain: DomainPart{Literal: AddressLiteral{
					Kind: LiteralIPAddr,
					IP:   net.ParseIP("2001:db8::1"),
				}},
			}},
		},
		{
			input: "RCPT TO:<bob@[x400:cn=bob,dc=example,dc=org]>",
			path: Path{Mailbox: Mailbox{
				LocalPart: LocalPart{Value: "bob"},
				Domain: DomainPart{Literal: AddressLiteral{
					Kind: LiteralTagged,
					Tag:  "x400",
					Text: "cn=bob,dc=example,dc=org",
				}},
			}},
		},
		{input: "RCPT TO:<>", err: true},
		{input: "RCPT TO:<bob@[somewhere]>", err: true},
		{input: "RCPT TO:<bob@foo-.example.org>", err: true},
		{input: "RCPT TO:<bob@example.org> extra garbage!", err: true},
		{input: "RCPT TO:<postmaster> <postmaster>", err: true},
		{input: "MAIL FROM:<>", err: true},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			path, params, err := ParseRcptCommand(c.input)
			if c.err {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.path, path)
			assert.Equal(t, c.params, params)
		})
	}
}

func TestParseEsmtpParams(t *testing.T) {
	cases := []struct {
		input  string
		params []EsmtpParam
		err    bool
	}{
		{input: ""},
		{input: "SIZE=1000", params: []EsmtpParam{{Name: "SIZE", Value: "1000"}}},
		{
			input:  "SIZE=1000 BODY=8BITMIME",
			params: []EsmtpParam{{Name: "SIZE", Value: "1000"}, {Name: "BODY", Value: "8BITMIME"}},
		},
		{
			input:  "A \tB\t\tC",
			params: []EsmtpParam{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		},
		{input: "size=1000", params: []EsmtpParam{{Name: "size", Value: "1000"}}},
		{input: "8BITMIME", params: []EsmtpParam{{Name: "8BITMIME"}}},
		{input: "=1000", err: true},
		{input: "SIZE=", err: true},
		{input: "SIZE==1000", err: true},
		{input: "SIZE=1000 ", err: true},
		{input: " SIZE=1000", err: true},
		{input: "SIZE=10 00", err: false, params: []EsmtpParam{{Name: "SIZE", Value: "10"}, {Name: "00"}}},
		{input: "MT-PRIORITY=3", err: true},
		{input: "SIZE=1000\x00", err: true},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			params, err := ParseEsmtpParams(c.input)
			if c.err {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.params, params)
		})
	}
}

func TestParseMailbox(t *testing.T) {
	cases := []struct {
		input string
		mbox  Mailbox
		err   bool
	}{
		{
			input: "bob.smith@example.org",
			mbox: Mailbox{
				LocalPart: LocalPart{Value: "bob.smith"},
				Domain:    DomainPart{Domain: "example.org"},
			},
		},
		{
			input: "bob+tag@sub.example.org",
			mbox: Mailbox{
				LocalPart: LocalPart{Value: "bob+tag"},
				Domain:    DomainPart{Domain: "sub.example.org"},
			},
		},
		{
			input: "\"a\\\"b\\\\c\"@example.org",
			mbox: Mailbox{
				LocalPart: LocalPart{Value: "a\"b\\c", Quoted: true},
				Domain:    DomainPart{Domain: "example.org"},
			},
		},
		{
			input: "bob@[192.000.002.001]",
			mbox: Mailbox{
				LocalPart: LocalPart{Value: "bob"},
				Domain: DomainPart{Literal: AddressLiteral{
					Kind: LiteralIPAddr,
					IP:   net.IPv4(192, 0, 2, 1),
				}},
			},
		},
		{input: "<bob@example.org>", err: true},
		{input: "bob", err: true},
		{input: "bob@", err: true},
		{input: "@example.org", err: true},
		{input: "bob smith@example.org", err: true},
		{input: "bob@example.org ", err: true},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			mbox, err := ParseMailbox(c.input)
			if c.err {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.mbox, mbox)
		})
	}
}

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"bob@example.org", true},
		{"bob.smith@example.org", true},
		{"\"bob smith\"@example.org", true},
		{"bob@[192.0.2.1]", true},
		{"bob@[IPv6:2001:db8::1]", true},
		{"bob@[x400:cn=bob]", true},
		{"BOB@EXAMPLE.ORG", true},
		{"b@x", true},
		{"", false},
		{"bob", false},
		{"bob@", false},
		{"@example.org", false},
		{".bob@example.org", false},
		{"bob.@example.org", false},
		{"bob..smith@example.org", false},
		{"bob@example..org", false},
		{"bob@-example.org", false},
		{"bob@example-.org", false},
		{"bob@exa_mple.org", false},
		{"bob@foo-.example.org", false},
		{"bob@[somewhere]", false},
		{"bob@[192.0.2.256]", false},
		{"bob@[192.0.2.1", false},
		{"bob@example.org\r\n", false},
		{"\"bob\nsmith\"@example.org", false},
		{"böb@example.org", false},
		{"bob@exämple.org", false},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			assert.Equal(t, c.ok, ValidateAddress(c.input))
			assert.Equal(t, c.ok, ValidateAddressBytes([]byte(c.input)))
		})
	}
}

func TestParseAddressLiteral(t *testing.T) {
	cases := []struct {
		input string
		lit   AddressLiteral
		err   bool
	}{
		{input: "[192.0.2.1]", lit: AddressLiteral{Kind: LiteralIPAddr, IP: net.IPv4(192, 0, 2, 1)}},
		{input: "[192.000.002.001]", lit: AddressLiteral{Kind: LiteralIPAddr, IP: net.IPv4(192, 0, 2, 1)}},
		{input: "[IPv6:2001:db8::1]", lit: AddressLiteral{Kind: LiteralIPAddr, IP: net.ParseIP("2001:db8::1")}},
		{input: "[IPV6:2001:DB8::1]", lit: AddressLiteral{Kind: LiteralIPAddr, IP: net.ParseIP("2001:db8::1")}},
		{input: "[IPv6:::1]", lit: AddressLiteral{Kind: LiteralIPAddr, IP: net.ParseIP("::1")}},
		{
			input: "[x400:cn=bob,dc=example,dc=org]",
			lit:   AddressLiteral{Kind: LiteralTagged, Tag: "x400", Text: "cn=bob,dc=example,dc=org"},
		},
		{
			input: "[IPv6:1.2.3.4]",
			lit:   AddressLiteral{Kind: LiteralTagged, Tag: "IPv6", Text: "1.2.3.4"},
		},
		{
			input: "[IPv6:zzz]",
			lit:   AddressLiteral{Kind: LiteralTagged, Tag: "IPv6", Text: "zzz"},
		},
		{
			// The IPv6 form matches a prefix and commits, so the
			// tagged form never gets a look at the whole text.
			input: "[IPv6:2001:db8::1x]",
			lit:   AddressLiteral{Kind: LiteralFreeForm, Text: "IPv6:2001:db8::1x"},
		},
		{input: "[somewhere]", lit: AddressLiteral{Kind: LiteralFreeForm, Text: "somewhere"}},
		{input: "[a b]", lit: AddressLiteral{Kind: LiteralFreeForm, Text: "a b"}},
		{input: "[a]b]", lit: AddressLiteral{Kind: LiteralFreeForm, Text: "a]b"}},
		{input: "[192.0.2.256]", lit: AddressLiteral{Kind: LiteralFreeForm, Text: "192.0.2.256"}},
		{input: "[]", lit: AddressLiteral{Kind: LiteralFreeForm}},
		{input: "", err: true},
		{input: "[", err: true},
		{input: "]", err: true},
		{input: "192.0.2.1", err: true},
		{input: "[192.0.2.1", err: true},
		{input: "192.0.2.1]", err: true},
		{input: " [192.0.2.1]", err: true},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			lit, err := ParseAddressLiteral(c.input)
			if c.err {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.lit, lit)
		})
	}
}

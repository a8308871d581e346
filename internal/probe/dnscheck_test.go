package probe

import (
	"context"
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	ips   []net.IP
	ipErr error
	cname string
	ns    []*net.NS
}

func (f fakeResolver) LookupIP(context.Context, string, string) ([]net.IP, error) {
	return f.ips, f.ipErr
}

func (f fakeResolver) LookupCNAME(context.Context, string) (string, error) {
	if f.cname == "" {
		return "", errors.New("no cname")
	}
	return f.cname, nil
}

func (f fakeResolver) LookupNS(context.Context, string) ([]*net.NS, error) {
	if len(f.ns) == 0 {
		return nil, errors.New("no ns")
	}
	return f.ns, nil
}

func TestCheckDNS_Classes(t *testing.T) {
	notFound := &net.DNSError{Err: "no such host", Name: "x", IsNotFound: true}
	cases := []struct {
		name string
		r    fakeResolver
		host string
		want DNSClass
	}{
		{"resolves", fakeResolver{ips: []net.IP{net.ParseIP("10.0.0.1")}, cname: "edge.example.net."}, "example.com", DNSResolves},
		{"nxdomain", fakeResolver{ipErr: notFound}, "nope.example", DNSNXDomain},
		{"ns_only", fakeResolver{ipErr: notFound, ns: []*net.NS{{Host: "ns1.example."}}}, "example.com", DNSNoARecord},
		{"servfail", fakeResolver{ipErr: &net.DNSError{Err: "server misbehaving", IsTemporary: true}}, "example.com", DNSServFail},
		{"invalid", fakeResolver{}, "https://example.com", DNSInvalidName},
		{"empty", fakeResolver{}, "  ", DNSInvalidName},
	}
	for _, c := range cases {
		got := checkDNS(context.Background(), c.r, c.host)
		if got.Class != c.want {
			t.Fatalf("%s: want %s got %s (%+v)", c.name, c.want, got.Class, got)
		}
	}
}

func TestCheckDNS_CollectsDetails(t *testing.T) {
	r := fakeResolver{
		ips:   []net.IP{net.ParseIP("10.0.0.1")},
		cname: "edge.example.net.",
		ns:    []*net.NS{{Host: "ns1.example."}, {Host: "ns2.example."}},
	}
	s := checkDNS(context.Background(), r, "example.com")
	if s.CNAME != "edge.example.net" {
		t.Fatalf("cname not trimmed: %q", s.CNAME)
	}
	if len(s.Nameservers) != 2 || s.Nameservers[0] != "ns1.example" {
		t.Fatalf("unexpected nameservers %v", s.Nameservers)
	}
}

func TestHostOf(t *testing.T) {
	if got := hostOf("https://Example.com:8443/path"); got != "Example.com" {
		t.Fatalf("hostOf url: %q", got)
	}
	if got := hostOf("not a url"); got != "not a url" {
		t.Fatalf("hostOf fallback: %q", got)
	}
}

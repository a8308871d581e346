package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSServFail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

type DNSStatus struct {
	Domain        string
	HasAOrAAAA    bool
	IPs           []net.IP
	CNAME         string
	HasNS         bool
	Nameservers   []string
	Class         DNSClass
	ResolverError string
}

// DNSTimeout bounds the whole diagnosis, all lookups included.
var DNSTimeout = 3 * time.Second

// Resolver is the subset of *net.Resolver the diagnosis uses.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// CheckDNS explains why a host may be unreachable using the OS resolver.
func CheckDNS(ctx context.Context, domain string) DNSStatus {
	return checkDNS(ctx, &net.Resolver{}, domain)
}

func checkDNS(ctx context.Context, r Resolver, domain string) DNSStatus {
	s := DNSStatus{Domain: strings.TrimSpace(domain)}
	if s.Domain == "" || strings.Contains(s.Domain, "://") {
		s.Class = DNSInvalidName
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, DNSTimeout)
	defer cancel()

	ips, err := r.LookupIP(ctx, "ip", s.Domain)
	if err == nil && len(ips) > 0 {
		s.HasAOrAAAA = true
		s.IPs = ips
		s.Class = DNSResolves
	} else if err != nil {
		var de *net.DNSError
		s.ResolverError = err.Error()
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServFail
			}
		}
	}

	if cname, err := r.LookupCNAME(ctx, s.Domain); err == nil && !strings.EqualFold(cname, s.Domain+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	if ns, err := r.LookupNS(ctx, s.Domain); err == nil && len(ns) > 0 {
		s.HasNS = true
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		if s.Class == DNSNXDomain {
			s.Class = DNSNoARecord
		}
	}

	if s.Class == "" {
		switch {
		case s.HasAOrAAAA:
			s.Class = DNSResolves
		case s.HasNS:
			s.Class = DNSNoARecord
		case s.ResolverError != "":
			s.Class = DNSServFail
		default:
			s.Class = DNSNXDomain
		}
	}
	return s
}

// hostOf pulls the hostname from a URL string.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}

// Package dns resolves hostnames found in the address column of ingested
// rows. It is only consulted when hostname resolution is enabled in the run
// configuration; manual entry never goes through it.
package dns

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/miekg/dns"

	"project/customer-loader/netaddr"
	"project/customer-loader/record"
)

const dnsTimeout = 5 * time.Second

// Resolver performs A lookups against a single configured server.
type Resolver struct {
	client *dns.Client
	server string
}

// NewResolver creates a Resolver querying server (host:port).
func NewResolver(server string) *Resolver {
	return &Resolver{
		client: &dns.Client{Timeout: dnsTimeout},
		server: server,
	}
}

// ResolveIPv4 returns the first A record published for host.
func (r *Resolver) ResolveIPv4(host string) (string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)
	m.RecursionDesired = true

	resp, _, err := r.client.Exchange(m, r.server)
	if err != nil {
		return "", fmt.Errorf("DNS query error for %s: %w", host, err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty DNS response for %s", host)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("DNS response failed for %s. Rcode: %s", host, dns.RcodeToString[resp.Rcode])
	}

	for _, ans := range resp.Answer {
		if a, ok := ans.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", fmt.Errorf("no A records for %s", host)
}

// ResolveRows substitutes address fields that are not IPv4 literals with the
// first A record of the hostname, in place. A failed lookup leaves the field
// untouched so normal validation rejects it later.
func ResolveRows(rows []record.Raw, r *Resolver, logger *slog.Logger) {
	for i := range rows {
		addr := strings.TrimSpace(rows[i].IP)
		if addr == "" || netaddr.ValidIP(addr) {
			continue
		}
		ip, err := r.ResolveIPv4(addr)
		if err != nil {
			logger.Warn("hostname resolution failed", "line", rows[i].Line, "host", addr, "err", err.Error())
			continue
		}
		logger.Info("resolved hostname", "line", rows[i].Line, "host", addr, "ip", ip)
		rows[i].IP = ip
	}
}

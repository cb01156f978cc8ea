// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"context"
	"net"

	"github.com/miekg/dns"
)

// maxResponseSizeUDP is the EDNS(0) maximum response size requested by
// [ClientResolver] and is consistent with what the standard library uses.
const maxResponseSizeUDP = 1232

// ClientResolver implements [Resolver] on top of [github.com/miekg/dns],
// sending every query to one fixed server. It suits callers that must
// discover through a specific DNS server instead of the platform
// configuration.
//
// Lookup outcomes are reported with the same [*net.DNSError] vocabulary
// as [SystemResolver], so the two are interchangeable.
type ClientResolver struct {
	// Client performs the exchanges. Nil means a zero [dns.Client].
	Client *dns.Client

	// Server is the "host:port" address queried.
	Server string
}

// NewClientResolver returns a [ClientResolver] querying server, given
// as a "host:port" address.
func NewClientResolver(server string) *ClientResolver {
	return &ClientResolver{Client: new(dns.Client), Server: server}
}

// ResolveSrv implements [Resolver]. Targets keep their trailing dot,
// like the targets returned by [*net.Resolver].
func (r *ClientResolver) ResolveSrv(ctx context.Context, name string) ([]*net.SRV, error) {
	answers, err := r.exchange(ctx, name, dns.TypeSRV)
	if err != nil {
		return nil, err
	}
	out := make([]*net.SRV, 0, len(answers))
	for _, rr := range answers {
		if srv, ok := rr.(*dns.SRV); ok {
			out = append(out, &net.SRV{
				Target:   srv.Target,
				Port:     srv.Port,
				Priority: srv.Priority,
				Weight:   srv.Weight,
			})
		}
	}
	return out, nil
}

// ResolveTxt implements [Resolver]. Each record's character-strings are
// returned unjoined, in wire order.
func (r *ClientResolver) ResolveTxt(ctx context.Context, name string) ([][]string, error) {
	answers, err := r.exchange(ctx, name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(answers))
	for _, rr := range answers {
		if txt, ok := rr.(*dns.TXT); ok {
			out = append(out, txt.Txt)
		}
	}
	return out, nil
}

func (r *ClientResolver) exchange(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	client := r.Client
	if client == nil {
		client = new(dns.Client)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(maxResponseSizeUDP, false)

	resp, _, err := client.ExchangeContext(ctx, msg, r.Server)
	if err != nil {
		return nil, err
	}

	// Map the RCODE to the error vocabulary of the net package.
	switch {
	case resp.Rcode == dns.RcodeNameError:
		return nil, &net.DNSError{
			Err:        "no such host",
			Name:       name,
			Server:     r.Server,
			IsNotFound: true,
		}
	case resp.Rcode != dns.RcodeSuccess:
		return nil, &net.DNSError{
			Err:         "server misbehaving",
			Name:        name,
			Server:      r.Server,
			IsTemporary: resp.Rcode == dns.RcodeServerFailure,
		}
	}

	// Keep the answers matching the question type. A NODATA outcome is
	// reported like NXDOMAIN so that the TXT tolerance rule covers both.
	var answers []dns.RR
	for _, rr := range resp.Answer {
		if rr.Header().Rrtype == qtype {
			answers = append(answers, rr)
		}
	}
	if len(answers) == 0 {
		return nil, &net.DNSError{
			Err:        "no answer from DNS server",
			Name:       name,
			Server:     r.Server,
			IsNotFound: true,
		}
	}
	return answers, nil
}

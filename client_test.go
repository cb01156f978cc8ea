// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

// startDNSServer runs a DNS server on a loopback UDP socket and returns
// its address.
func startDNSServer(t *testing.T, handler dns.Handler) string {
	t.Helper()
	conn := runtimex.PanicOnError1(net.ListenPacket("udp", "127.0.0.1:0"))
	server := &dns.Server{PacketConn: conn, Handler: handler}
	go server.ActivateAndServe()
	t.Cleanup(func() { server.Shutdown() })
	return conn.LocalAddr().String()
}

// seedlistHandler serves the SRV and TXT records of a small fictional
// deployment under server.example.com.
func seedlistHandler() dns.Handler {
	return dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetReply(req)
		q := req.Question[0]
		switch {
		case q.Qtype == dns.TypeSRV && q.Name == "_mongodb._tcp.server.example.com.":
			resp.Answer = append(resp.Answer,
				&dns.SRV{
					Hdr:    dns.RR_Header{Name: q.Name, Rrtype: dns.TypeSRV, Class: dns.ClassINET, Ttl: 60},
					Target: "asdf.example.com.",
					Port:   27017,
				},
				&dns.SRV{
					Hdr:    dns.RR_Header{Name: q.Name, Rrtype: dns.TypeSRV, Class: dns.ClassINET, Ttl: 60},
					Target: "meow.example.com.",
					Port:   27018,
				})
		case q.Qtype == dns.TypeTXT && q.Name == "server.example.com.":
			resp.Answer = append(resp.Answer, &dns.TXT{
				Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
				Txt: []string{"replicaSet=rs", "0"},
			})
		case q.Name == "nodata.example.com.":
			// NOERROR with an empty answer section.
		default:
			resp.SetRcode(req, dns.RcodeNameError)
		}
		_ = w.WriteMsg(resp)
	})
}

func TestClientResolverResolveSrv(t *testing.T) {
	addr := startDNSServer(t, seedlistHandler())
	resolver := NewClientResolver(addr)

	addrs, err := resolver.ResolveSrv(context.Background(), "_mongodb._tcp.server.example.com")
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	require.Equal(t, "asdf.example.com.", addrs[0].Target)
	require.Equal(t, uint16(27017), addrs[0].Port)
	require.Equal(t, "meow.example.com.", addrs[1].Target)
	require.Equal(t, uint16(27018), addrs[1].Port)
}

func TestClientResolverResolveTxt(t *testing.T) {
	addr := startDNSServer(t, seedlistHandler())
	resolver := NewClientResolver(addr)

	records, err := resolver.ResolveTxt(context.Background(), "server.example.com")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"replicaSet=rs", "0"}}, records)
}

func TestClientResolverNXDomain(t *testing.T) {
	addr := startDNSServer(t, seedlistHandler())
	resolver := NewClientResolver(addr)

	_, err := resolver.ResolveTxt(context.Background(), "missing.example.com")
	var dnsErr *net.DNSError
	require.ErrorAs(t, err, &dnsErr)
	require.True(t, dnsErr.IsNotFound)
}

func TestClientResolverNoData(t *testing.T) {
	addr := startDNSServer(t, seedlistHandler())
	resolver := NewClientResolver(addr)

	_, err := resolver.ResolveTxt(context.Background(), "nodata.example.com")
	var dnsErr *net.DNSError
	require.ErrorAs(t, err, &dnsErr)
	require.True(t, dnsErr.IsNotFound)
}

func TestClientResolverServerFailure(t *testing.T) {
	addr := startDNSServer(t, dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetRcode(req, dns.RcodeServerFailure)
		_ = w.WriteMsg(resp)
	}))
	resolver := NewClientResolver(addr)

	_, err := resolver.ResolveSrv(context.Background(), "_mongodb._tcp.server.example.com")
	var dnsErr *net.DNSError
	require.ErrorAs(t, err, &dnsErr)
	require.False(t, dnsErr.IsNotFound)
	require.True(t, dnsErr.IsTemporary)
}

func TestResolveThroughClientResolver(t *testing.T) {
	addr := startDNSServer(t, seedlistHandler())
	resolver := NewClientResolver(addr)

	out, err := ResolveWith(context.Background(), resolver, "mongodb+srv://server.example.com")
	require.NoError(t, err)
	require.Equal(t, "mongodb://asdf.example.com,meow.example.com:27018/?replicaSet=rs0&tls=true", out)
}

func TestResolveThroughClientResolverNXDomain(t *testing.T) {
	addr := startDNSServer(t, seedlistHandler())
	resolver := NewClientResolver(addr)

	_, err := ResolveWith(context.Background(), resolver, "mongodb+srv://unknown.example.com")
	var dnsErr *net.DNSError
	require.True(t, errors.As(err, &dnsErr))
	require.True(t, dnsErr.IsNotFound)
}

// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"errors"
	"net/url"

	"golang.org/x/net/idna"
)

// Connection-string scheme markers. The direct form lists its hosts
// explicitly; the discovery form names a domain to expand via DNS.
const (
	schemeDirect    = "mongodb://"
	schemeDiscovery = "mongodb+srv://"
)

var (
	// ErrUnknownScheme means the input is neither a mongodb:// nor a
	// mongodb+srv:// connection string.
	ErrUnknownScheme = errors.New("unknown URL scheme")

	// ErrSRVURLWithPort means a mongodb+srv:// URL carries an explicit
	// port number; discovery URLs take their ports from SRV records.
	ErrSRVURLWithPort = errors.New("mongodb+srv URL cannot have port number")
)

// discoveryURL is a parsed mongodb+srv:// connection string.
type discoveryURL struct {
	url *url.URL

	// hostname is the SRV/TXT lookup domain: no port, IDNA-encoded.
	hostname string

	// params holds the query options in their original order.
	params *queryParams
}

func parseDiscoveryURL(input string) (*discoveryURL, error) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, err
	}
	if u.Port() != "" {
		return nil, ErrSRVURLWithPort
	}
	hostname, err := encodeLookupDomain(u.Hostname())
	if err != nil {
		return nil, err
	}
	params, err := parseQueryParams(u.RawQuery)
	if err != nil {
		return nil, err
	}
	return &discoveryURL{url: u, hostname: hostname, params: params}, nil
}

// encodeLookupDomain IDNA-encodes non-ASCII lookup domains, matching
// how WHATWG URL parsers normalize hosts. ASCII domains pass through
// unchanged, like the standard library's own lookup path.
func encodeLookupDomain(hostname string) (string, error) {
	if isASCII(hostname) {
		return hostname, nil
	}
	return idna.Lookup.ToASCII(hostname)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

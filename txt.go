// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"context"
	"errors"
	"net"
	"strings"
)

var (
	// ErrTooManyTXTRecords means the lookup domain has more than one
	// TXT record; the options record must be unique.
	ErrTooManyTXTRecords = errors.New("multiple text records not allowed")

	// ErrTXTUnexpectedOption means a TXT record sets an option outside
	// the allowed set.
	ErrTXTUnexpectedOption = errors.New("text record must only set authSource, replicaSet, or loadBalanced")

	// ErrTXTEmptyOption means a TXT record sets an option to the empty
	// string.
	ErrTXTEmptyOption = errors.New("cannot have empty URI params in DNS TXT record")

	// ErrTXTInvalidLoadBalanced means the loadBalanced option in a TXT
	// record is neither "true" nor "false".
	ErrTXTInvalidLoadBalanced = errors.New("DNS TXT record must contain valid loadBalanced option")
)

// txtOptionAllowed lists the connection options a TXT record may set.
var txtOptionAllowed = map[string]bool{
	"authSource":   true,
	"replicaSet":   true,
	"loadBalanced": true,
}

// lookupOptions resolves the TXT half of the discovery: the single
// optional TXT record on the lookup domain carrying extra connection
// options. A missing record, or a lookup failing with a not-found
// condition, yields an empty option set.
func lookupOptions(ctx context.Context, resolver Resolver, domain string) (*queryParams, error) {
	record := ""
	records, err := resolver.ResolveTxt(ctx, domain)
	switch {
	case err != nil:
		var dnsErr *net.DNSError
		if !errors.As(err, &dnsErr) || !dnsErr.IsNotFound {
			return nil, err
		}
	case len(records) > 1:
		return nil, ErrTooManyTXTRecords
	case len(records) == 1:
		record = strings.Join(records[0], "")
	}

	options, err := parseQueryParams(record)
	if err != nil {
		return nil, err
	}
	for _, pair := range options.pairs {
		if !txtOptionAllowed[pair.key] {
			return nil, ErrTXTUnexpectedOption
		}
	}
	for _, pair := range options.pairs {
		if pair.value == "" {
			return nil, ErrTXTEmptyOption
		}
	}
	if value := options.Get("loadBalanced"); options.Has("loadBalanced") && value != "true" && value != "false" {
		return nil, ErrTXTInvalidLoadBalanced
	}
	return options, nil
}

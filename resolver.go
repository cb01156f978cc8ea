// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"context"
	"net"
)

// Resolver is the DNS capability needed for seedlist discovery.
//
// Implementations report both "no such domain" and "domain exists but
// has no records of the requested type" through [*net.DNSError] values
// whose IsNotFound field is true; TXT resolution treats those outcomes
// as an empty record set rather than as failures.
type Resolver interface {
	// ResolveSrv returns the SRV records for name. The name arrives
	// fully assembled, service and protocol labels included.
	ResolveSrv(ctx context.Context, name string) ([]*net.SRV, error)

	// ResolveTxt returns the TXT records for name, one entry per
	// record, each entry holding the record's character-strings in
	// wire order.
	ResolveTxt(ctx context.Context, name string) ([][]string, error)
}

// DefaultResolver is the capability used by [Resolve] and by
// [ResolveWith] when given a nil resolver.
var DefaultResolver Resolver = &SystemResolver{}

// SystemResolver implements [Resolver] on top of [*net.Resolver].
type SystemResolver struct {
	// Resolver is the underlying resolver. Nil means [net.DefaultResolver].
	Resolver *net.Resolver
}

func (r *SystemResolver) resolver() *net.Resolver {
	if r.Resolver != nil {
		return r.Resolver
	}
	return net.DefaultResolver
}

// ResolveSrv implements [Resolver]. The empty service and protocol make
// the underlying resolver look up name as given instead of assembling
// its own _service._proto prefix.
func (r *SystemResolver) ResolveSrv(ctx context.Context, name string) ([]*net.SRV, error) {
	_, addrs, err := r.resolver().LookupSRV(ctx, "", "", name)
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

// ResolveTxt implements [Resolver]. The standard library hands back
// every record with its character-strings already concatenated, so each
// entry is a single segment.
func (r *SystemResolver) ResolveTxt(ctx context.Context, name string) ([][]string, error) {
	records, err := r.resolver().LookupTXT(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(records))
	for _, record := range records {
		out = append(out, []string{record})
	}
	return out, nil
}

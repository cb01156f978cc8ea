// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Resolve expands a mongodb+srv:// connection string into a mongodb://
// connection string using [DefaultResolver]. A mongodb:// input is
// returned unchanged without any lookup; any other scheme is an error.
func Resolve(ctx context.Context, uri string) (string, error) {
	return ResolveWith(ctx, nil, uri)
}

// ResolveWith is like [Resolve] but uses the given DNS capability. A
// nil resolver selects [DefaultResolver].
func ResolveWith(ctx context.Context, resolver Resolver, uri string) (string, error) {
	if strings.HasPrefix(uri, schemeDirect) {
		return uri, nil
	}
	if !strings.HasPrefix(uri, schemeDiscovery) {
		return "", ErrUnknownScheme
	}
	if resolver == nil {
		resolver = DefaultResolver
	}

	parsed, err := parseDiscoveryURL(uri)
	if err != nil {
		return "", err
	}
	directives, err := parsed.directives()
	if err != nil {
		return "", err
	}

	// The two lookups are independent; run them concurrently and fail
	// the call on whichever errors first.
	var (
		hosts      []string
		txtOptions *queryParams
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		hosts, err = lookupHosts(groupCtx, resolver, parsed.hostname, directives)
		return err
	})
	group.Go(func() error {
		var err error
		txtOptions, err = lookupOptions(groupCtx, resolver, parsed.hostname)
		return err
	})
	if err := group.Wait(); err != nil {
		return "", err
	}

	return buildConnectionString(parsed, hosts, txtOptions), nil
}

// buildConnectionString rewrites the discovery URL into its direct
// form: mongodb scheme, the resolved host list, a defaulted path, and
// the merged option set.
func buildConnectionString(parsed *discoveryURL, hosts []string, txtOptions *queryParams) string {
	out := *parsed.url
	out.Scheme = "mongodb"
	out.Host = strings.Join(hosts, ",")
	if out.Path == "" {
		out.Path = "/"
	}

	params := parsed.params
	// TXT options only fill gaps: anything the URL already sets wins.
	for _, pair := range txtOptions.pairs {
		if !params.Has(pair.key) {
			params.Set(pair.key, pair.value)
		}
	}
	if !params.Has("tls") && !params.Has("ssl") {
		params.Set("tls", "true")
	}
	// Resolution directives are not connection options.
	params.Delete("srvServiceName")
	params.Delete("srvMaxHosts")
	out.RawQuery = params.Encode()

	return out.String()
}

// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// defaultSRVServiceName is the SRV service queried when the URL does
// not name one through srvServiceName.
const defaultSRVServiceName = "mongodb"

// defaultPort is elided from resolved host strings.
const defaultPort = 27017

var (
	// ErrNoAddresses means the SRV lookup returned zero records.
	ErrNoAddresses = errors.New("no addresses found at host")

	// ErrSRVHostMismatch means an SRV target points outside the parent
	// domain of the lookup domain.
	ErrSRVHostMismatch = errors.New("server record does not share hostname with parent URI")
)

// srvDirectives are the resolution controls read from the discovery
// URL's query options. They steer the lookup and never appear in the
// resolved connection string.
type srvDirectives struct {
	serviceName string
	maxHosts    int
}

func (d *discoveryURL) directives() (srvDirectives, error) {
	out := srvDirectives{serviceName: defaultSRVServiceName}
	if name := d.params.Get("srvServiceName"); name != "" {
		out.serviceName = name
	}
	if raw := d.params.Get("srvMaxHosts"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return out, fmt.Errorf("invalid srvMaxHosts: %w", err)
		}
		if n < 0 {
			return out, fmt.Errorf("invalid srvMaxHosts: negative value %d", n)
		}
		out.maxHosts = n
	}
	return out, nil
}

// lookupHosts resolves the SRV half of the discovery: it queries
// _<service>._tcp.<domain>, validates every target against the lookup
// domain's parent, formats the targets, and applies the srvMaxHosts
// limit.
func lookupHosts(ctx context.Context, resolver Resolver, domain string, directives srvDirectives) ([]string, error) {
	lookupName := fmt.Sprintf("_%s._tcp.%s", directives.serviceName, domain)
	addresses, err := resolver.ResolveSrv(ctx, lookupName)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, ErrNoAddresses
	}

	hosts := make([]string, 0, len(addresses))
	for _, address := range addresses {
		target := strings.TrimSuffix(address.Target, ".")
		if !matchesParentDomain(target, domain) {
			return nil, ErrSRVHostMismatch
		}
		if address.Port == defaultPort {
			hosts = append(hosts, target)
		} else {
			hosts = append(hosts, fmt.Sprintf("%s:%d", target, address.Port))
		}
	}

	if directives.maxHosts > 0 && directives.maxHosts < len(hosts) {
		return shuffledSubset(hosts, directives.maxHosts), nil
	}
	return hosts, nil
}

// matchesParentDomain reports whether an SRV target belongs to the
// parent domain of the lookup domain. Exactly one leading label is
// stripped from each side, whatever the label count, and the comparison
// is anchored on a "." so that label boundaries cannot be straddled.
func matchesParentDomain(target, lookupDomain string) bool {
	targetSuffix := "." + trimFirstLabel(strings.TrimSuffix(target, "."))
	parentSuffix := "." + trimFirstLabel(strings.TrimSuffix(lookupDomain, "."))
	return strings.HasSuffix(targetSuffix, parentSuffix)
}

func trimFirstLabel(domain string) string {
	if i := strings.IndexByte(domain, '.'); i >= 0 {
		return domain[i+1:]
	}
	return domain
}

// shuffledSubset returns limit hosts drawn uniformly from hosts, in
// random order. A partial Fisher-Yates over positions [lowerBound, len)
// touches just enough of the slice to give every element the same
// probability of landing in the kept tail; when limit divides the
// length evenly the whole slice is shuffled instead.
func shuffledSubset(hosts []string, limit int) []string {
	items := make([]string, len(hosts))
	copy(items, hosts)

	lowerBound := 1
	if limit%len(items) != 0 {
		lowerBound = len(items) - limit
	}
	for i := len(items) - 1; i >= lowerBound; i-- {
		j := rand.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	if limit > 0 {
		return items[len(items)-limit:]
	}
	return items
}

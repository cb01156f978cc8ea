// SPDX-License-Identifier: Apache-2.0

// Package mongosrv expands mongodb+srv:// connection strings into
// mongodb:// connection strings using DNS SRV and TXT lookups.
//
// [Resolve] performs the lookups with the platform resolver. [ResolveWith]
// accepts any [Resolver], which is how tests and callers with special DNS
// needs inject their own lookup capability; [ClientResolver] implements
// the capability on top of [github.com/miekg/dns] for querying one
// specific server.
//
// Strings that already use the mongodb:// scheme are returned unchanged,
// without any DNS traffic.
package mongosrv

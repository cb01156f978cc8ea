// SPDX-License-Identifier: Apache-2.0

package mongosrv

import (
	"net/url"
	"strings"
)

// queryParams is an ordered multimap of connection-string options. The
// standard library's url.Values cannot serve here: it is an unordered
// map and its Encode sorts keys, while a rewritten connection string
// must keep its options in their original order, with newly added
// options appended at the end.
type queryParams struct {
	pairs []queryParam
}

type queryParam struct {
	key   string
	value string
}

// parseQueryParams parses URL-query syntax. Keys are case-sensitive,
// duplicates are preserved in order, and a segment without "=" is a key
// with an empty value.
func parseQueryParams(rawQuery string) (*queryParams, error) {
	params := &queryParams{}
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		params.pairs = append(params.pairs, queryParam{key: key, value: value})
	}
	return params, nil
}

// Has reports whether key is present.
func (p *queryParams) Has(key string) bool {
	for _, pair := range p.pairs {
		if pair.key == key {
			return true
		}
	}
	return false
}

// Get returns the first value for key, or "" when key is absent.
func (p *queryParams) Get(key string) string {
	for _, pair := range p.pairs {
		if pair.key == key {
			return pair.value
		}
	}
	return ""
}

// Set replaces the first occurrence of key with value and drops any
// later duplicates, appending when key is absent.
func (p *queryParams) Set(key, value string) {
	out := p.pairs[:0]
	replaced := false
	for _, pair := range p.pairs {
		if pair.key == key {
			if replaced {
				continue
			}
			pair.value = value
			replaced = true
		}
		out = append(out, pair)
	}
	if !replaced {
		out = append(out, queryParam{key: key, value: value})
	}
	p.pairs = out
}

// Delete removes every occurrence of key.
func (p *queryParams) Delete(key string) {
	out := p.pairs[:0]
	for _, pair := range p.pairs {
		if pair.key != key {
			out = append(out, pair)
		}
	}
	p.pairs = out
}

// Encode serializes the options in insertion order using URL query
// escaping.
func (p *queryParams) Encode() string {
	var sb strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pair.value))
	}
	return sb.String()
}

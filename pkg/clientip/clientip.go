// Package clientip resolves the originating client address of a request
// served behind reverse proxies and carries it through the request context.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders lists the proxy headers consulted by GetIP, highest priority first.
// X-Forwarded-For contributes its first valid address.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Resolver extracts the client address from a configurable list of headers,
// falling back to the connection's RemoteAddr.
type Resolver struct {
	headers []string
}

// NewResolver returns a resolver trusting headers in the given order.
// With no headers it trusts DefaultHeaders.
func NewResolver(headers ...string) *Resolver {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	return &Resolver{headers: headers}
}

var defaultResolver = NewResolver()

// GetIP returns the client's IP address using DefaultHeaders.
// It returns an empty string when no valid address is found.
func GetIP(r *http.Request) string {
	return defaultResolver.Resolve(r)
}

// Resolve returns the client's IP address for r.
func (res *Resolver) Resolve(r *http.Request) string {
	for _, h := range res.headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}

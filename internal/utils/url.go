// Package utils holds URL policy helpers shared by the app and the CLI.
package utils

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL          = errors.New("empty url")
	ErrMissingHost       = errors.New("missing host")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// CanonicalOptions tunes Canonicalize.
type CanonicalOptions struct {
	// DefaultScheme is prepended to schemeless input. Empty means a scheme is required.
	DefaultScheme string
	// DropTracking removes utm_* and click-id query parameters.
	DropTracking bool
	// KeepTrailingSlash leaves "/a/" distinct from "/a".
	KeepTrailingSlash bool
}

var trackingParams = map[string]struct{}{
	"gclid": {}, "fbclid": {}, "msclkid": {}, "mc_cid": {}, "mc_eid": {},
}

// Canonicalize returns a deterministic form of raw: lowercase scheme and
// punycode host, default ports and credentials dropped, cleaned path, sorted
// query and no fragment.
func Canonicalize(raw string, opts CanonicalOptions) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	if opts.DefaultScheme != "" && !strings.Contains(raw, "://") {
		raw = opts.DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingHost, raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	switch port := u.Port(); {
	case port == "", u.Scheme == "http" && port == "80", u.Scheme == "https" && port == "443":
		u.Host = host
		if strings.Contains(host, ":") {
			u.Host = "[" + host + "]"
		}
	default:
		u.Host = net.JoinHostPort(host, port)
	}
	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""

	p := "/"
	if u.Path != "" {
		p = path.Clean(u.Path)
		if opts.KeepTrailingSlash && strings.HasSuffix(u.Path, "/") && p != "/" {
			p += "/"
		}
	}
	u.Path = p
	u.RawPath = ""

	q := u.Query()
	if opts.DropTracking {
		for k := range q {
			lk := strings.ToLower(k)
			if _, ok := trackingParams[lk]; ok || strings.HasPrefix(lk, "utm_") {
				q.Del(k)
			}
		}
	}
	for _, vs := range q {
		sort.Strings(vs)
	}
	// Values.Encode sorts by key.
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// CanonicalTarget is the policy applied to audit target URLs: https is assumed
// when no scheme is given and tracking parameters never identify a target.
func CanonicalTarget(raw string) (string, error) {
	return Canonicalize(raw, CanonicalOptions{DefaultScheme: "https", DropTracking: true})
}

// Host returns the lowercase hostname of a canonical URL.
func Host(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

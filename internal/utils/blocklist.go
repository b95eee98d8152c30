package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var ErrBlockedHost = errors.New("host is blocked")

// Blocklist rejects target hosts matching any of its glob patterns.
// Patterns use '.' as separator, so "*.internal" matches one label and
// "**.internal" matches any depth.
type Blocklist struct {
	patterns []string
	globs    []glob.Glob
}

// NewBlocklist compiles patterns. Blank entries are ignored.
func NewBlocklist(patterns []string) (*Blocklist, error) {
	b := &Blocklist{}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("compile blocklist pattern %q: %w", p, err)
		}
		b.patterns = append(b.patterns, p)
		b.globs = append(b.globs, g)
	}
	return b, nil
}

// Match reports the first pattern matching host, if any.
func (b *Blocklist) Match(host string) (string, bool) {
	if b == nil {
		return "", false
	}
	host = strings.ToLower(host)
	for i, g := range b.globs {
		if g.Match(host) {
			return b.patterns[i], true
		}
	}
	return "", false
}

// Check returns ErrBlockedHost when the canonical URL's host is blocked.
func (b *Blocklist) Check(canonical string) error {
	host := Host(canonical)
	if p, ok := b.Match(host); ok {
		return fmt.Errorf("%w: %s matches %q", ErrBlockedHost, host, p)
	}
	return nil
}

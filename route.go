package strada

import (
	"fmt"

	"github.com/strada-dev/strada/pkg/routepath"
)

// kind is the protocol kind of a route entry.
type kind int

const (
	kindPlain kind = iota
	kindSocket
	kindEvents
)

// route is one entry of the ordered dispatch table. The pattern is
// compiled to its segment form at registration time, so entries are
// immutable once serving starts.
type route struct {
	method  string // empty = any method
	kind    kind
	pattern []string
	handler Handler
}

// staticRoute maps a wildcard pattern to a file resolver. Tried before
// dynamic routes, for GET and HEAD only.
type staticRoute struct {
	pattern []string
	resolve Resolver
}

// compilePattern tokenizes a registered pattern and validates that a
// wildcard, if present, is its final segment. An invalid pattern is a
// registration-time programmer error and panics.
func compilePattern(pattern string) []string {
	segs := routepath.Split(pattern)
	for i, seg := range segs {
		if seg == routepath.Wildcard && i != len(segs)-1 {
			panic(fmt.Sprintf("strada: wildcard must be the final segment of pattern %q", pattern))
		}
	}
	return segs
}

// match compares a compiled pattern against the request's segment
// sequence. On success it returns the named captures and the unmatched
// remainder. Matching does no scoring: the caller's table order is the
// sole precedence rule.
func match(pattern, parts []string) (params map[string]string, rest []string, ok bool) {
	wildcard := len(pattern) > 0 && pattern[len(pattern)-1] == routepath.Wildcard
	if wildcard {
		pattern = pattern[:len(pattern)-1]
		if len(pattern) > len(parts) {
			return nil, nil, false
		}
	} else if len(pattern) != len(parts) {
		return nil, nil, false
	}

	for i, seg := range pattern {
		if routepath.IsCapture(seg) {
			if params == nil {
				params = make(map[string]string)
			}
			params[routepath.CaptureName(seg)] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, nil, false
		}
	}

	return params, parts[len(pattern):], true
}

func (rt *route) match(parts []string) (map[string]string, []string, bool) {
	return match(rt.pattern, parts)
}

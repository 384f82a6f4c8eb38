package ratelimit

import (
	"path"
	"strings"
)

// Match returns the rule for a request path and method, or nil.
// Exact paths win over "*" patterns, which win over "/"-terminated prefixes.
func Match(reqPath, method string, rules []Rule) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Method == method && r.Path == reqPath {
			return r
		}
	}

	// "*" matches exactly one path segment
	for i := range rules {
		r := &rules[i]
		if r.Method != method || !strings.Contains(r.Path, "*") {
			continue
		}
		if ok, err := path.Match(r.Path, reqPath); err == nil && ok {
			return r
		}
	}

	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(reqPath, r.Path) {
			return r
		}
	}

	return nil
}

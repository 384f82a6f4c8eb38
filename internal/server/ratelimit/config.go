package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/career-coach/internal/config"
)

// Scope selects who a bucket belongs to
type Scope int

const (
	// ScopeClient keys buckets by client address
	ScopeClient Scope = iota
	// ScopeSession keys buckets by the authenticated session. Requests
	// without a session fall back to the client address.
	ScopeSession
)

func (s Scope) String() string {
	if s == ScopeSession {
		return "session"
	}
	return "client"
}

// Rule limits one group of endpoints. Rules with the same Bucket name share
// a bucket per subject.
type Rule struct {
	Bucket string        // bucket name, shared by every rule that uses it
	Path   string        // exact path, prefix ending in "/", or with "*" segments
	Method string        // HTTP method
	Scope  Scope         // bucket owner
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration   // buckets unused for this long are dropped
	Exempt          map[string]bool // client addresses that are never limited
	Blocked         map[string]bool // client addresses that are always rejected
	Rules           []Rule
}

// defaultBucket is shared by every endpoint without a rule
const defaultBucket = "default"

// FromSettings builds the limiter configuration from service settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTimeout:     time.Hour,
		Exempt:          parseIPList(s.Whitelist),
		Blocked:         parseIPList(s.Blacklist),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint limits of the coaching API.
//
// Chat turns call the model, so they share one hourly bucket per client
// across all of that client's sessions. Tool calls and state reads are
// fired by the UI of a single session and are bucketed per session.
func DefaultRules() []Rule {
	return []Rule{
		{Bucket: "chat", Path: "/sessions/*/chat", Method: "POST", Scope: ScopeClient, Limit: 60, Window: time.Hour, Burst: 5},
		{Bucket: "chat", Path: "/sessions/*/chat/stream", Method: "POST", Scope: ScopeClient, Limit: 60, Window: time.Hour, Burst: 5},

		{Bucket: "create_session", Path: "/sessions", Method: "POST", Scope: ScopeClient, Limit: 30, Window: time.Minute, Burst: 10},
		{Bucket: "tools", Path: "/sessions/*/tools/*", Method: "POST", Scope: ScopeSession, Limit: 300, Window: time.Minute, Burst: 30},
		{Bucket: "state", Path: "/sessions/*/state", Method: "GET", Scope: ScopeSession, Limit: 600, Window: time.Minute, Burst: 60},
		{Bucket: "delete_session", Path: "/sessions/", Method: "DELETE", Scope: ScopeSession, Limit: 10, Window: time.Minute, Burst: 5},
	}
}

// parseIPList turns a list of addresses into a lookup set.
// Entries may themselves be comma-separated.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, entry := range list {
		for _, ip := range strings.Split(entry, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				result[ip] = true
			}
		}
	}
	return result
}

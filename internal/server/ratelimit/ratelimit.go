// Package ratelimit throttles API traffic with token buckets. Buckets are
// owned by a client address or, for session-scoped rules, by the session
// the request authenticated as.
package ratelimit

import (
	"sync"
	"time"

	"github.com/jonathan/career-coach/internal/metrics"
)

// Request identifies the caller and endpoint of one HTTP request
type Request struct {
	Client  string
	Session string // empty for unauthenticated requests
	Method  string
	Path    string
}

// Info is the outcome of a rate limit check. Limit is zero when the request
// was not subject to a limit.
type Info struct {
	Allowed    bool
	Bucket     string
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	refilled time.Time
	lastUsed time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity: float64(capacity),
		rate:     rate,
		tokens:   float64(capacity),
		refilled: now,
		lastUsed: now,
	}
}

// take refills the bucket up to now and consumes a token if one is left.
// The returned Info carries the tokens remaining, when the bucket will be
// full again and, when rejected, how long until the next token.
func (b *bucket) take(now time.Time) Info {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = min(b.capacity, b.tokens+now.Sub(b.refilled).Seconds()*b.rate)
	b.refilled = now
	b.lastUsed = now

	info := Info{Allowed: b.tokens >= 1, ResetTime: now}
	if info.Allowed {
		b.tokens--
	} else {
		info.RetryAfter = b.until(1 - b.tokens)
	}
	info.Remaining = int(b.tokens)
	if missing := b.capacity - b.tokens; missing > 0 {
		info.ResetTime = now.Add(b.until(missing))
	}
	return info
}

// until returns how long the bucket takes to gain n tokens
func (b *bucket) until(n float64) time.Duration {
	return time.Duration(n / b.rate * float64(time.Second))
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed.Before(cutoff)
}

// Limiter hands out tokens from per-subject buckets
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows 1000 requests a minute
// per client.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.stop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow takes a token for req from the bucket its rule selects
func (l *Limiter) Allow(req Request) Info {
	if !l.config.Enabled || l.config.Exempt[req.Client] {
		return Info{Allowed: true}
	}
	if l.config.Blocked[req.Client] {
		return Info{Allowed: false}
	}

	rule := l.ruleFor(req)
	if rule.Limit <= 0 {
		return Info{Allowed: true, Bucket: rule.Bucket}
	}

	now := l.now()
	info := l.bucket(bucketKey(rule, req), rule, now).take(now)
	info.Bucket = rule.Bucket
	info.Limit = rule.Limit
	if !info.Allowed {
		metrics.RateLimited.WithLabelValues(rule.Bucket, rule.Scope.String()).Inc()
	}
	return info
}

func (l *Limiter) ruleFor(req Request) *Rule {
	if rule := Match(req.Path, req.Method, l.config.Rules); rule != nil {
		return rule
	}
	return &Rule{
		Bucket: defaultBucket,
		Scope:  ScopeClient,
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}
}

// bucketKey names the bucket of rule owned by the request's subject
func bucketKey(rule *Rule, req Request) string {
	if rule.Scope == ScopeSession && req.Session != "" {
		return rule.Bucket + "|session|" + req.Session
	}
	return rule.Bucket + "|client|" + req.Client
}

func (l *Limiter) bucket(key string, rule *Rule, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}
	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	window := rule.Window
	if window <= 0 {
		window = time.Minute
	}
	b := newBucket(capacity, float64(rule.Limit)/window.Seconds(), now)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets unused for IdleTimeout and returns how many it removed
func (l *Limiter) sweep() int {
	idle := l.config.IdleTimeout
	if idle <= 0 {
		idle = time.Hour
	}
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
	})
}

package worker

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter is one client's bucket and the last time it was used
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter rate-limits dashboard requests per client address. Buckets idle
// for longer than the idle timeout are pruned on access.
type Limiter struct {
	clients     map[string]*clientLimiter
	mu          sync.Mutex
	rate        rate.Limit
	burst       int
	idleTimeout time.Duration
	lastPrune   time.Time
	now         func() time.Time
}

// DefaultIdleTimeout is how long an unused client bucket is kept
const DefaultIdleTimeout = 10 * time.Minute

// NewLimiter creates a limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		clients:     make(map[string]*clientLimiter),
		rate:        limit,
		burst:       burst,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}
}

// Allow reports whether the client may make a request now
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Len returns the number of tracked clients
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= l.idleTimeout {
		l.prune(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter
}

// prune drops idle clients; the caller holds l.mu
func (l *Limiter) prune(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTimeout {
			delete(l.clients, key)
		}
	}
	l.lastPrune = now
}

// ClientKey identifies the client of a request by host, without the port
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/config"
	"github.com/Divyabharathi23012007/Weatherly-Edunet-task/internal/model"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and last seen time for one bucket.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limit is a per-minute rate with a burst.
type Limit struct {
	PerMinute float64
	Burst     int
}

func (l Limit) newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(l.PerMinute/60.0), l.Burst)
}

// RateLimiter throttles requests per client IP, and per client IP and query
// value, so a single browser cannot hammer the upstream weather API through
// the dashboard.
type RateLimiter struct {
	global   Limit
	param    Limit
	paramKey string

	mu      sync.Mutex
	globals map[string]*visitor            // ip
	params  map[string]map[string]*visitor // ip -> param value
}

// NewRateLimiter builds a limiter keyed on the given query parameter.
func NewRateLimiter(global, param Limit, paramKey string) *RateLimiter {
	return &RateLimiter{
		global:   global,
		param:    param,
		paramKey: paramKey,
		globals:  make(map[string]*visitor),
		params:   make(map[string]map[string]*visitor),
	}
}

// NewRateLimiterFromConfig reads rate_limiter.global and rate_limiter.param.
// The per-param bucket is keyed on the search query "q".
func NewRateLimiterFromConfig() *RateLimiter {
	gRate, gBurst := config.GetGlobalRateLimiterConfig()
	pRate, pBurst := config.GetParamRateLimiterConfig()
	return NewRateLimiter(Limit{gRate, gBurst}, Limit{pRate, pBurst}, "q")
}

func (rl *RateLimiter) limiters(ip, param string) (global, perParam *rate.Limiter) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()

	g, ok := rl.globals[ip]
	if !ok {
		g = &visitor{limiter: rl.global.newLimiter()}
		rl.globals[ip] = g
	}
	g.lastSeen = now

	if param == "" {
		return g.limiter, nil
	}
	if _, ok := rl.params[ip]; !ok {
		rl.params[ip] = make(map[string]*visitor)
	}
	p, ok := rl.params[ip][param]
	if !ok {
		p = &visitor{limiter: rl.param.newLimiter()}
		rl.params[ip][param] = p
	}
	p.lastSeen = now

	return g.limiter, p.limiter
}

// Cleanup removes buckets not seen for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.globals {
		if time.Since(v.lastSeen) > maxIdle {
			delete(rl.globals, ip)
		}
	}
	for ip, paramMap := range rl.params {
		for param, v := range paramMap {
			if time.Since(v.lastSeen) > maxIdle {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(rl.params, ip)
		}
	}
}

// StartCleanup runs Cleanup every minute in the background until stop is closed.
func (rl *RateLimiter) StartCleanup(maxIdle time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				rl.Cleanup(maxIdle)
			}
		}
	}()
}

// Reset clears all buckets. Used primarily for testing.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.globals = make(map[string]*visitor)
	rl.params = make(map[string]map[string]*visitor)
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

func writeTooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	resp := model.NewErrorResponse(errMsg)
	resp.Message = message
	_ = json.NewEncoder(w).Encode(resp)
}

// Middleware enforces the global and per-parameter limits on next.
// If either is exceeded, it responds with a 429 status and a JSON error message.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Requests without the param only count against the global bucket.
		param := strings.ToLower(strings.TrimSpace(r.FormValue(rl.paramKey)))
		globalLimiter, paramLimiter := rl.limiters(getIP(r), param)
		if !globalLimiter.Allow() {
			writeTooManyRequests(w, "Rate limit exceeded: too many requests per minute from this address",
				"Too Many Requests (global limit)")
			return
		}
		if paramLimiter != nil && !paramLimiter.Allow() {
			writeTooManyRequests(w, "Rate limit exceeded: too many requests per minute for the same search",
				"Too Many Requests (per-param limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}

package linear

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitInfo contains rate limit information from the API response
type RateLimitInfo struct {
	// Remaining requests in current window
	Remaining int
	// Total requests allowed per window
	Limit int
	// Time when the rate limit window resets
	ResetAt time.Time
	// Complexity budget remaining, if reported
	ComplexityRemaining int
	// Last updated timestamp
	UpdatedAt time.Time
}

// RateLimitTracker tracks rate limit information from API responses
type RateLimitTracker struct {
	mu   sync.RWMutex
	info *RateLimitInfo
}

// NewRateLimitTracker creates a new rate limit tracker
func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{}
}

// Update updates rate limit info from HTTP response headers.
// Linear API headers:
//   - X-RateLimit-Requests-Limit: requests per window
//   - X-RateLimit-Requests-Remaining: remaining requests
//   - X-RateLimit-Requests-Reset: unix ms timestamp when window resets
//   - X-Complexity-Remaining: remaining query complexity budget
func (t *RateLimitTracker) Update(resp *http.Response) {
	if resp == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	info := &RateLimitInfo{
		UpdatedAt: time.Now(),
	}

	if limit := resp.Header.Get("X-RateLimit-Requests-Limit"); limit != "" {
		info.Limit, _ = strconv.Atoi(limit)
	}

	if remaining := resp.Header.Get("X-RateLimit-Requests-Remaining"); remaining != "" {
		info.Remaining, _ = strconv.Atoi(remaining)
	}

	if reset := resp.Header.Get("X-RateLimit-Requests-Reset"); reset != "" {
		if ts, err := strconv.ParseInt(reset, 10, 64); err == nil {
			info.ResetAt = time.UnixMilli(ts)
		}
	}

	if complexity := resp.Header.Get("X-Complexity-Remaining"); complexity != "" {
		info.ComplexityRemaining, _ = strconv.Atoi(complexity)
	}

	t.info = info
}

// Get returns the current rate limit info (may be nil if no requests made)
func (t *RateLimitTracker) Get() *RateLimitInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.info == nil {
		return nil
	}
	// Return a copy
	info := *t.info
	return &info
}

// IsLow returns true if remaining requests are below threshold (e.g., 10%)
func (t *RateLimitTracker) IsLow() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.info == nil || t.info.Limit == 0 {
		return false
	}
	return float64(t.info.Remaining)/float64(t.info.Limit) < 0.1
}

package v1

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
)

// RequestIDMiddleware tags every request with an id, either the caller's
// X-Request-ID or a fresh UUID, and echoes it back in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header(requestIDHeader, requestID)
		c.Set(requestIDCtxKey, requestID)

		c.Next()
	}
}

// SecurityHeadersMiddleware applies the baseline response headers on every
// route.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "SAMEORIGIN")
		header.Set("X-Download-Options", "noopen")
		header.Set("Referrer-Policy", "no-referrer")
		header.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")

		c.Next()
	}
}

// RateLimitMiddleware enforces one fixed window with one shared counter
// for every route it guards. Seeded bug: the budget is not split per
// route or per client, so a single caller can starve everyone else.
func RateLimitMiddleware(max int, window time.Duration) gin.HandlerFunc {
	var (
		mtx     sync.Mutex
		count   int
		resetAt time.Time
	)

	return func(c *gin.Context) {
		now := time.Now()

		mtx.Lock()
		if resetAt.IsZero() || now.After(resetAt) {
			count = 0
			resetAt = now.Add(window)
		}
		count++
		exceeded := count > max
		remaining := max - count
		reset := resetAt
		mtx.Unlock()

		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if exceeded {
			abort(c, newTooManyRequestsError(msgTooManyRequests))
			return
		}

		c.Next()
	}
}

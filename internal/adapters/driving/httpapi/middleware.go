package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// requestIDMiddleware reuses the caller's request ID or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		line := "%s %s %d %v request_id=%s"
		args := []any{c.Request.Method, path, status, time.Since(start), c.GetString(requestIDKey)}
		if status >= http.StatusInternalServerError {
			logger.Error(line, args...)
			return
		}
		logger.Info(line, args...)
	}
}

// Client limiter bounds. A client idle for limiterIdleTTL has a full
// bucket again, so forgetting it changes nothing.
const (
	limiterIdleTTL    = 10 * time.Minute
	limiterMaxClients = 10000
)

// clientLimiter keeps one token bucket per client IP. Idle buckets are
// swept lazily and the map never exceeds maxClients.
type clientLimiter struct {
	mu         sync.Mutex
	limit      rate.Limit
	burst      int
	clients    map[string]*clientBucket
	idleTTL    time.Duration
	maxClients int
	lastSweep  time.Time
	now        func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:      rate.Limit(perSecond),
		burst:      burst,
		clients:    make(map[string]*clientBucket),
		idleTTL:    limiterIdleTTL,
		maxClients: limiterMaxClients,
		now:        time.Now,
	}
}

func (l *clientLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	b, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= l.maxClients {
			l.evictOldest()
		}
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// sweep drops buckets idle for at least idleTTL. Caller holds mu.
func (l *clientLimiter) sweep(now time.Time) {
	for key, b := range l.clients {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// evictOldest drops the least recently seen bucket. Caller holds mu.
func (l *clientLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, b := range l.clients {
		if oldestKey == "" || b.lastSeen.Before(oldest) {
			oldestKey, oldest = key, b.lastSeen
		}
	}
	delete(l.clients, oldestKey)
}

// Allow reports whether the client may make a request now, and if not,
// how long until it may.
func (l *clientLimiter) Allow(key string) (bool, time.Duration) {
	r := l.get(key).Reserve()
	if !r.OK() {
		return false, time.Second
	}
	delay := r.Delay()
	if delay == 0 {
		return true, 0
	}
	r.Cancel()
	return false, delay
}

func rateLimitMiddleware(l *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := l.Allow(c.ClientIP())
		if !ok {
			secs := int(retry.Seconds())
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Error: too many requests, retry later",
			})
			return
		}
		c.Next()
	}
}

// timeoutMiddleware bounds the request context; handlers and the services
// below them observe the deadline.
func timeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/robertozapata/portfolio/internal/api/constants"
	"github.com/robertozapata/portfolio/internal/api/dto/common"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/preference"
	"github.com/robertozapata/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client keeps its bucket
const visitorTTL = 10 * time.Minute

// RateLimitConfig defines configuration for the rate limiter
type RateLimitConfig struct {
	// Requests per second
	RPS float64
	// Burst size (number of requests that can be made in a single burst)
	Burst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Idle buckets are
// dropped lazily.
type IPRateLimiter struct {
	mu        sync.Mutex
	config    RateLimitConfig
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(config RateLimitConfig) *IPRateLimiter {
	if config.Burst < 1 {
		config.Burst = 1
	}
	return &IPRateLimiter{
		config:   config,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow takes a token for ip. When none is available it reports how long
// until one is, without consuming anything.
func (l *IPRateLimiter) Allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, visitorTTL
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Remaining is the whole number of tokens left for ip
func (l *IPRateLimiter) Remaining(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[ip]
	if !ok {
		return l.config.Burst
	}
	return int(math.Max(0, math.Floor(v.limiter.TokensAt(l.now()))))
}

func (l *IPRateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < visitorTTL {
		return
	}
	l.lastSweep = now
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, ip)
		}
	}
}

// RateLimitMiddleware rejects clients that exceed their per-IP budget with
// the same 429 body the contact endpoint uses
func RateLimitMiddleware(limiter *IPRateLimiter, catalog *i18n.Catalog, defaultLang i18n.Language) gin.HandlerFunc {
	limit := strconv.FormatFloat(limiter.config.RPS, 'f', -1, 64)

	return func(c *gin.Context) {
		ip := utils.GetRealIP(c)
		allowed, wait := limiter.Allow(ip)
		c.Header("X-RateLimit-Limit", limit)

		if !allowed {
			retryAfter := int(math.Ceil(wait.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			lang := preference.LanguageOr(c.Request.Context(), defaultLang)
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewRateLimitResponse(
				catalog.T(lang, "contact.tooManyFromAddress"),
				retryAfter,
			))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(ip)))
		c.Next()
	}
}

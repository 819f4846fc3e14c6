package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"bookly/internal/shared/utils/response"
	"bookly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests over the limit of their route class. A limiter error
// lets the request through.
func Middleware(rateLimiter Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.Request.Method, c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			log.ErrorWithContext(c.Request.Context(), "Rate limit check failed", err, map[string]interface{}{
				"ip": clientIP,
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(method, path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	// capacity-reserving writes
	case method == http.MethodPost && (strings.HasSuffix(path, "/bookings") ||
		strings.HasSuffix(path, "/recurring-bookings") ||
		strings.HasSuffix(path, "/confirm")):
		return RateLimitTypeBookingCritical

	case strings.Contains(path, "/availability/rules"),
		strings.Contains(path, "/contents/"),
		strings.HasSuffix(path, "/no-show"),
		strings.HasSuffix(path, "/waitlist/notify"):
		return RateLimitTypeOwner

	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/waitlist"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/availability"):
		return RateLimitTypePublic

	case strings.Contains(path, "/users/"):
		return RateLimitTypeUser

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP prefers proxy headers over the socket address
func getClientIP(c *gin.Context) string {
	if xForwardedFor := c.GetHeader("X-Forwarded-For"); xForwardedFor != "" {
		ip := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := c.GetHeader("X-Real-IP"); net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

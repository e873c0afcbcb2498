package server

import (
	"crypto/subtle"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payslip/internal/auth/password"
	"go.uber.org/zap"
)

// BasicAuthRequired guards the API with a single admin account. secret is
// either the plain password or its Argon2id hash.
func BasicAuthRequired(username, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			!password.Matches(secret, pass) {
			c.Header("WWW-Authenticate", `Basic realm="payslip"`)
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// ReportRateLimited applies the per-client report limiter. Limiter failures
// let the request through.
func (s *Server) ReportRateLimited() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}
		res, err := s.limiter.AllowClient(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

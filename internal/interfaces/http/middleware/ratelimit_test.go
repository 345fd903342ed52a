package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pixamint/pixamint/internal/infrastructure/ratelimit"
	"github.com/pixamint/pixamint/internal/shared/constants"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string, cfg ratelimit.Config) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func (s *stubLimiter) Remaining(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, nil
}

func (s *stubLimiter) Reset(ctx context.Context, key string) error { return nil }

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (nopLogger) Fatal(msg string, args ...any)                   {}
func (n nopLogger) With(args ...any) logger.Interface             { return n }
func (n nopLogger) Named(name string) logger.Interface            { return n }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func limitedRouter(limiter ratelimit.Limiter, keyFn func(*gin.Context) string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/generations",
		func(c *gin.Context) {
			c.Set(constants.ContextKeyUserID, uint(7))
			c.Next()
		},
		RateLimit(limiter, ratelimit.Config{PerMinute: 5}, keyFn, nopLogger{}),
		func(c *gin.Context) { c.Status(http.StatusAccepted) },
	)
	return r
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	r := limitedRouter(limiter, UserKey("generation"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generations", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"generation:user:7"}, limiter.keys)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := &stubLimiter{allow: false}
	r := limitedRouter(limiter, UserKey("generation"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generations", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_FailsOpenOnLimiterError(t *testing.T) {
	limiter := &stubLimiter{err: assert.AnError}
	r := limitedRouter(limiter, UserKey("generation"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generations", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	r := limitedRouter(nil, UserKey("generation"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generations", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRateLimit_ClientIPKeyScopesByAddress(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/plans", RateLimit(limiter, ratelimit.Config{PerMinute: 60}, ClientIPKey("api"), nopLogger{}),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	req.RemoteAddr = "203.0.113.9:4411"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api:ip:203.0.113.9"}, limiter.keys)
}

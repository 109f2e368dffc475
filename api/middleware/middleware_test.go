package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/api/response"
	"storefront/config"
	"storefront/domain/identity"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]identity.Identity

func (s stubVerifier) Verify(token string) (identity.Identity, error) {
	if token == "" {
		return identity.Identity{}, identity.ErrUnauthenticated
	}
	id, ok := s[token]
	if !ok {
		return identity.Identity{}, identity.ErrInvalidToken
	}
	return id, nil
}

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zap.DebugLevel)
	t.Cleanup(logger.Replace(zap.New(core)))
	return logs
}

func TestRequestIDMiddleware(t *testing.T) {
	logs := observe(t)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated to service logs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
		entries := logs.FilterMessage("inside handler").All()
		require.NotEmpty(t, entries)
		assert.Equal(t, "req-42", entries[len(entries)-1].ContextMap()["request_id"])
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	logs := observe(t)
	r := gin.New()
	r.Use(RequestIDMiddleware(), RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, rec.Body.String(), "kaboom")
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	observe(t)
	r := gin.New()
	r.Use(RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := start
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }
	rl.lastSweep.Store(start.UnixNano())

	a := rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")
	assert.Equal(t, 2, rl.Size())

	now = start.Add(5 * time.Minute)
	assert.Same(t, a, rl.getLimiter("10.0.0.1"))

	now = start.Add(DefaultLimiterIdleTTL + time.Minute)
	rl.getLimiter("10.0.0.3")
	assert.Equal(t, 2, rl.Size(), "10.0.0.2 idle past the TTL is dropped")
	_, kept := rl.limiters.Load("10.0.0.1")
	assert.True(t, kept)
	_, dropped := rl.limiters.Load("10.0.0.2")
	assert.False(t, dropped)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(&config.RateLimitConfig{Enabled: false, Rate: 0.001, Burst: 1}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 5 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	observe(t)
	verifier := stubVerifier{
		"customer": {SubjectID: "u-1", Role: identity.RoleCustomer},
		"admin":    {SubjectID: "admin", Role: identity.RoleAdmin},
	}
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Authenticate(verifier, "auth-token"), RequireRole(identity.RoleCustomer), func(c *gin.Context) {
		id, err := identity.FromContext(c.Request.Context())
		require.NoError(t, err)
		c.String(http.StatusOK, id.SubjectID)
	})

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{"missing cookie", "", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"unknown token", "forged", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"wrong role", "admin", http.StatusForbidden, "FORBIDDEN"},
		{"customer", "customer", http.StatusOK, "u-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: "auth-token", Value: tt.token})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestHandleAppErrorHidesInternalDetail(t *testing.T) {
	logs := observe(t)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		response.HandleAppError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Equal(t, 1, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CORSConfig
		origin  string
		allowed string
	}{
		{
			name:    "listed origin",
			cfg:     config.CORSConfig{AllowOrigins: []string{"https://shop.example.com"}, AllowMethods: []string{"GET"}, AllowCredentials: true},
			origin:  "https://shop.example.com",
			allowed: "https://shop.example.com",
		},
		{
			name:    "wildcard without credentials",
			cfg:     config.CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET"}},
			origin:  "https://anywhere.example.com",
			allowed: "*",
		},
		{
			name:    "wildcard dropped with credentials",
			cfg:     config.CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET"}, AllowCredentials: true},
			origin:  "https://anywhere.example.com",
			allowed: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(&tt.cfg))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.allowed, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

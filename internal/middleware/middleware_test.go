package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/prabhata303-del/Dd/internal/auth"
	"github.com/prabhata303-del/Dd/internal/metrics"
	"github.com/prabhata303-del/Dd/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims *auth.TokenClaims
	err    error
	seen   string
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, idToken string) (*auth.TokenClaims, error) {
	f.seen = idToken
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthSetsIdentityInContext(t *testing.T) {
	verifier := &fakeVerifier{claims: &auth.TokenClaims{UID: "u1", Email: "u1@example.com", Name: "Asha"}}
	router := gin.New()
	router.GET("/me", middleware.Auth(verifier, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":   c.GetString(middleware.ContextUserID),
			"email": c.GetString(middleware.ContextUserEmail),
			"name":  c.GetString(middleware.ContextUserName),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := serve(router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", verifier.seen)
	assert.JSONEq(t, `{"uid":"u1","email":"u1@example.com","name":"Asha"}`, rec.Body.String())
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	verifier := &fakeVerifier{claims: &auth.TokenClaims{UID: "u1"}}
	router := gin.New()
	router.GET("/me", middleware.Auth(verifier, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"", "tok-123", "Basic tok-123", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := serve(router, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
	assert.Empty(t, verifier.seen, "verifier must not run for malformed headers")
}

func TestAuthAcceptsTokenQueryParameter(t *testing.T) {
	verifier := &fakeVerifier{claims: &auth.TokenClaims{UID: "u1"}}
	router := gin.New()
	router.GET("/stream", middleware.Auth(verifier, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextUserID))
	})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/stream?token=tok-ws", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-ws", verifier.seen)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestAuthRejectsBadToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("expired")}
	router := gin.New()
	router.GET("/me", middleware.Auth(verifier, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := serve(router, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "expired", "cause stays server-side")
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-chosen")
	rec = serve(router, req)
	assert.Equal(t, "client-chosen", rec.Header().Get(middleware.RequestIDHeader))
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := gin.New()
	router.Use(middleware.Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

func TestRequestLoggerLevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(middleware.RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(router, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/bad", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/broken", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS("https://app.example.com"))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(router, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRecordsHandledRoutes(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Metrics())
	router.GET("/dishes/:dishId", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/dishes/d1", nil))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "dd_http_requests_total")
	assert.True(t, strings.Contains(body, `path="/dishes/:dishId"`),
		"path label should use the route template")
}

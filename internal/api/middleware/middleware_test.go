package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"charbit-go/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtManager *utils.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	r.GET("/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionKeyUserID, c.Param("id"))
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", AuthRequired(jwtManager), func(c *gin.Context) {
		userID, _ := GetCurrentUserID(c)
		c.String(http.StatusOK, userID)
	})
	r.GET("/maybe", OptionalAuth(jwtManager), func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			c.String(http.StatusOK, "guest")
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestAuthRequired_NoCredentials(t *testing.T) {
	r := newAuthRouter(utils.NewJWTManager("secret", time.Hour, "test"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"Unauthorized"`)
}

func TestAuthRequired_Bearer(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour, "test")
	token, err := jwtManager.GenerateToken("google-123")
	require.NoError(t, err)
	r := newAuthRouter(jwtManager)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "google-123", w.Body.String())
}

func TestAuthRequired_InvalidBearer(t *testing.T) {
	r := newAuthRouter(utils.NewJWTManager("secret", time.Hour, "test"))
	other, err := utils.NewJWTManager("other", time.Hour, "test").GenerateToken("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_Session(t *testing.T) {
	r := newAuthRouter(utils.NewJWTManager("secret", time.Hour, "test"))

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login/u-session", nil))
	require.NotEmpty(t, login.Result().Cookies())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-session", w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour, "test")
	r := newAuthRouter(jwtManager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/maybe", nil))
	assert.Equal(t, "guest", w.Body.String())

	token, err := jwtManager.GenerateToken("u2")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "u2", w.Body.String())
}

func TestAdminRequired(t *testing.T) {
	roles := map[string]string{"admin-1": "admin", "user-1": "user"}
	fetcher := func(_ context.Context, userID string) (string, error) {
		role, ok := roles[userID]
		if !ok {
			return "", errors.New("not found")
		}
		return role, nil
	}

	cases := []struct {
		userID string
		status int
	}{
		{"admin-1", http.StatusOK},
		{"user-1", http.StatusForbidden},
		{"ghost", http.StatusUnauthorized},
		{"", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			if tc.userID != "" {
				c.Set(ContextKeyUserID, tc.userID)
			}
		}, AdminRequired(fetcher), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, tc.status, w.Code, "user %q", tc.userID)
	}
}

func TestTraceID(t *testing.T) {
	r := gin.New()
	r.Use(TraceID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetTraceID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(TraceIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(TraceIDHeader))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":500`)
}

func newRateLimitRouter(limiter *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doFrom(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_Burst(t *testing.T) {
	r := newRateLimitRouter(NewRateLimiter(rate.Limit(0.001), 3))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doFrom(r, "10.0.1.1"), "request %d should be allowed", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, doFrom(r, "10.0.1.1"))
}

func TestRateLimit_PerIP(t *testing.T) {
	r := newRateLimitRouter(NewRateLimiter(rate.Limit(0.001), 1))
	assert.Equal(t, http.StatusOK, doFrom(r, "10.1.1.1"))
	assert.Equal(t, http.StatusOK, doFrom(r, "10.1.1.2"))
	assert.Equal(t, http.StatusTooManyRequests, doFrom(r, "10.1.1.1"))
}

func TestRateLimit_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 1)
	limiter.allow("10.2.0.1")
	limiter.allow("10.2.0.2")

	assert.Equal(t, 2, limiter.Cleanup(time.Hour))
	assert.Equal(t, 0, limiter.Cleanup(-time.Second))
}

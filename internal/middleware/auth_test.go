package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject string, ttl time.Duration, method jwt.SigningMethod, key any) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, "hesabdari_token"))
	r.GET("/whoami", func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		ctxUserID, _ := GetUserIDFromCtx(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userID": userID, "found": ok, "ctxUserID": ctxUserID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthRouter()
	valid := signToken(t, "user-42", time.Hour, jwt.SigningMethodHS256, []byte(testSecret))

	tests := []struct {
		name       string
		setup      func(req *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bearer token",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusOK,
			wantBody:   `{"userID":"user-42","found":true,"ctxUserID":"user-42"}`,
		},
		{
			name: "cookie token",
			setup: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: "hesabdari_token", Value: valid})
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"userID":"user-42","found":true,"ctxUserID":"user-42"}`,
		},
		{
			name:       "missing credentials",
			setup:      func(req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Authorization header required","kind":"Unauthorized"}`,
		},
		{
			name:       "malformed header",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "Token "+valid) },
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Authorization header format must be Bearer {token}","kind":"Unauthorized"}`,
		},
		{
			name: "expired token",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, "user-42", -time.Minute, jwt.SigningMethodHS256, []byte(testSecret)))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Token has expired","kind":"Unauthorized"}`,
		},
		{
			name: "wrong secret",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, "user-42", time.Hour, jwt.SigningMethodHS256, []byte("other")))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid token","kind":"Unauthorized"}`,
		},
		{
			name: "empty subject",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, "", time.Hour, jwt.SigningMethodHS256, []byte(testSecret)))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid token claims","kind":"Unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestStructuredLoggingMiddlewareSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.Default()))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := NewMemoryLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimit(lim))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = NewMemoryLimiter("not-a-rate")
	assert.Error(t, err)
}

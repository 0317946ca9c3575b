package middleware

import (
	"bitwise74/media-api/db"
	"context"
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/pkg/security"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

var secret = []byte("middleware-secret")

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.Any("/", append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})...)

	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	d, err := db.Open(sqlite.Open(filepath.Join(t.TempDir(), "mw.db")))
	require.NoError(t, err)
	require.NoError(t, d.Create(&model.User{ID: "u1", Email: "u1@example.com", PasswordHash: "x", Stats: model.Stats{UserID: "u1"}}).Error)

	r := newEngine(NewJWTMiddleware(secret, d))

	valid, err := security.IssueToken(secret, "u1", time.Hour)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+valid)

		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "u1", w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: valid})

		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "u1", w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), `"code":"unauthenticated"`)
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := security.IssueToken([]byte("other"), "u1", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		require.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost, err := security.IssueToken(secret, "ghost", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+ghost)

		w := serve(r, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "User not found")
	})
}

func TestBodySizeLimiter(t *testing.T) {
	r := newEngine(BodySizeLimiter(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("small")))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("way too large for the limit")))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// No Content-Length, cut off while reading
	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(bytes.NewBufferString("way too large for the limit")))
	req.ContentLength = -1
	require.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)
}

func TestRateLimiter(t *testing.T) {
	r := newEngine(RateLimiterMiddleware(RateLimiterConfig{Context: t.Context(), RequestsPerSecond: 1, Burst: 2}))

	codes := []int{}
	for range 3 {
		codes = append(codes, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := newEngine(RateLimiterMiddleware(RateLimiterConfig{}))

	for range 20 {
		require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestRateLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	v := &visitors{seen: make(map[string]*visitor), rps: 1, burst: 1}
	v.get("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		v.cleanup(ctx, time.Millisecond, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		return len(v.seen) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup kept running after its context was cancelled")
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, w.Header().Get("X-Request-ID"), 10)
}

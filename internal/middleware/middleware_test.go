package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestRequestID_Generated(t *testing.T) {
	r := gin.New()
	var seen string
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_ClientSupplied(t *testing.T) {
	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{"well formed", "trace-1234", true},
		{"contains space", "bad id", false},
		{"contains path separator", "../../x", false},
		{"too long", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestID())
			r.GET("/", okHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if tt.reused {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
				assert.NotEmpty(t, got)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, send("192.0.2.1").Code)

	w := send("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, send("192.0.2.2").Code)
}

func TestRateLimit_Evict(t *testing.T) {
	rl := NewRateLimiter(60, 10)
	defer rl.Stop()

	now := time.Now()
	rl.limiterFor("old", now.Add(-staleAfter-time.Second))
	rl.limiterFor("fresh", now)

	assert.Equal(t, 1, rl.evict(now))
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "fresh")
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"wildcard", []string{"*"}, "https://anywhere.example", "*"},
		{"listed origin", []string{"https://app.example"}, "https://app.example", "https://app.example"},
		{"unlisted origin", []string{"https://app.example"}, "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.allowed))
			r.GET("/", okHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			assert.ErrorIs(t, c.Request.Context().Err(), context.DeadlineExceeded)
			c.Status(http.StatusServiceUnavailable)
		case <-time.After(time.Second):
			c.Status(http.StatusOK)
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.Out = &buf
	log.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestID(), Logger(log))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "log-test")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"level":"warning"`)
	assert.Contains(t, out, `"path":"/missing"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"request_id":"log-test"`)
}

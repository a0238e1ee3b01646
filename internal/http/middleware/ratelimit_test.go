package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func rlTestRouter(limit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", limit, func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func resetClients() {
	rlMu.Lock()
	clients = make(map[string]*clientInfo)
	rlMu.Unlock()
}

func TestSimpleRateLimitBlocksAfterMax(t *testing.T) {
	resetClients()
	r := rlTestRouter(SimpleRateLimit(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d; want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d; want 429", w.Code)
	}
}

func TestSimpleRateLimitWindowResets(t *testing.T) {
	resetClients()
	r := rlTestRouter(SimpleRateLimit(1, 10*time.Millisecond))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d; want 200", w.Code)
	}

	time.Sleep(20 * time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("after window: status = %d; want 200", w.Code)
	}
}

func TestRedisRateLimitFallsBackWithoutRedis(t *testing.T) {
	resetClients()
	redisClient = nil
	r := rlTestRouter(RedisRateLimit(1, time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d; want 200", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d; want 429", w.Code)
	}
}

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handlershared "github.com/souq-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func TestKeyByCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/finance/reconcile", nil)
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByCaller(c); key != "1.2.3.4" {
		t.Fatalf("anonymous key want 1.2.3.4 got %s", key)
	}

	c.Set(handlershared.CallerIDKey, uint(42))
	if key := KeyByCaller(c); key != "caller:42" {
		t.Fatalf("caller key want caller:42 got %s", key)
	}
}

func TestKeyByCallerAndParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/inventory/products/7/stock", nil)
	c.Request.RemoteAddr = "1.2.3.4:5678"
	c.Set(handlershared.CallerIDKey, uint(3))

	if key := KeyByCallerAndParam("id")(c); key != "caller:3" {
		t.Fatalf("key without param want caller:3 got %s", key)
	}

	c.Params = gin.Params{{Key: "id", Value: " 7 "}}
	if key := KeyByCallerAndParam("id")(c); key != "caller:3|7" {
		t.Fatalf("key want caller:3|7 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, nil))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status want 200 got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("expected handler response body, got %s", w.Body.String())
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "numeric string", input: "14", want: 14, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
		{name: "nil", input: nil, want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	cases := []struct {
		ttl    int64
		window int
		want   int
	}{
		{ttl: 17, window: 60, want: 17},
		{ttl: -1, window: 60, want: 60},
		{ttl: 0, window: 0, want: 1},
	}
	for _, tc := range cases {
		if got := retryAfterSeconds(tc.ttl, tc.window); got != tc.want {
			t.Fatalf("retryAfterSeconds(%d, %d) want %d got %d", tc.ttl, tc.window, tc.want, got)
		}
	}
}

func TestRateLimitRuleEnabled(t *testing.T) {
	if (RateLimitRule{WindowSeconds: 60}).enabled() {
		t.Fatalf("rule without max requests should be disabled")
	}
	if !(RateLimitRule{WindowSeconds: 60, MaxRequests: 3}).enabled() {
		t.Fatalf("rule with window and max should be enabled")
	}
}

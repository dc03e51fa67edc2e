package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) { c.String(http.StatusOK, c.GetString("user_id")) }

func newManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{JWTSecret: "middleware-secret-0123456789", TokenTTL: time.Hour})
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	r := gin.New()
	r.GET("/x", JWTAuth(newManager()), okHandler)

	for _, h := range []string{"Token abc", "Bearer", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", h)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%q: 期望 401，实际 %d", h, w.Code)
		}
	}
}

func TestJWTAuthQuery_TokenParam(t *testing.T) {
	mgr := newManager()
	token, _ := mgr.GenerateToken("u1", "OFFICER")

	r := gin.New()
	r.GET("/x", JWTAuthQuery(mgr), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?token="+token, nil))
	if w.Code != http.StatusOK || w.Body.String() != "u1" {
		t.Fatalf("期望 200 且注入 user_id，实际 %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("缺少 token 期望 401，实际 %d", w.Code)
	}
}

func TestRoleAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("role", c.Query("role"))
		c.Next()
	}, RoleAuth("SUPER_ADMIN", "DEPARTMENT_HEAD"), okHandler)

	cases := map[string]int{
		"SUPER_ADMIN":     http.StatusOK,
		"DEPARTMENT_HEAD": http.StatusOK,
		"OFFICER":         http.StatusForbidden,
		"":                http.StatusUnauthorized,
	}
	for role, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?role="+role, nil))
		if w.Code != want {
			t.Errorf("role=%q: 期望 %d，实际 %d", role, want, w.Code)
		}
	}
}

func TestRateLimit_LocalFallback(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 2, time.Minute, zap.NewNop()), okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("前两次请求应放行: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("第三次请求期望 429，实际 %d", codes[2])
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望 500，实际 %d", w.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(8), okHandler)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.ContentLength = 64
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}
}

func TestRedactQuery(t *testing.T) {
	if got := redactQuery("a=1&token=secret"); got != "a=1&token=%2A%2A%2A" {
		t.Errorf("token 未隐藏: %s", got)
	}
	if got := redactQuery("a=1"); got != "a=1" {
		t.Errorf("不含 token 的查询串不应改变: %s", got)
	}
}

func TestRequestID_LoggerCarriesID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(RequestID(logger), Logger(logger))
	r.GET("/ok", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-abc-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-abc-1" {
		t.Errorf("期望回显 req-abc-1，实际 %q", got)
	}
	entries := logs.FilterField(zap.String("request_id", "req-abc-1")).All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条携带 request_id 的日志，实际 %d", len(entries))
	}
}

func TestRequestID_RejectsUnprintable(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(zap.NewNop()))
	r.GET("/ok", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "bad id\twith spaces")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	got := w.Header().Get("X-Request-ID")
	if got == "" || got == "bad id\twith spaces" {
		t.Errorf("非法 Request-ID 应被替换，实际 %q", got)
	}
}

func TestRecovery_UsesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(RequestID(logger), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-panic")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if n := logs.FilterField(zap.String("request_id", "req-panic")).Len(); n != 1 {
		t.Errorf("panic 日志应携带 request_id，实际 %d 条", n)
	}
}

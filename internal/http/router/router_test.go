package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/closespark/vrm-properties-demo-site/internal/events"
	apphttp "github.com/closespark/vrm-properties-demo-site/internal/http"
	"github.com/closespark/vrm-properties-demo-site/platform/httpkit"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
)

type testHTTPConfig struct{}

func (testHTTPConfig) GetEnv() string           { return "test" }
func (testHTTPConfig) GetHTTPAddr() string      { return ":0" }
func (testHTTPConfig) GetCORSAllowAll() bool    { return true }
func (testHTTPConfig) GetCORSOrigins() []string { return nil }
func (testHTTPConfig) GetCORSAllowCreds() bool  { return false }
func (testHTTPConfig) GetRateLimitRPS() float64 { return 1000 }
func (testHTTPConfig) GetRateLimitBurst() int   { return 1000 }

type pingModule struct {
	registrations int
}

func (m *pingModule) Name() string { return "ping" }

func (m *pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.registrations++
	ctx.API.POST("/ping", ctx.FormRateLimiter.RateLimit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
}

func newTestRouter(modules ...apphttp.Module) *gin.Engine {
	log := logger.New("development")
	return New(&apphttp.App{
		Config:   testHTTPConfig{},
		Logger:   log,
		EventBus: events.NewInMemoryBus(log),
		Modules:  modules,
	})
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterServesHealth(t *testing.T) {
	engine := newTestRouter()

	w := get(engine, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body)
	}
}

func TestRouterServesMetrics(t *testing.T) {
	engine := newTestRouter()

	w := get(engine, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("expected metrics exposition output")
	}
}

func TestRouterRegistersModuleRoutes(t *testing.T) {
	mod := &pingModule{}
	engine := newTestRouter(mod)

	if mod.registrations != 1 {
		t.Fatalf("expected 1 registration, got %d", mod.registrations)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get(httpkit.RequestIDHeader) == "" {
		t.Error("expected request id header on response")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on response")
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	engine := newTestRouter(&pingModule{})

	w := get(engine, "/api/ping")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}

	var body httpkit.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Method not allowed" {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestRouterNotFound(t *testing.T) {
	engine := newTestRouter()

	w := get(engine, "/api/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var body httpkit.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Not found" {
		t.Errorf("unexpected message: %q", body.Message)
	}
}

func TestRouterFormRateLimitKicksIn(t *testing.T) {
	engine := newTestRouter(&pingModule{})

	var last int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst exhausted, got %d", last)
	}
}

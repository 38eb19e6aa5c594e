package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hybrid-cipher-go/internal/config"
	"github.com/hybrid-cipher-go/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, h2c bool) *Server {
	t.Helper()
	cfg := &config.Config{
		Scheme:    config.SchemeConfig{Address: "127.0.0.1", HTTPPort: 0, EnableH2C: h2c},
		Cipher:    config.CipherConfig{Columns: 12, KeySize: 16, DefaultType: "hybrid"},
		Cache:     config.CacheConfig{Enable: true, Expiration: 10},
		DataDir:   t.TempDir(),
		JWTSecret: "test-secret",
		JWTExpire: 1,
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, handler.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp handler.APIResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	w, resp := call(t, h, http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d body = %s", w.Code, w.Body.String())
	}
	token, _ := resp.Data.(map[string]interface{})["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t, false)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s missing X-Request-ID", path)
		}
	}

	var health HealthResponse
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("parse health: %v", err)
	}
	if health.Status != "ok" || len(health.Schemes) != 3 {
		t.Errorf("health = %+v", health)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-42")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "client-42" {
		t.Errorf("X-Request-ID = %q, want client-42", got)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Handler()

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := call(t, h, http.MethodGet, "/api/keysets", tt.token, nil)
			if w.Code != http.StatusUnauthorized || resp.Code != 401 {
				t.Errorf("status = %d code = %d, want 401", w.Code, resp.Code)
			}
		})
	}
}

func TestChangeDefaultPassword(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Handler()
	body := map[string]string{"password": "admin", "new_password": "rotated-secret"}

	if w, _ := call(t, h, http.MethodPost, "/api/password", "", body); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	token := login(t, h)
	if w, resp := call(t, h, http.MethodPost, "/api/password", token, body); w.Code != http.StatusOK || resp.Code != 0 {
		t.Fatalf("change password = %d %+v", w.Code, resp)
	}

	w, _ := call(t, h, http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "admin"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("default password still accepted: status = %d", w.Code)
	}
	w, _ = call(t, h, http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "rotated-secret"})
	if w.Code != http.StatusOK {
		t.Errorf("new password login = %d, want 200", w.Code)
	}
}

func TestEndToEnd(t *testing.T) {
	for _, h2c := range []bool{false, true} {
		s := newTestServer(t, h2c)
		h := s.Handler()
		token := login(t, h)

		w, resp := call(t, h, http.MethodPost, "/api/keysets", token, map[string]interface{}{"name": "demo", "columns": 12})
		if w.Code != http.StatusOK {
			t.Fatalf("create key set = %d %+v", w.Code, resp)
		}

		_, resp = call(t, h, http.MethodPost, "/api/encrypt", token, map[string]string{"key_set": "demo", "plaintext": "This is Hybrid"})
		ciphertext, _ := resp.Data.(map[string]interface{})["ciphertext"].(string)
		if len(ciphertext) != 48 {
			t.Fatalf("ciphertext hex = %q, want 48 chars", ciphertext)
		}

		_, resp = call(t, h, http.MethodPost, "/api/decrypt", token, map[string]string{"key_set": "demo", "ciphertext": ciphertext})
		if got, _ := resp.Data.(map[string]interface{})["plaintext"].(string); got != "This is Hybrid" {
			t.Errorf("h2c=%v: plaintext = %q", h2c, got)
		}

		w, resp = call(t, h, http.MethodPost, "/api/decrypt", token, map[string]string{"key_set": "demo", "ciphertext": ciphertext[:46]})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("truncated ciphertext status = %d %+v, want 422", w.Code, resp)
		}
	}
}

func TestGzipResponse(t *testing.T) {
	s := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodOptions, "/api/encrypt", nil)
	req.Header.Set("Origin", "http://client.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Code >= 400 {
		t.Errorf("preflight status = %d", w.Code)
	}
}

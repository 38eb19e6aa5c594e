package client

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hybrid-cipher-go/internal/config"
	"github.com/hybrid-cipher-go/internal/encryption"
	apperrors "github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/handler"
	"github.com/hybrid-cipher-go/internal/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func startServer(t *testing.T, h2c bool) string {
	t.Helper()
	s, err := server.New(&config.Config{
		Scheme:    config.SchemeConfig{Address: "127.0.0.1", EnableH2C: h2c},
		Cipher:    config.CipherConfig{Columns: 12, KeySize: 16, DefaultType: "hybrid"},
		DataDir:   t.TempDir(),
		JWTSecret: "test-secret",
		JWTExpire: 1,
	})
	if err != nil {
		t.Fatalf("server.New error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown(context.Background())
	})
	return ts.URL
}

func TestNewRejectsBadURL(t *testing.T) {
	tests := []config.ClientConfig{
		{ServerURL: ""},
		{ServerURL: "ftp://example.com"},
		{ServerURL: "http://"},
		{ServerURL: "https://example.com", EnableH2C: true},
	}
	for _, cfg := range tests {
		if _, err := New(cfg); !errors.Is(err, apperrors.NewBadRequest("")) {
			t.Errorf("New(%+v) error = %v, want bad request", cfg, err)
		}
	}
}

func TestRemoteRoundTrip(t *testing.T) {
	for _, h2c := range []bool{false, true} {
		url := startServer(t, h2c)
		c, err := New(config.ClientConfig{ServerURL: url, EnableH2C: h2c, Timeout: 10})
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		ctx := context.Background()

		if err := c.Login(ctx, "admin", "admin"); err != nil {
			t.Fatalf("h2c=%v: Login error: %v", h2c, err)
		}
		if c.Token() == "" {
			t.Fatal("Login kept no token")
		}

		record, err := c.CreateKeySet(ctx, "remote", 8)
		if err != nil {
			t.Fatalf("CreateKeySet error: %v", err)
		}
		if record.Keys.Permutation.Columns() != 8 {
			t.Errorf("columns = %d, want 8", record.Keys.Permutation.Columns())
		}

		names, err := c.ListKeySets(ctx)
		if err != nil || len(names) != 1 || names[0] != "remote" {
			t.Errorf("ListKeySets = %v, %v", names, err)
		}

		ciphertext, err := c.Encrypt(ctx, handler.EncryptRequest{KeySet: "remote", Plaintext: "This is Hybrid"})
		if err != nil {
			t.Fatalf("Encrypt error: %v", err)
		}
		local, _ := encryption.HybridEncrypt("This is Hybrid", record.Keys.StreamKey, record.Keys.Permutation)
		if string(ciphertext) != string(local) {
			t.Errorf("remote ciphertext differs from local encryption")
		}

		plaintext, err := c.Decrypt(ctx, handler.DecryptRequest{KeySet: "remote", Ciphertext: hex.EncodeToString(ciphertext)})
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if plaintext != "This is Hybrid" {
			t.Errorf("plaintext = %q", plaintext)
		}

		_, err = c.Decrypt(ctx, handler.DecryptRequest{KeySet: "remote", Ciphertext: hex.EncodeToString(ciphertext[1:])})
		if !errors.Is(err, apperrors.ErrInvalidLength) {
			t.Errorf("truncated decrypt error = %v, want InvalidLength", err)
		}
	}
}

func TestRemoteErrors(t *testing.T) {
	c, err := New(config.ClientConfig{ServerURL: startServer(t, false)})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	_, err = c.ListKeySets(ctx)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("unauthenticated ListKeySets error = %v, want 401", err)
	}

	if err := c.Login(ctx, "admin", "wrong"); err == nil {
		t.Error("Login with wrong password should fail")
	}

	c.SetToken("not-a-jwt")
	if _, err := c.Encrypt(ctx, handler.EncryptRequest{KeySet: "x"}); err == nil {
		t.Error("Encrypt with a bad token should fail")
	}
}

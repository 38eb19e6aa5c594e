package client

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"

	"github.com/hybrid-cipher-go/internal/config"
	"github.com/hybrid-cipher-go/internal/dao"
	apperrors "github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/handler"
)

// Client talks to a hybridcrypt API server
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// New creates a client for cfg.ServerURL. With EnableH2C the client speaks
// HTTP/2 cleartext with prior knowledge.
func New(cfg config.ClientConfig) (*Client, error) {
	u, err := url.Parse(cfg.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("invalid server url %q", cfg.ServerURL))
	}
	if cfg.EnableH2C && u.Scheme != "http" {
		return nil, apperrors.NewBadRequest("h2c requires an http:// server url")
	}

	var transport http.RoundTripper
	if cfg.EnableH2C {
		transport = &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		}
	} else {
		t := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, err
		}
		transport = t
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: strings.TrimRight(u.String(), "/"),
	}, nil
}

// SetToken sets the bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token
func (c *Client) Token() string {
	return c.token
}

// Login exchanges credentials for a token and keeps it for later calls
func (c *Client) Login(ctx context.Context, username, password string) error {
	var data struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", handler.LoginRequest{Username: username, Password: password}, &data)
	if err != nil {
		return err
	}
	c.token = data.Token
	return nil
}

// CreateKeySet asks the server to generate and store a key set
func (c *Client) CreateKeySet(ctx context.Context, name string, columns int) (*dao.KeySetRecord, error) {
	var record dao.KeySetRecord
	req := handler.CreateKeySetRequest{Name: name, Columns: columns}
	if err := c.do(ctx, http.MethodPost, "/api/keysets", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListKeySets returns the names of the server's key sets
func (c *Client) ListKeySets(ctx context.Context) ([]string, error) {
	var data struct {
		Names []string `json:"names"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/keysets", nil, &data); err != nil {
		return nil, err
	}
	return data.Names, nil
}

// Encrypt returns the raw ciphertext the server produced
func (c *Client) Encrypt(ctx context.Context, req handler.EncryptRequest) ([]byte, error) {
	var data struct {
		Ciphertext string `json:"ciphertext"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/encrypt", req, &data); err != nil {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(data.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("server returned malformed ciphertext: %w", err)
	}
	return ciphertext, nil
}

// Decrypt returns the plaintext the server recovered
func (c *Client) Decrypt(ctx context.Context, req handler.DecryptRequest) (string, error) {
	var data struct {
		Plaintext string `json:"plaintext"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/decrypt", req, &data); err != nil {
		return "", err
	}
	return data.Plaintext, nil
}

// do sends one API call. Error envelopes come back as *errors.AppError so
// callers can match them with errors.Is exactly as for local calls.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	b := NewRequest(method, c.baseURL+path).WithContext(ctx).WithBearer(c.token)
	if body != nil {
		b = b.WithJSON(body)
	}
	req, err := b.Build()
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("proto", resp.Proto).
		Dur("duration", time.Since(start)).
		Msg("API call")

	var envelope struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return apperrors.NewInternalWithCause(fmt.Sprintf("unexpected %s response", resp.Status), err)
	}

	if resp.StatusCode != http.StatusOK || envelope.Code != 0 {
		return &apperrors.AppError{
			Code:       apperrors.ErrorCode(envelope.Code),
			Message:    envelope.Msg,
			HTTPStatus: resp.StatusCode,
		}
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

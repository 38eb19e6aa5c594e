package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// RequestBuilder provides a fluent API for building HTTP requests
type RequestBuilder struct {
	ctx     context.Context
	method  string
	url     string
	body    io.Reader
	headers http.Header
	err     error
}

// NewRequest creates a new RequestBuilder
func NewRequest(method, url string) *RequestBuilder {
	return &RequestBuilder{
		method:  method,
		url:     url,
		headers: make(http.Header),
	}
}

// WithContext sets the request context
func (b *RequestBuilder) WithContext(ctx context.Context) *RequestBuilder {
	b.ctx = ctx
	return b
}

// WithBody sets the request body from bytes
func (b *RequestBuilder) WithBody(body []byte) *RequestBuilder {
	b.body = bytes.NewReader(body)
	return b
}

// WithJSON encodes v as the request body
func (b *RequestBuilder) WithJSON(v interface{}) *RequestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	b.headers.Set("Content-Type", "application/json")
	return b.WithBody(data)
}

// WithHeader adds a single header
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers.Set(key, value)
	return b
}

// WithBearer sets the Authorization header; an empty token is skipped
func (b *RequestBuilder) WithBearer(token string) *RequestBuilder {
	if token == "" {
		return b
	}
	return b.WithHeader("Authorization", "Bearer "+token)
}

// Build creates the http.Request
func (b *RequestBuilder) Build() (*http.Request, error) {
	if b.err != nil {
		return nil, b.err
	}

	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, b.method, b.url, b.body)
	if err != nil {
		return nil, err
	}

	for key, values := range b.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return req, nil
}

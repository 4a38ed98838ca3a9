// Package client is the typed HTTP client for the implication editor API.
// Editor frontends use it to read context state, fetch suggestions, and flush
// change sets back to the collaborating server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stateworks/go-implied/pkg/model"
	"github.com/stateworks/go-implied/pkg/suggest"
)

// CollaboratorError is a non-2xx response from the editor API, carrying the
// server's error envelope so callers can branch on the machine code.
type CollaboratorError struct {
	Status  int
	Code    string
	Message string
}

func (e *CollaboratorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("collaborator: %s (%s, HTTP %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("collaborator: %s (HTTP %d)", e.Message, e.Status)
}

// Client talks to one editor server. The zero value is not usable; construct
// with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, for tests or custom
// transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:3001".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SuggestedField is a server suggestion with its display confidence attached.
type SuggestedField struct {
	suggest.SuggestedField
	Confidence suggest.Confidence `json:"confidence"`
}

// List returns the implication names the server knows about.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var payload struct {
		Implications []string `json:"implications"`
	}
	if err := c.get(ctx, "/api/implications/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Implications, nil
}

// Context fetches the named implication's context fields, key order preserved.
func (c *Client) Context(ctx context.Context, file string) (*model.ContextSet, error) {
	var payload struct {
		Context *model.ContextSet `json:"context"`
	}
	query := url.Values{"file": {file}}
	if err := c.get(ctx, "/api/implications/context", query, &payload); err != nil {
		return nil, err
	}
	if payload.Context == nil {
		payload.Context = model.NewContextSet()
	}
	return payload.Context, nil
}

// SuggestedFields returns the spec-derived fields missing from the named
// implication's context.
func (c *Client) SuggestedFields(ctx context.Context, file, spec string) ([]SuggestedField, error) {
	var payload struct {
		Missing []SuggestedField `json:"missingFromContext"`
	}
	query := url.Values{"file": {file}, "spec": {spec}}
	if err := c.get(ctx, "/api/implications/suggested-fields", query, &payload); err != nil {
		return nil, err
	}
	return payload.Missing, nil
}

// AddField creates a context field on the server. A nil initialValue with a
// non-null fieldType gets that type's default.
func (c *Client) AddField(ctx context.Context, file, name string, initialValue any, fieldType model.ValueType) error {
	body := map[string]any{
		"filePath":     file,
		"fieldName":    name,
		"initialValue": initialValue,
		"fieldType":    string(fieldType),
	}
	return c.post(ctx, "/api/implications/add-context-field", body)
}

// DeleteField removes a context field on the server.
func (c *Client) DeleteField(ctx context.Context, file, name string) error {
	body := map[string]any{
		"filePath":  file,
		"fieldName": name,
	}
	return c.post(ctx, "/api/implications/delete-context-field", body)
}

// UpdateContext flushes a batch of field updates and removals in one request.
func (c *Client) UpdateContext(ctx context.Context, file string, updates map[string]any, removed []string) error {
	body := map[string]any{
		"filePath":       file,
		"contextUpdates": updates,
		"removedFields":  removed,
	}
	return c.post(ctx, "/api/implications/update-context", body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("client: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	collab := &CollaboratorError{Status: resp.StatusCode}
	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		collab.Message = envelope.Error
		collab.Code = envelope.Code
	} else {
		collab.Message = http.StatusText(resp.StatusCode)
	}
	return collab
}

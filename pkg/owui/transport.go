package owui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// transport performs JSON requests against the API and decodes responses.
// It is shared by every router on a Client.
type transport struct {
	base   *url.URL
	apiKey string
	client *http.Client
}

// do sends one request. body is JSON-encoded when non-nil; out, when non-nil,
// receives the decoded response body. Non-2xx responses return *APIError.
func (t *transport) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := t.resolve(path, query)

	var reqBody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("owui: encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("owui: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("owui: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("owui: decode response: %w", err)
	}

	return nil
}

// get is shorthand for a GET request.
func (t *transport) get(ctx context.Context, path string, query url.Values, out any) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out)
}

// post is shorthand for a POST request with a JSON body.
func (t *transport) post(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPost, path, nil, body, out)
}

// delete is shorthand for a DELETE request.
func (t *transport) delete(ctx context.Context, path string) error {
	return t.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// resolve joins the base URL with a relative API path and optional query.
func (t *transport) resolve(path string, query url.Values) string {
	u := *t.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}

	return u.String()
}

// decodeAPIError turns a non-2xx response into an *APIError. Open WebUI
// reports failures as {"detail": "..."}; anything else keeps the raw body.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Detail string `json:"detail"`
	}

	detail := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	}

	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

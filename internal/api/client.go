// Package api is the HTTP client for the remote todo service. It attaches
// the bearer token to every outgoing request and maps responses onto typed
// errors; it never retries or refreshes on its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/idilsaglam/taskdeck/internal/model"
)

// TokenSource yields the current bearer token at call time. Reporting no
// token sends the request unauthenticated and lets the server decide.
type TokenSource func() (string, bool)

// Client talks to one todo service instance.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a Client for the given base endpoint. tokens may be nil
// for a client that never authenticates (register-only flows in tests).
func NewClient(endpoint string, tokens TokenSource) *Client {
	return &Client{
		base: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Transport: &bearerTransport{tokens: tokens},
		},
	}
}

// bearerTransport injects the Authorization header. The token is read per
// request so a login or logout mid-session takes effect immediately.
type bearerTransport struct {
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token, ok := t.tokens(); ok && token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	slog.Debug("api request", "method", req.Method, "url", req.URL.String())
	return http.DefaultTransport.RoundTrip(req)
}

// do runs one request/response cycle. A non-nil in is sent as a JSON body;
// a non-nil out receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if b, err := io.ReadAll(resp.Body); err == nil {
			if json.Unmarshal(b, &errBody) == nil {
				apiErr.Message = errBody.Message
			}
		}
		slog.Debug("api error", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Register creates a new account. The user still logs in afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	in := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{name, email, password}
	return c.do(ctx, http.MethodPost, "/auth/register", in, nil)
}

// ListTodos fetches the page of todos matching q.
func (c *Client) ListTodos(ctx context.Context, q model.ListQuery) (model.Page, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != nil {
		v.Set("status", string(*q.Status))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}

	var out struct {
		Data struct {
			Todos []model.Todo `json:"todos"`
			Meta  struct {
				TotalItems int `json:"totalItems"`
				TotalPages int `json:"totalPages"`
			} `json:"meta"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/todos/get-all?"+v.Encode(), nil, &out); err != nil {
		return model.Page{}, err
	}

	page := model.Page{
		Items:      out.Data.Todos,
		TotalItems: out.Data.Meta.TotalItems,
		TotalPages: out.Data.Meta.TotalPages,
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page, nil
}

// todoBody is the create/update payload. Empty optional fields are omitted
// so status-only updates send just {"status": …}.
type todoBody struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      model.Status `json:"status,omitempty"`
}

// CreateTodo adds a todo and returns the server's copy.
func (c *Client) CreateTodo(ctx context.Context, title, description string, status model.Status) (model.Todo, error) {
	var out model.Todo
	in := todoBody{Title: title, Description: description, Status: status}
	if err := c.do(ctx, http.MethodPost, "/todos/create", in, &out); err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

// UpdateTodo rewrites a todo's title, description, and status.
func (c *Client) UpdateTodo(ctx context.Context, id, title, description string, status model.Status) (model.Todo, error) {
	var out model.Todo
	in := todoBody{Title: title, Description: description, Status: status}
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), in, &out); err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

// UpdateStatus sends a status-only partial update.
func (c *Client) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	return c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), todoBody{Status: status}, nil)
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

// Package remote is the client.Store backed by the ProTimer REST API.
package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/protimer/client"
	"github.com/trezcool/protimer/core/user"
)

const DefaultSessionCookieName = "protimer_session"

type Options struct {
	BaseURL           string // e.g. http://localhost:8000
	Token             string // session token from a previous login
	SessionCookieName string
	HTTPClient        *http.Client
}

// Client talks to the API on behalf of one user, keeping the session cookie between requests.
type Client struct {
	baseURL    string
	cookieName string
	rest       *rest.Client

	mu    sync.RWMutex
	token string
}

var _ client.Store = (*Client)(nil) // interface compliance check

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cookieName := opts.SessionCookieName
	if cookieName == "" {
		cookieName = DefaultSessionCookieName
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/") + "/api",
		cookieName: cookieName,
		rest:       &rest.Client{HTTPClient: httpClient},
		token:      opts.Token,
	}
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Close() error { return nil }

type loginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (user.User, error) {
	var resp loginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, rest.Post, "/login", nil, body, &resp); err != nil {
		return user.User{}, err
	}
	c.setToken(resp.Token)
	return resp.User, nil
}

func (c *Client) Register(ctx context.Context, nu user.NewUser) (user.User, error) {
	var usr user.User
	err := c.do(ctx, rest.Post, "/register", nil, nu, &usr)
	return usr, err
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, rest.Post, "/logout", nil, nil, nil)
	c.setToken("")
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (user.User, error) {
	var usr user.User
	err := c.do(ctx, rest.Get, "/user", nil, nil, &usr)
	return usr, err
}

func (c *Client) RefreshToken(ctx context.Context) error {
	var resp loginResponse
	if err := c.do(ctx, rest.Post, "/token-refresh", nil, nil, &resp); err != nil {
		return err
	}
	c.setToken(resp.Token)
	return nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, rest.Post, "/password-reset", nil, map[string]string{"email": email}, nil)
}

func idPath(prefix string, id int, suffix ...string) string {
	return prefix + "/" + strconv.Itoa(id) + strings.Join(suffix, "")
}

// do sends a JSON request and decodes the response into out, when given.
func (c *Client) do(ctx context.Context, method rest.Method, path string, query map[string]string, body, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = payload
		req.Headers["Content-Type"] = "application/json"
	}
	if token := c.Token(); token != "" {
		req.Headers["Cookie"] = (&http.Cookie{Name: c.cookieName, Value: token}).String()
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	c.captureSession(resp.Headers)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	if out == nil || resp.Body == "" {
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(resp.Body), out), "decoding response")
}

// send is rest.Client.Send bound to ctx.
func (c *Client) send(ctx context.Context, req rest.Request) (*rest.Response, error) {
	hreq, err := rest.BuildRequestObject(req)
	if err != nil {
		return nil, err
	}
	res, err := c.rest.MakeRequest(hreq.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return rest.BuildResponse(res)
}

// captureSession follows the session cookie the server sets or expires.
func (c *Client) captureSession(headers map[string][]string) {
	for _, cookie := range (&http.Response{Header: headers}).Cookies() {
		if cookie.Name != c.cookieName {
			continue
		}
		if cookie.MaxAge < 0 || cookie.Value == "" {
			c.setToken("")
		} else {
			c.setToken(cookie.Value)
		}
	}
}

func decodeError(resp *rest.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return client.ErrUnauthorized
	case http.StatusNotFound:
		return client.ErrNotFound
	}

	cErr := &client.Error{Status: resp.StatusCode}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Body), &payload); err != nil {
		cErr.Message = strings.TrimSpace(resp.Body)
		return cErr
	}
	for _, key := range []string{"error", "message"} {
		if msg, ok := payload[key].(string); ok && len(payload) == 1 {
			cErr.Message = msg
			return cErr
		}
	}
	cErr.Fields = make(map[string]string, len(payload))
	for fld, v := range payload {
		if msg, ok := v.(string); ok {
			cErr.Fields[fld] = msg
		}
	}
	return cErr
}

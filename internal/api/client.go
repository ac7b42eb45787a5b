// Package api is the authenticated request pipeline of the client and
// the thin per-resource wrappers built on it.
//
// Every call attaches the stored bearer credential, unwraps the platform's
// {code, message, data} envelope, and maps failures to typed errors. Each
// failure class also pushes a user-visible notification, and a
// transport-level 401 additionally clears the credential and sends the
// user to the login route.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoginPath is where a 401 sends the user.
const LoginPath = "/login"

// Messages pushed to the notifier for each failure class.
const (
	MsgSessionExpired = "Session expired, please sign in again"
	MsgForbidden      = "Insufficient permission"
	MsgNotFound       = "Resource not found"
	MsgServerError    = "Server error, please retry later"
	MsgNetwork        = "Network unreachable, check your connection"
	MsgConfig         = "Request configuration error"
)

// Credentials supplies the bearer value and lets the pipeline drop it.
// *token.Manager satisfies it.
type Credentials interface {
	Credential() (string, bool)
	Invalidate()
}

// Notifier receives user-visible error messages. *notify.Queue satisfies it.
type Notifier interface {
	Error(message string) uint64
}

// Navigator performs in-app navigation. *router.Router satisfies it.
type Navigator interface {
	Push(path string) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the fixed transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHardRedirect sets the fallback used for 401 handling when no
// Navigator has been registered.
func WithHardRedirect(f func(path string)) Option {
	return func(c *Client) { c.hardRedirect = f }
}

// Client sends requests to the platform API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	creds        Credentials
	notifier     Notifier
	hardRedirect func(path string)

	navMu sync.RWMutex
	nav   Navigator
}

// NewClient creates a Client rooted at baseURL
// (e.g., http://localhost:8080/api).
func NewClient(baseURL string, creds Credentials, notifier Notifier, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		creds:    creds,
		notifier: notifier,
		hardRedirect: func(path string) {
			log.Printf("api: no navigator registered, dropping redirect to %s", path)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetNavigator registers the navigation handle used on 401. It is called
// once at startup, after the router exists.
func (c *Client) SetNavigator(nav Navigator) {
	c.navMu.Lock()
	defer c.navMu.Unlock()
	c.nav = nav
}

func (c *Client) navigator() Navigator {
	c.navMu.RLock()
	defer c.navMu.RUnlock()
	return c.nav
}

// Get performs an HTTP GET and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, result)
}

// Post performs an HTTP POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, result any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, result)
}

// Put performs an HTTP PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, result any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, result)
}

// Delete performs an HTTP DELETE.
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, result)
}

// Do runs one request through the pipeline. A nil body sends no payload;
// a nil result discards the response payload. A request that fails because
// ctx was cancelled returns a NetworkError without notifying the user.
func (c *Client) Do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body any,
	result any,
) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return c.configFailure(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.networkFailure(ctx, method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return c.networkFailure(ctx, method, path, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusFailure(method, path, resp.StatusCode, respBody)
	}

	return decodeBody(respBody, result)
}

// newRequest builds the outgoing request and attaches the credential.
func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body any,
) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("Invalid request URL %q", c.baseURL+path), Err: err}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &ConfigError{Message: "Could not encode request body", Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, &ConfigError{Message: "Could not create request", Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.creds.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) configFailure(err error) error {
	var ce *ConfigError
	if !errors.As(err, &ce) {
		ce = &ConfigError{Message: MsgConfig, Err: err}
	}
	log.Printf("api: %v", ce)
	msg := ce.Message
	if msg == "" {
		msg = MsgConfig
	}
	c.notifier.Error(msg)
	return ce
}

func (c *Client) networkFailure(ctx context.Context, method, path string, err error) error {
	ne := &NetworkError{Message: MsgNetwork, Err: err}
	log.Printf("api: %s %s: %v", method, path, err)

	// A caller that cancelled its own request does not need to be told.
	if ctx.Err() == nil {
		c.notifier.Error(MsgNetwork)
	}
	return ne
}

func (c *Client) statusFailure(method, path string, status int, body []byte) error {
	log.Printf("api: %s %s: status %d", method, path, status)

	var msg string
	switch status {
	case http.StatusUnauthorized:
		log.Printf("api: 401 received, clearing credentials")
		c.creds.Invalidate()
		msg = MsgSessionExpired
		c.notifier.Error(msg)
		c.redirectToLogin()
	case http.StatusForbidden:
		msg = MsgForbidden
		c.notifier.Error(msg)
	case http.StatusNotFound:
		msg = MsgNotFound
		c.notifier.Error(msg)
	case http.StatusInternalServerError:
		msg = MsgServerError
		c.notifier.Error(msg)
	default:
		msg = serverMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("Request failed (%d)", status)
		}
		c.notifier.Error(msg)
	}

	return &HTTPError{Status: status, Message: msg}
}

// redirectToLogin navigates in-app when a navigator is registered and
// falls back to the hard redirect otherwise.
func (c *Client) redirectToLogin() {
	if nav := c.navigator(); nav != nil {
		if err := nav.Push(LoginPath); err != nil {
			log.Printf("api: navigating to %s: %v", LoginPath, err)
		}
		return
	}
	log.Printf("api: navigator not set, using hard redirect")
	c.hardRedirect(LoginPath)
}

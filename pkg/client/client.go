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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/topicmaps/pkg/buildinfo"
	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/httputil"
	"github.com/matzehuels/topicmaps/pkg/observability"
)

// HeaderClientID carries the client id on REST and push requests.
const HeaderClientID = "X-Client-Id"

const defaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each HTTP request. Zero uses 10s.
	Timeout time.Duration
	// ClientID identifies this client to the server. Empty generates one.
	ClientID string
	// HTTPClient overrides the default client. Timeout is ignored if set.
	HTTPClient *http.Client
	// Attempts and RetryDelay tune retries. Zero uses the httputil defaults.
	Attempts   int
	RetryDelay time.Duration
	Logger     *log.Logger
}

// Client is a REST client for the remote graph store.
type Client struct {
	base     *url.URL
	http     *http.Client
	clientID string
	retry    httputil.Backoff
	logger   *log.Logger
}

// New creates a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	if err := errors.ValidateURL(opts.BaseURL, "http", "https"); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse base URL")
	}

	c := &Client{
		base:     base,
		http:     opts.HTTPClient,
		clientID: opts.ClientID,
		retry:    httputil.Backoff{Attempts: opts.Attempts, Delay: opts.RetryDelay},
		logger:   opts.Logger,
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.clientID == "" {
		c.clientID = uuid.NewString()
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	c.retry.OnRetry = func(attempt int, wait time.Duration, err error) {
		c.logger.Debug("retrying request", "attempt", attempt, "wait", wait, "err", err)
	}
	return c, nil
}

// ClientID returns the id sent with every request.
func (c *Client) ClientID() string { return c.clientID }

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// =============================================================================
// Request Helpers
// =============================================================================

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// do sends a JSON request and decodes a JSON response into out, if non-nil.
// The body is encoded once and replayed on retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode %s %s", method, path)
		}
	}

	return c.retry.Do(ctx, func() error {
		respBody, err := c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
		defer respBody.Close()
		if out == nil {
			_, _ = io.Copy(io.Discard, respBody)
			return nil
		}
		if err := json.NewDecoder(respBody).Decode(out); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "decode %s %s", method, path)
		}
		return nil
	})
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (io.ReadCloser, error) {
	u := c.base.JoinPath(path)
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build %s %s", method, path)
	}
	req.Header.Set(HeaderClientID, c.clientID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	call := observability.HTTPCall{Method: method, Host: u.Host, Path: u.Path}
	hooks.OnRequest(ctx, call)
	start := time.Now()

	resp, err := c.http.Do(req)
	call.Duration, call.Err = time.Since(start), err
	if err != nil {
		hooks.OnDone(ctx, call)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "%s %s", method, path)
		}
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path))
	}
	call.Status = resp.StatusCode
	hooks.OnDone(ctx, call)

	if err := checkStatus(method, path, resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(method, path string, resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s %s: not found", method, path)
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s %s: status %d", method, path, code))
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(errors.ErrCodeInvalidInput, "%s %s: status %d: %s", method, path, code, strings.TrimSpace(string(msg)))
	}
}

func topicmapPath(id fmt.Stringer, rest ...string) string {
	return "/" + strings.Join(append([]string{"topicmap", id.String()}, rest...), "/")
}

package twitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/clients"
	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
)

// maxBodyBytes caps how much of a response body is kept.
const maxBodyBytes = 4 << 20

// Response is a completed API call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client is bound to one named connection. It is safe for concurrent use;
// Outcome and Err report whichever call finished last.
type Client struct {
	name string
	mode AuthMode
	http *clients.Client

	mu   sync.Mutex
	last *acl.Outcome
}

// Name returns the connection name the client was built for.
func (c *Client) Name() string {
	return c.name
}

// AuthMode returns how the client signs requests.
func (c *Client) AuthMode() AuthMode {
	return c.mode
}

// Request performs a signed call. GET and DELETE params go in the query
// string, anything else is sent form encoded. The returned error is the
// translation of the call's Outcome and is nil only for 200 and 201.
func (c *Client) Request(ctx context.Context, method, path string, params url.Values) (*Response, error) {
	var body io.Reader

	if len(params) > 0 {
		if method == http.MethodGet || method == http.MethodDelete {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}

			path += sep + params.Encode()
		} else {
			body = strings.NewReader(params.Encode())
		}
	}

	req, err := c.http.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, c.record(ctx, transportOutcome(err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		// A truncated body is not a usable response, whatever the status.
		return nil, c.record(ctx, transportOutcome(clients.NewTransportError(err)))
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}

	return out, c.record(ctx, acl.Outcome{
		HTTPStatus:   resp.StatusCode,
		ErrorPayload: data,
	})
}

// Get is Request with GET.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, params)
}

// Post is Request with POST.
func (c *Client) Post(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, params)
}

// GetJSON performs a GET and decodes a successful body into out.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}

// Outcome returns the outcome of the last finished call. ok is false
// before the first call.
func (c *Client) Outcome() (outcome acl.Outcome, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil {
		return acl.Outcome{}, false
	}

	return *c.last, true
}

// Err returns the translated failure of the last call, or nil.
func (c *Client) Err() error {
	outcome, ok := c.Outcome()
	if !ok {
		return nil
	}

	return acl.CreateIfFailed(outcome)
}

// CircuitState reports the upstream circuit breaker state.
func (c *Client) CircuitState() clients.State {
	return c.http.CircuitState()
}

func (c *Client) record(ctx context.Context, o acl.Outcome) error {
	c.mu.Lock()
	c.last = &o
	c.mu.Unlock()

	err := acl.CreateIfFailed(o)
	if err != nil {
		logging.FromContext(ctx).DebugContext(ctx, "twitter call failed",
			slog.String("connection", c.name),
			slog.Int("status", o.HTTPStatus),
			slog.Any("error", err),
		)
	}

	return err
}

func transportOutcome(err error) acl.Outcome {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return acl.Outcome{
			HTTPStatus:            retrieveErr.Response.StatusCode,
			ErrorPayload:          retrieveErr.Body,
			TransportErrorMessage: err.Error(),
			TransportErrorCode:    clients.CodeReceive,
		}
	}

	code := clients.CodeReceive

	var terr *clients.TransportError
	if errors.As(err, &terr) {
		code = terr.Code
	}

	return acl.Outcome{
		TransportErrorMessage: err.Error(),
		TransportErrorCode:    code,
	}
}

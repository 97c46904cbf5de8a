// Package client evaluates expressions through a remote arithd service.
package client

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/valyala/fasthttp"

	"github.com/zephyrtronium/arith"
)

// DefaultTimeout bounds requests made without a context deadline.
const DefaultTimeout = 10 * time.Second

// Client sends expressions to the /evaluate endpoint of a server.
type Client struct {
	url     string
	timeout time.Duration
	http    *fasthttp.Client
}

// Option configures a Client.
type Option interface {
	clientOption(*Client)
}

type timeoutopt time.Duration

func (o timeoutopt) clientOption(c *Client) {
	if o > 0 {
		c.timeout = time.Duration(o)
	}
}

// Timeout sets the time limit for requests whose context has no deadline.
// Non-positive durations leave the default.
func Timeout(d time.Duration) Option {
	return timeoutopt(d)
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		url:     strings.TrimRight(baseURL, "/") + "/evaluate",
		timeout: DefaultTimeout,
		http:    &fasthttp.Client{Name: "arith"},
	}
	for _, opt := range opts {
		opt.clientOption(c)
	}
	return c
}

type request struct {
	Expression string `json:"expression"`
}

type response struct {
	Result float64 `json:"result"`
}

type failure struct {
	Detail string     `json:"detail"`
	Kind   arith.Kind `json:"kind"`
}

// Evaluate asks the server to evaluate expr. Rejected expressions produce a
// *RemoteError. Transport failures are returned as they are.
func (c *Client) Evaluate(ctx context.Context, expr string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	body, err := json.Marshal(request{Expression: expr})
	if err != nil {
		return 0, err
	}
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBodyRaw(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return 0, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return 0, remoteError(resp.StatusCode(), resp.Body())
	}
	var r response
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return 0, err
	}
	return r.Result, nil
}

func remoteError(status int, body []byte) *RemoteError {
	var f failure
	if err := json.Unmarshal(body, &f); err != nil {
		// Not one of ours, e.g. a proxy error page.
		return &RemoteError{Status: status, Detail: strings.TrimSpace(string(body))}
	}
	return &RemoteError{Status: status, Kind: f.Kind, Detail: f.Detail}
}

// RemoteError is a non-success response from the server.
type RemoteError struct {
	// Status is the HTTP status code.
	Status int
	// Kind is the evaluation error kind reported by the server, or zero if
	// the server did not report one.
	Kind arith.Kind
	// Detail is the server's description of the error.
	Detail string
}

func (err *RemoteError) Error() string {
	if err.Detail == "" {
		return "remote: " + strconv.Itoa(err.Status) + " " + fasthttp.StatusMessage(err.Status)
	}
	return "remote: " + err.Detail
}

// Is reports whether target is the Kind of err, so that errors.Is works the
// same for local and remote evaluation.
func (err *RemoteError) Is(target error) bool {
	k, ok := target.(arith.Kind)
	return ok && err.Kind != 0 && k == err.Kind
}

package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

// DefaultTimeout bounds a single catalog call.
const DefaultTimeout = 10 * time.Second

// Detail is one entry of a structured 422 body.
type Detail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// APIError is a 4xx answer from the catalog. Its details carry the
// user-facing messages.
type APIError struct {
	StatusCode int
	Details    []Detail
}

func (e *APIError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Msg)
	}
	return fmt.Sprintf("catalog: status=%d: %s", e.StatusCode, strings.Join(msgs, "; "))
}

// HTTPError is any other non-2xx answer.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog: http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("catalog: http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Client talks to the catalog HTTP API.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient returns a client for the catalog at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	u, err := url.ParseRequestURI(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("catalog: invalid base url %q", baseURL)
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(u.String(), "/"),
	}, nil
}

// Health calls GET /.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out string
	err := c.do(ctx, http.MethodGet, "/", nil, nil, &out)
	return out, err
}

// CreatePost calls POST /post.
func (c *Client) CreatePost(ctx context.Context) (domain.Post, error) {
	var out domain.Post
	err := c.do(ctx, http.MethodPost, "/post", nil, nil, &out)
	return out, err
}

// ListDogs calls GET /dog?kind=<kind>.
func (c *Client) ListDogs(ctx context.Context, kind domain.Kind) ([]domain.Dog, error) {
	var out []domain.Dog
	err := c.do(ctx, http.MethodGet, "/dog", url.Values{"kind": {string(kind)}}, nil, &out)
	return out, err
}

// GetDog calls GET /dog/{pk}.
func (c *Client) GetDog(ctx context.Context, pk int) (domain.Dog, error) {
	var out domain.Dog
	err := c.do(ctx, http.MethodGet, "/dog/"+strconv.Itoa(pk), nil, nil, &out)
	return out, err
}

// CreateDog calls POST /dog.
func (c *Client) CreateDog(ctx context.Context, d domain.Dog) (domain.Dog, error) {
	var out domain.Dog
	err := c.do(ctx, http.MethodPost, "/dog", nil, d, &out)
	return out, err
}

// UpdateDog calls PATCH /dog/{pk}.
func (c *Client) UpdateDog(ctx context.Context, pk int, d domain.Dog) (domain.Dog, error) {
	var out domain.Dog
	err := c.do(ctx, http.MethodPatch, "/dog/"+strconv.Itoa(pk), nil, d, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("catalog: nil client")
	}

	full := c.BaseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("catalog: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, body)
	if err != nil {
		return fmt.Errorf("catalog: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &APIError{StatusCode: resp.StatusCode, Details: decodeDetails(raw)}
	default:
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("catalog: unmarshal json: %w", err)
	}
	return nil
}

// decodeDetails reads {"detail": [...]}, {"detail": "..."} or the
// {"code","message"} envelope, falling back to the raw body.
func decodeDetails(raw []byte) []Detail {
	var env struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		var list []Detail
		if json.Unmarshal(env.Detail, &list) == nil && len(list) > 0 {
			return list
		}
		var s string
		if json.Unmarshal(env.Detail, &s) == nil && s != "" {
			return []Detail{{Msg: s}}
		}
		if env.Message != "" {
			return []Detail{{Msg: env.Message}}
		}
	}
	return []Detail{{Msg: strings.TrimSpace(string(raw))}}
}

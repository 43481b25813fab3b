// Package registry talks to a hosted descriptor registry: it submits the
// reconciled descriptor set for validation, registers it when a change
// lands on the mainline branch, and asks for impact analysis and stats on
// the descriptors a change touched.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/rs/zerolog"
)

// Config configures the registry client.
type Config struct {
	// Host is the registry base URL.
	Host string

	// APIKey authenticates every request.
	APIKey string

	// MainlineBranch is the branch whose pushes trigger registration.
	MainlineBranch string

	// RegisterOnMainline enables registration for mainline pushes.
	RegisterOnMainline bool

	// SuggestChanges asks the registry to propose descriptor edits in
	// validation responses.
	SuggestChanges bool
}

// TriggerEvent describes the change a CI run is reacting to.
type TriggerEvent struct {
	// Type is the CI event name, "push" or "pull_request".
	Type string

	// BeforeSHA and AfterSHA bound the change.
	BeforeSHA string
	AfterSHA  string

	// Ref is the pushed git ref; empty for pull requests.
	Ref string
}

// Client submits descriptor payloads to one registry.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New returns a Client for the registry at cfg.Host.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.NewConfigError("registry", "a registry host is required", nil)
	}
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError("registry", "an API key is required", nil)
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ShouldRegister reports whether the event is a push landing on the
// mainline branch with registration enabled.
func (c *Client) ShouldRegister(event TriggerEvent) bool {
	return c.cfg.RegisterOnMainline &&
		event.Type == "push" &&
		event.Ref == "refs/heads/"+c.cfg.MainlineBranch
}

// Validate submits the full descriptor set for validation. The response
// carries suggested edits when the client asks for them.
func (c *Client) Validate(ctx context.Context, payload Payload) (*Response, error) {
	body := payload.body()
	body["suggest_changes"] = c.cfg.SuggestChanges
	return c.post(ctx, "/v1/registry/validate", body)
}

// Register records the descriptor set under the commit that produced it.
func (c *Client) Register(ctx context.Context, payload Payload, commitHash string) (*Response, error) {
	body := payload.body()
	body["commit_hash"] = commitHash
	return c.post(ctx, "/v1/registry/register", body)
}

// Impact analyzes the downstream impact of the changed descriptors.
func (c *Client) Impact(ctx context.Context, payload Payload) (*Response, error) {
	return c.post(ctx, "/v1/registry/impact", payload.body())
}

// Stats retrieves registry stats for the changed descriptors.
func (c *Client) Stats(ctx context.Context, payload Payload) (*Response, error) {
	return c.post(ctx, "/v1/registry/stats", payload.body())
}

// post sends one request. Statuses above 400 are fatal; 400 itself
// carries a detailed error body the caller reports.
func (c *Client) post(ctx context.Context, path string, body map[string]any) (*Response, error) {
	endpoint, err := url.JoinPath(c.cfg.Host, path)
	if err != nil {
		return nil, errors.NewConfigError("registry", "invalid registry host", err)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewIOError("encode", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.NewIOError("request", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.RegistryAPIKeyHeader, c.cfg.APIKey)

	c.log.Debug().Str("path", path).Msg("asking the descriptor registry")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapRegistry(endpoint, 0, err)
	}
	defer resp.Body.Close()

	// The registry answers 400 with a detailed body, so only statuses
	// above it are fatal.
	if resp.StatusCode > http.StatusBadRequest {
		return nil, errors.NewRegistryError(endpoint, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var message struct {
		Error any            `json:"error"`
		MD    string         `json:"md"`
		Text  string         `json:"text"`
		JSON  map[string]any `json:"json"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&message); err != nil {
		return nil, errors.WrapRegistry(endpoint, resp.StatusCode, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Error:      truthy(message.Error),
		Markdown:   message.MD,
		Text:       message.Text,
		JSON:       message.JSON,
	}, nil
}

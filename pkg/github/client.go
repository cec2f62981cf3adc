package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the default GitHub API base URL
	DefaultBaseURL = "https://api.github.com"

	// TokenEnv is the environment variable for GitHub token
	TokenEnv = "GITHUB_TOKEN"

	// AppTokenEnv is the prflow specific token variable, checked second
	AppTokenEnv = "PRFLOW_GITHUB_TOKEN"

	// CLITokenEnv is the variable used by the gh CLI, checked last
	CLITokenEnv = "GH_TOKEN"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 30 * time.Second
)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the GitHub API (GitHub Enterprise or tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets a custom HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client. Its transport is wrapped with
// token authentication.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// Client is the GitHub API client used for pull request operations.
// The go-github client is built lazily on first use.
type Client struct {
	token        string
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	githubClient *github.Client
}

// NewClient creates a new GitHub API client with the given token
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient.Timeout = c.timeout

	return c
}

// TokenFromEnv returns the first non-empty token variable.
func TokenFromEnv() string {
	for _, key := range []string{TokenEnv, AppTokenEnv, CLITokenEnv} {
		if token := strings.TrimSpace(os.Getenv(key)); token != "" {
			return token
		}
	}
	return ""
}

// NewClientFromEnv creates a new client using token from environment variables
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	token := TokenFromEnv()
	if token == "" {
		return nil, fmt.Errorf("%s, %s or %s environment variable is required", TokenEnv, AppTokenEnv, CLITokenEnv)
	}

	return NewClient(token, opts...), nil
}

// GetToken returns the client's authentication token
func (c *Client) GetToken() string {
	return c.token
}

// GitHubClient returns the underlying go-github client (lazy-loaded)
func (c *Client) GitHubClient() *github.Client {
	if c.githubClient != nil {
		return c.githubClient
	}

	httpClient := c.httpClient
	if c.token != "" {
		// oauth2 picks the base transport up from the context.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = c.timeout
	}
	c.githubClient = github.NewClient(httpClient)

	if c.baseURL != DefaultBaseURL && c.baseURL != "" {
		baseURL := c.baseURL
		// go-github requires a trailing slash
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		if parsedURL, err := url.Parse(baseURL); err == nil {
			c.githubClient.BaseURL = parsedURL
		}
	}

	return c.githubClient
}

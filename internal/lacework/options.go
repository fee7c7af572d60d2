package lacework

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/cache"
)

type Option func(*Client) error

// WithBaseURL points the client at another api root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base url %q", baseURL)
		}
		c.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient replaces the default http client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		c.userAgent = userAgent
		return nil
	}
}

// WithTokenExpiry sets the requested lifetime of the access token in seconds.
func WithTokenExpiry(seconds int) Option {
	return func(c *Client) error {
		if seconds <= 0 {
			return fmt.Errorf("token expiry must be positive, got %d", seconds)
		}
		c.tokenExpiry = seconds
		return nil
	}
}

// WithTokenCache reuses access tokens across clients with the same base url
// and api key.
func WithTokenCache(tokenCache cache.TokenCache) Option {
	return func(c *Client) error {
		c.tokenCache = tokenCache
		return nil
	}
}

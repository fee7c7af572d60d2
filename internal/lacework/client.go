// Package lacework is a small client for the Lacework v2 REST api. A client
// authenticates once with an api key and then issues json requests on behalf
// of a single handler invocation.
package lacework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/cache"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
)

const (
	apiBasePath       = "/api/v2"
	accessTokensPath  = "/access/tokens"
	defaultTimeout    = 30 * time.Second
	defaultExpirySecs = 3600
)

// Credentials identify the account and api key to use.
type Credentials struct {
	Account     string
	SubAccount  string
	AccessKeyId string
	SecretKey   string
}

// Requester issues one api call. body is json encoded when non-nil; the
// response body is decoded into out when out is non-nil.
type Requester interface {
	Do(ctx context.Context, method, path string, body interface{}, out interface{}) error
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	credentials Credentials
	userAgent   string
	tokenExpiry int
	token       string
	tokenCache  cache.TokenCache // optional, shared between clients
}

// NewClient validates the credentials and builds a client. No request is made
// until the first call.
func NewClient(credentials Credentials, opts ...Option) (*Client, error) {
	credentials.Account = shared.NormalizeAccountName(credentials.Account)
	if credentials.AccessKeyId == "" || credentials.SecretKey == "" {
		return nil, fmt.Errorf("missing lacework api key")
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		credentials: credentials,
		tokenExpiry: defaultExpirySecs,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.baseURL == "" {
		if !shared.IsValidAccountName(credentials.Account) {
			return nil, fmt.Errorf("invalid lacework account name [%s]", credentials.Account)
		}
		c.baseURL = fmt.Sprintf("https://%s.%s", credentials.Account, shared.LaceworkDomain)
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	return c, nil
}

// BaseURL returns the api root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL + apiBasePath
}

func (c *Client) Do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.token,
	}
	if c.credentials.SubAccount != "" {
		headers["Account-Name"] = c.credentials.SubAccount
	}
	err := c.send(ctx, method, path, body, out, headers)
	if StatusCode(err) == http.StatusUnauthorized && c.tokenCache != nil {
		c.tokenCache.Delete(c.tokenCacheKey())
	}
	return err
}

func (c *Client) tokenCacheKey() cache.TokenCacheKey {
	return cache.NewTokenCacheKey(c.baseURL, c.credentials.AccessKeyId, c.credentials.SecretKey)
}

type tokenRequest struct {
	KeyId      string `json:"keyId"`
	ExpiryTime int    `json:"expiryTime"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// authenticate exchanges the api key for a bearer token once per client, or
// once per token lifetime when a token cache is set.
func (c *Client) authenticate(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	if c.tokenCache != nil {
		if token, ok := c.tokenCache.Get(c.tokenCacheKey()); ok {
			c.token = token
			return nil
		}
	}
	var resp tokenResponse
	err := c.send(ctx, http.MethodPost, accessTokensPath, tokenRequest{
		KeyId:      c.credentials.AccessKeyId,
		ExpiryTime: c.tokenExpiry,
	}, &resp, map[string]string{
		"X-LW-UAKS": c.credentials.SecretKey,
	})
	if err != nil {
		return errors.Wrap(err, "failed to obtain lacework access token")
	}
	if resp.Token == "" {
		return errors.New("lacework access token response did not contain a token")
	}
	c.token = resp.Token
	if c.tokenCache != nil {
		c.tokenCache.Set(c.tokenCacheKey(), cache.CachedToken{
			Token:     resp.Token,
			ExpiresAt: c.expiresAt(resp.ExpiresAt),
		})
	}
	return nil
}

// expiresAt falls back to the requested lifetime when the response carries
// no parseable expiry.
func (c *Client) expiresAt(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Now().Add(time.Duration(c.tokenExpiry) * time.Second)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}, out interface{}, headers map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "failed to json encode %s %s body", method, path)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "failed create %s request for %q", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	log.Printf("lacework request [%s %s]\n", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "lacework request %s %s failed", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read lacework response for %s %s", method, path)
	}
	log.Printf("lacework response [%s %s] status [%d]\n", method, path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, method, path, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "failed to decode lacework response into %T: Code: %d", out, resp.StatusCode)
	}
	return nil
}

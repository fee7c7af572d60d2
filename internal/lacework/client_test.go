package lacework

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/cache"
)

type recordedRequest struct {
	method  string
	path    string
	headers http.Header
	body    map[string]interface{}
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recordedRequest) {
	recorded := &[]recordedRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}
		*recorded = append(*recorded, recordedRequest{
			method:  r.Method,
			path:    r.URL.Path,
			headers: r.Header.Clone(),
			body:    body,
		})
		if r.URL.Path == "/api/v2/access/tokens" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token":"TOKEN","expiresAt":"2030-01-01T00:00:00Z"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts, recorded
}

var testCredentials = Credentials{
	Account:     "acme",
	SubAccount:  "prod",
	AccessKeyId: "ACME_KEY",
	SecretKey:   "_SECRET",
}

func TestNewClient(t *testing.T) {
	assertion := assert.New(t)

	client, err := NewClient(testCredentials)
	assertion.NoError(err)
	assertion.Equal("https://acme.lacework.net/api/v2", client.BaseURL())

	client, err = NewClient(Credentials{Account: "ACME.lacework.net", AccessKeyId: "k", SecretKey: "s"})
	assertion.NoError(err)
	assertion.Equal("https://acme.lacework.net/api/v2", client.BaseURL())

	_, err = NewClient(Credentials{Account: "acme"})
	assertion.Error(err)

	_, err = NewClient(Credentials{Account: "bad_account!", AccessKeyId: "k", SecretKey: "s"})
	assertion.Error(err)

	_, err = NewClient(testCredentials, WithBaseURL("not a url"))
	assertion.Error(err)

	_, err = NewClient(testCredentials, WithHTTPClient(nil))
	assertion.Error(err)

	_, err = NewClient(testCredentials, WithTokenExpiry(0))
	assertion.Error(err)

	client, err = NewClient(Credentials{AccessKeyId: "k", SecretKey: "s"}, WithBaseURL("http://127.0.0.1:8080/"))
	assertion.NoError(err)
	assertion.Equal("http://127.0.0.1:8080/api/v2", client.BaseURL())
}

func TestClientDo(t *testing.T) {
	assertion := assert.New(t)

	ts, recorded := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"intgGuid":"G1","name":"ch1"}}`))
	})

	userAgent := BuildUserAgent("Lacework::Alerts::Channel", "1.2.3")
	client, err := NewClient(testCredentials, WithBaseURL(ts.URL), WithUserAgent(userAgent), WithTokenExpiry(600))
	assertion.NoError(err)

	var entity Entity
	err = client.Do(context.Background(), http.MethodPost, "/AlertChannels", map[string]interface{}{"name": "ch1"}, &entity)
	assertion.NoError(err)
	assertion.Equal(map[string]interface{}{"intgGuid": "G1", "name": "ch1"}, entity.Data)

	// second call reuses the token
	err = client.Do(context.Background(), http.MethodDelete, "/AlertChannels/G1", nil, nil)
	assertion.NoError(err)

	requests := *recorded
	assertion.Len(requests, 3)

	tokenRequest := requests[0]
	assertion.Equal(http.MethodPost, tokenRequest.method)
	assertion.Equal("/api/v2/access/tokens", tokenRequest.path)
	assertion.Equal("_SECRET", tokenRequest.headers.Get("X-LW-UAKS"))
	assertion.Equal(map[string]interface{}{"keyId": "ACME_KEY", "expiryTime": float64(600)}, tokenRequest.body)

	createRequest := requests[1]
	assertion.Equal("/api/v2/AlertChannels", createRequest.path)
	assertion.Equal("Bearer TOKEN", createRequest.headers.Get("Authorization"))
	assertion.Equal("prod", createRequest.headers.Get("Account-Name"))
	assertion.Equal("application/json", createRequest.headers.Get("Content-Type"))
	assertion.Equal("AWS CloudFormation (+https://aws.amazon.com/cloudformation/) CloudFormation resource Lacework::Alerts::Channel/1.2.3", createRequest.headers.Get("User-Agent"))
	assertion.Equal(map[string]interface{}{"name": "ch1"}, createRequest.body)

	deleteRequest := requests[2]
	assertion.Equal(http.MethodDelete, deleteRequest.method)
	assertion.Equal("/api/v2/AlertChannels/G1", deleteRequest.path)
	assertion.Equal(userAgent, deleteRequest.headers.Get("User-Agent"))
	assertion.Nil(deleteRequest.body)
}

func TestClientDoAPIError(t *testing.T) {
	assertion := assert.New(t)

	ts, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found: intgGuid G9"}`))
	})

	client, err := NewClient(testCredentials, WithBaseURL(ts.URL))
	assertion.NoError(err)

	err = client.Do(context.Background(), http.MethodGet, "/AlertChannels/G9", nil, &Entity{})
	assertion.Error(err)
	assertion.True(IsNotFound(err))
	assertion.Equal(http.StatusNotFound, StatusCode(err))
	assertion.Contains(err.Error(), "Not Found: intgGuid G9")

	var apiErr *APIError
	assertion.ErrorAs(err, &apiErr)
	assertion.Equal("/AlertChannels/G9", apiErr.Path)
}

func TestClientDoErrorWithoutMessage(t *testing.T) {
	assertion := assert.New(t)

	ts, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	client, err := NewClient(testCredentials, WithBaseURL(ts.URL))
	assertion.NoError(err)

	err = client.Do(context.Background(), http.MethodGet, "/AlertChannels", nil, &Collection{})
	assertion.Equal(http.StatusBadGateway, StatusCode(err))
	assertion.Contains(err.Error(), "Bad Gateway")
}

func TestClientDoMalformedResponse(t *testing.T) {
	assertion := assert.New(t)

	ts, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	})

	client, err := NewClient(testCredentials, WithBaseURL(ts.URL))
	assertion.NoError(err)

	err = client.Do(context.Background(), http.MethodGet, "/AlertChannels", nil, &Collection{})
	assertion.Error(err)
	assertion.Equal(0, StatusCode(err))
}

func TestClientAuthenticationFailure(t *testing.T) {
	assertion := assert.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid key"}`))
	}))
	defer ts.Close()

	client, err := NewClient(testCredentials, WithBaseURL(ts.URL))
	assertion.NoError(err)

	err = client.Do(context.Background(), http.MethodGet, "/AlertChannels", nil, nil)
	assertion.Error(err)
	assertion.Equal(http.StatusUnauthorized, StatusCode(err))
	assertion.Contains(err.Error(), "failed to obtain lacework access token")
}

func TestEntityUnmarshal(t *testing.T) {
	var tests = []struct {
		name     string
		input    string
		expected map[string]interface{}
	}{
		{"object", `{"data":{"a":"b"}}`, map[string]interface{}{"a": "b"}},
		{"single element array", `{"data":[{"a":"b"}]}`, map[string]interface{}{"a": "b"}},
		{"empty array", `{"data":[]}`, nil},
		{"null", `{"data":null}`, nil},
		{"missing", `{}`, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertion := assert.New(t)
			var entity Entity
			assertion.NoError(json.Unmarshal([]byte(test.input), &entity))
			assertion.Equal(test.expected, entity.Data)
		})
	}
}

func TestClientTokenCache(t *testing.T) {
	assertion := assert.New(t)

	var unauthorized atomic.Bool
	ts, recorded := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if unauthorized.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"token expired"}`))
			return
		}
		w.Write([]byte(`{"data":[]}`))
	})
	tokenCache := cache.NewTokenCache()

	countTokenRequests := func() int {
		count := 0
		for _, request := range *recorded {
			if request.path == "/api/v2/access/tokens" {
				count++
			}
		}
		return count
	}
	list := func() error {
		client, err := NewClient(testCredentials, WithBaseURL(ts.URL), WithTokenCache(tokenCache))
		assertion.NoError(err)
		var collection Collection
		return client.Do(context.Background(), http.MethodGet, "/AlertChannels", nil, &collection)
	}

	// two clients, one token exchange
	assertion.NoError(list())
	assertion.NoError(list())
	assertion.Equal(1, countTokenRequests())
	assertion.Equal(int32(1), tokenCache.GetCacheHits())

	// a rejected token is evicted
	unauthorized.Store(true)
	err := list()
	assertion.Equal(http.StatusUnauthorized, StatusCode(err))
	unauthorized.Store(false)
	assertion.NoError(list())
	assertion.Equal(2, countTokenRequests())

	// same key id with another secret does not reuse the token
	client, err := NewClient(Credentials{Account: "acme", AccessKeyId: "ACME_KEY", SecretKey: "_ROTATED"},
		WithBaseURL(ts.URL), WithTokenCache(tokenCache))
	assertion.NoError(err)
	var collection Collection
	assertion.NoError(client.Do(context.Background(), http.MethodGet, "/AlertChannels", nil, &collection))
	assertion.Equal(3, countTokenRequests())
}

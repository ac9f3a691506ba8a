// Package catalog adapts the remote demo products API. One shared
// HTTP client with a fixed base endpoint and timeout serves every
// call; a transport hook attaches the bearer token from local storage
// when one is present.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const requestTimeout = 10 * time.Second

type Client struct {
	hc      *http.Client
	baseURL string
}

func NewClient(baseURL string, tokens port.LocalStore) Client {
	hc := &http.Client{
		Timeout: requestTimeout,
		Transport: bearerTransport{
			base:   http.DefaultTransport,
			tokens: tokens,
		},
	}
	return Client{hc, strings.TrimRight(baseURL, "/")}
}

func (c Client) do(
	ctx context.Context,
	method, path string,
	query url.Values, body, out any,
) error {
	const op = "Client.do"

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK ||
		res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s: %w", op, remoteError(res))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", op, err)
	}
	return nil
}

// remoteError prefers the message the server put in the body, then
// the status line.
func remoteError(res *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil &&
		body.Message != "" {
		return errors.New(body.Message)
	}
	return errors.New(res.Status)
}

// bearerTransport reads the access token from local storage on every
// request. It never retries on 401; refreshing is the session store's
// concern.
type bearerTransport struct {
	base   http.RoundTripper
	tokens port.LocalStore
}

func (t bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	tok, err := t.tokens.Get(domain.KeyAccessToken)
	if err == nil && tok != "" {
		r = r.Clone(r.Context())
		r.Header.Set("Authorization", "Bearer "+tok)
	}
	return t.base.RoundTrip(r)
}

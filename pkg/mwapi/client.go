// Package mwapi is a minimal MediaWiki action-API client: one-shot
// requests, continuation-driven pagination, and privilege-bounded batch
// queries. It owns every transport concern so the scanning engine in
// pkg/wikitext never has to.
package mwapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Params holds the query parameters of one action-API request.
type Params map[string]string

// QueryResponse is one decoded action-API response body.
type QueryResponse map[string]any

// APIError is the failure value surfaced when a response body carries
// an error object. It is returned, never panicked.
type APIError struct {
	// Code is the machine-readable error code.
	Code string
	// Info is the human-readable message.
	Info string
	// Details holds the full error object as received.
	Details map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Info)
}

// Client talks to a MediaWiki action-API endpoint.
type Client struct {
	// BaseURL is the full api.php URL.
	BaseURL string
	// UserAgent is sent with every request when set.
	UserAgent string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// HasHighLimits is the privilege flag controlling batch sizes. It
	// is always passed in explicitly, never read from ambient process
	// state.
	HasHighLimits bool
}

// apiHighLimit and apiLimit are the list-parameter ceilings the API
// enforces for privileged and unprivileged callers.
const (
	apiHighLimit = 500
	apiLimit     = 50
)

// BatchLimit returns the list-parameter ceiling for this client's
// privilege level.
func (c *Client) BatchLimit() int {
	if c.HasHighLimits {
		return apiHighLimit
	}
	return apiLimit
}

// Request performs one API call and returns the decoded body, or an
// *APIError when the body reports a failure.
func (c *Client) Request(ctx context.Context, params Params) (QueryResponse, error) {
	logger := zerolog.Ctx(ctx).With().Str("request_id", uuid.NewString()).Logger()

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, errors.Errorf("parsing base url: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("format", "json")
	q.Set("formatversion", "2")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Errorf("building api request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger.Debug().Str("action", params["action"]).Msg("api request")
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Errorf("performing api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("api request failed with status %d", resp.StatusCode)
	}

	var body QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Errorf("decoding api response: %w", err)
	}

	if raw, ok := body["error"]; ok {
		apiErr := &APIError{}
		if details, ok := raw.(map[string]any); ok {
			apiErr.Details = details
			if code, ok := details["code"].(string); ok {
				apiErr.Code = code
			}
			if info, ok := details["info"].(string); ok {
				apiErr.Info = info
			}
		}
		logger.Warn().Str("code", apiErr.Code).Msg("api error response")
		return nil, apiErr
	}
	return body, nil
}

// ContinuedQuery repeats the request, merging each response's continue
// object into the next request's params, until a response carries no
// continuation or limit attempts have been made.
//
// The responses collected so far are always returned: a failed attempt
// stops further continuation but never discards them, so the result is
// valid even when err is non-nil.
func (c *Client) ContinuedQuery(ctx context.Context, params Params, limit int) ([]QueryResponse, error) {
	merged := Params{}
	for k, v := range params {
		merged[k] = v
	}

	var responses []QueryResponse
	for attempt := 0; attempt < limit; attempt++ {
		resp, err := c.Request(ctx, merged)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Msg("continuation stopped")
			return responses, err
		}
		responses = append(responses, resp)

		cont, ok := resp["continue"].(map[string]any)
		if !ok {
			break
		}
		for k, v := range cont {
			merged[k] = fmt.Sprint(v)
		}
	}
	return responses, nil
}

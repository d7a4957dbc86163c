package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "igoauth/pkg/errors"
	"igoauth/pkg/logger"
)

// Requester performs a single HTTP request and returns the response body.
// Implementations must not interpret the status code.
type Requester interface {
	Request(ctx context.Context, method, rawURL string, params url.Values) ([]byte, error)
}

// HTTPRequester implements Requester over net/http. GET parameters go into
// the query string; POST parameters are form encoded.
type HTTPRequester struct {
	httpClient *http.Client
	userAgent  string
	logger     logger.Logger
}

// NewHTTPRequester creates a requester. A nil httpClient gets a 30 second timeout.
func NewHTTPRequester(httpClient *http.Client, log logger.Logger) *HTTPRequester {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &HTTPRequester{
		httpClient: httpClient,
		logger:     log,
	}
}

// SetUserAgent sets the User-Agent header sent with every request
func (r *HTTPRequester) SetUserAgent(userAgent string) {
	r.userAgent = userAgent
}

// Request sends the request and returns the raw body whatever the status
func (r *HTTPRequester) Request(ctx context.Context, method, rawURL string, params url.Values) ([]byte, error) {
	req, err := r.newRequest(ctx, method, rawURL, params)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, err, "failed to create request")
	}

	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	// Query strings carry access tokens, so only the path is logged.
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	r.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": method,
		"url":    target,
	})

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"url":      target,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	logger.LogRequest(r.logger, method, target, resp.StatusCode, float64(duration.Microseconds())/1000)
	return body, nil
}

func (r *HTTPRequester) newRequest(ctx context.Context, method, rawURL string, params url.Values) (*http.Request, error) {
	switch method {
	case http.MethodPost:
		req, err := http.NewRequestWithContext(ctx, method, rawURL, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	case http.MethodGet:
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		query := u.Query()
		for key, values := range params {
			for _, v := range values {
				query.Add(key, v)
			}
		}
		u.RawQuery = query.Encode()
		return http.NewRequestWithContext(ctx, method, u.String(), nil)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
}

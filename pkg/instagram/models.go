package instagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	errs "igoauth/pkg/errors"
)

// Result is a decoded JSON object returned by the Instagram API.
// It holds whatever the API sent, including error payloads.
type Result map[string]any

// AccessToken returns the access_token value, or "" if absent
func (r Result) AccessToken() string {
	return r.String("access_token")
}

// ExpiresIn returns expires_in as seconds, or 0 if absent or not numeric
func (r Result) ExpiresIn() int64 {
	return r.Int64("expires_in")
}

// String returns the string value at key, or "" if absent or not a string
func (r Result) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Int64 returns the integer value at key. Numbers and numeric strings are accepted.
func (r Result) Int64(key string) int64 {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// APIError describes an error payload returned by the API.
// Graph endpoints nest it under "error"; the OAuth endpoints use flat
// error_type/code/error_message keys.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("instagram %s (code %d): %s", e.Type, e.Code, e.Message)
}

// AsError converts the payload into a typed api error
func (e *APIError) AsError() error {
	return &errs.Error{
		Type:    errs.ErrorTypeAPI,
		Message: e.Message,
		Code:    e.Code,
		Err:     e,
	}
}

// APIError returns the error payload carried by the result, or nil
func (r Result) APIError() *APIError {
	if nested, ok := r["error"].(map[string]any); ok {
		apiErr := &APIError{
			Message:   Result(nested).String("message"),
			Type:      Result(nested).String("type"),
			Code:      int(Result(nested).Int64("code")),
			Subcode:   int(Result(nested).Int64("error_subcode")),
			FBTraceID: Result(nested).String("fbtrace_id"),
		}
		return apiErr
	}

	if errorType := r.String("error_type"); errorType != "" {
		return &APIError{
			Message: r.String("error_message"),
			Type:    errorType,
			Code:    int(r.Int64("code")),
		}
	}

	return nil
}

// Media is a single media object from the /me/media edge
type Media struct {
	ID           string `json:"id"`
	Caption      string `json:"caption,omitempty"`
	MediaType    string `json:"media_type,omitempty"`
	MediaURL     string `json:"media_url,omitempty"`
	Permalink    string `json:"permalink,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
}

// Media decodes the "data" array of a media listing
func (r Result) Media() ([]Media, error) {
	raw, ok := r["data"]
	if !ok {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, err, "failed to re-encode media data")
	}

	var media []Media
	if err := json.Unmarshal(data, &media); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, err, "failed to decode media data")
	}
	return media, nil
}

// decodeResult parses body into a Result. Empty bodies, malformed JSON,
// a literal null and non-object values are all parse failures.
func decodeResult(body []byte) (Result, error) {
	if len(body) == 0 {
		return nil, errs.New(errs.ErrorTypeParsing, "empty response body")
	}

	var result Result
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, err, "failed to parse JSON response")
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errs.New(errs.ErrorTypeParsing, "unexpected data after JSON response")
	}
	if result == nil {
		return nil, errs.New(errs.ErrorTypeParsing, "response decoded to null")
	}
	return result, nil
}

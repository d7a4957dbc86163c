package instagram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "igoauth/pkg/errors"
)

func TestResultAccessors(t *testing.T) {
	result, err := decodeResult([]byte(`{"access_token":"LLT","expires_in":5184000,"as_text":"12","bad":"x"}`))
	require.NoError(t, err)

	assert.Equal(t, "LLT", result.AccessToken())
	assert.Equal(t, int64(5184000), result.ExpiresIn())
	assert.Equal(t, int64(12), result.Int64("as_text"))
	assert.Equal(t, int64(0), result.Int64("bad"))
	assert.Equal(t, int64(0), result.Int64("missing"))
	assert.Equal(t, "", result.String("expires_in"))

	plain := Result{"expires_in": float64(3600)}
	assert.Equal(t, int64(3600), plain.ExpiresIn())
	assert.Equal(t, int64(7), Result{"n": json.Number("7.0")}.Int64("n"))
}

func TestResultAPIError(t *testing.T) {
	t.Run("graph payload", func(t *testing.T) {
		result, err := decodeResult([]byte(`{"error":{"message":"Error validating access token","type":"OAuthException","code":190,"error_subcode":463,"fbtrace_id":"Axyz"}}`))
		require.NoError(t, err)

		apiErr := result.APIError()
		require.NotNil(t, apiErr)
		assert.Equal(t, &APIError{
			Message:   "Error validating access token",
			Type:      "OAuthException",
			Code:      190,
			Subcode:   463,
			FBTraceID: "Axyz",
		}, apiErr)

		converted := apiErr.AsError()
		assert.True(t, errs.IsType(converted, errs.ErrorTypeAPI))
		assert.ErrorIs(t, converted, apiErr)
		assert.Contains(t, converted.Error(), "code 190")
	})

	t.Run("oauth payload", func(t *testing.T) {
		result, err := decodeResult([]byte(`{"error_type":"OAuthException","code":400,"error_message":"Matching code was not found or was already used"}`))
		require.NoError(t, err)

		apiErr := result.APIError()
		require.NotNil(t, apiErr)
		assert.Equal(t, "OAuthException", apiErr.Type)
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, "Matching code was not found or was already used", apiErr.Message)
	})

	t.Run("success payload", func(t *testing.T) {
		assert.Nil(t, Result{"access_token": "x"}.APIError())
	})
}

func TestResultMedia(t *testing.T) {
	body := `{"data":[
		{"id":"1","caption":"sunset","media_type":"IMAGE","media_url":"https://cdn.example/1.jpg","permalink":"https://www.instagram.com/p/abc/","timestamp":"2024-01-02T03:04:05+0000"},
		{"id":"2","media_type":"VIDEO","media_url":"https://cdn.example/2.mp4","thumbnail_url":"https://cdn.example/2.jpg"}
	]}`
	result, err := decodeResult([]byte(body))
	require.NoError(t, err)

	media, err := result.Media()
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, "sunset", media[0].Caption)
	assert.Equal(t, "https://www.instagram.com/p/abc/", media[0].Permalink)
	assert.Equal(t, "VIDEO", media[1].MediaType)
	assert.Equal(t, "https://cdn.example/2.jpg", media[1].ThumbnailURL)

	none, err := Result{}.Media()
	assert.NoError(t, err)
	assert.Nil(t, none)

	_, err = Result{"data": "not a list"}.Media()
	assert.True(t, errs.IsType(err, errs.ErrorTypeParsing))
}

func TestDecodeResult(t *testing.T) {
	result, err := decodeResult([]byte("  {\"ok\":true}\n"))
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])

	empty, err := decodeResult([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, empty)

	for _, body := range []string{"", "null", "[]", "42", "{", `{"a":1}{"b":2}`} {
		result, err := decodeResult([]byte(body))
		assert.Nil(t, result, body)
		assert.True(t, errs.IsType(err, errs.ErrorTypeParsing), body)
	}
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "parsing error: empty body", New(ErrorTypeParsing, "empty body").Error())

	withCode := &Error{Type: ErrorTypeAPI, Message: "invalid token", Code: 190}
	assert.Equal(t, "api error (code 190): invalid token", withCode.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrorTypeNetwork, cause, "request failed")

	assert.Equal(t, "network error: request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	noCause := Wrap(ErrorTypeStorage, nil, "nothing stored")
	assert.Nil(t, noCause.Err)
	assert.Equal(t, "nothing stored", noCause.Message)
}

func TestIsTypeAndTypeOf(t *testing.T) {
	err := fmt.Errorf("exchange: %w", New(ErrorTypeParsing, "bad json"))

	assert.True(t, IsType(err, ErrorTypeParsing))
	assert.False(t, IsType(err, ErrorTypeNetwork))
	assert.Equal(t, ErrorTypeParsing, TypeOf(err))

	assert.False(t, IsType(errors.New("plain"), ErrorTypeParsing))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(nil))
}

package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igoauth/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "empty level defaults to info", cfg: &config.LoggingConfig{}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "igoauth.log")

	var console bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "info", File: path}, &console)
	require.NoError(t, err)

	l.Info("session stored")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session stored")
	assert.Contains(t, string(data), `"app":"igoauth"`)
	assert.Contains(t, console.String(), "session stored")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf).Level(zerolog.WarnLevel)
	l := &zerologLogger{logger: &zlog, fields: map[string]interface{}{}}

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf)
	parent := &zerologLogger{logger: &zlog, fields: map[string]interface{}{}}

	child := parent.WithField("account", "default").WithFields(map[string]interface{}{"expires_in": 5184000})
	child.Info("child")
	assert.Contains(t, buf.String(), `"account":"default"`)
	assert.Contains(t, buf.String(), `"expires_in":5184000`)

	buf.Reset()
	parent.Info("parent")
	assert.NotContains(t, buf.String(), "account")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf)
	l := &zerologLogger{logger: &zlog, fields: map[string]interface{}{}}

	assert.Same(t, l, l.WithError(nil))

	l.WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "********", Mask("short"))
	assert.Equal(t, "IGQV...wxyz", Mask("IGQVJabcdefghijklmnopqrstuvwxyz"))
}

func TestTestLoggerCapturesFields(t *testing.T) {
	l := NewTestLogger()
	l.WithField("account", "a").WithError(errors.New("x")).WarnWithFields("warned", map[string]interface{}{"n": 1})
	l.Error("plain")

	msgs := l.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "WARN", msgs[0].Level)
	assert.Equal(t, "a", msgs[0].Fields["account"])
	assert.Equal(t, 1, msgs[0].Fields["n"])
	assert.EqualError(t, msgs[0].Error, "x")
	assert.True(t, l.HasMessage("plain"))
	assert.True(t, l.HasError())

	l.Clear()
	assert.Empty(t, l.GetMessages())
}

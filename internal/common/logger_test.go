package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "default", in: "", want: slog.LevelInfo},
		{name: "warn", in: "warn", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "unknown", in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, "info", "json"))

	LogDebug("hidden", Fields{"n": 1})
	LogInfo("snapshot rebuilt", Fields{"seq": 2})
	LogError(errors.New("boom"), "refresh failed", Fields{"year": 2025})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "snapshot rebuilt", info["msg"])
	assert.Equal(t, float64(2), info["seq"])

	var errLine map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &errLine))
	assert.Equal(t, "boom", errLine["error"])
	assert.Equal(t, "ERROR", errLine["level"])

	assert.ErrorIs(t, SetupLogger(&buf, "info", "xml"), ErrInvalidConfig)
	assert.ErrorIs(t, SetupLogger(&buf, "loud", "json"), ErrInvalidConfig)
}

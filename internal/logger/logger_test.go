package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Debug().Str("component", "test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "hello", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Info().Msg("dropped")
	assert.Empty(t, buf.String())

	Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestInit_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "loud", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	Debug().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestInit_Pretty(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "pretty", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Info().Msg("readable")
	assert.Contains(t, buf.String(), "readable")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	// Without an attached logger the global one is used
	Ctx(context.Background()).Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")

	buf.Reset()
	ctx := WithContext(context.Background())
	Ctx(ctx).Info().Msg("attached")
	assert.Contains(t, buf.String(), "attached")
}

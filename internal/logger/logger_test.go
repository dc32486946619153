package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	require.Len(t, fields, 1)
	assert.Equal(t, "provider", fields[0].Key)
	assert.Equal(t, "Gemini", fields[0].String)

	assert.Empty(t, StringFields())
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bar", entries[0].ContextMap()["foo"])

	fallback := WithFields(nil, zap.String("baz", "qux"))
	require.NotNil(t, fallback)
	fallback.Info("another log")
}

func TestCommonFields(t *testing.T) {
	fields := CommonFields(" rooms ", "price-asc")
	require.Len(t, fields, 2)
	assert.Equal(t, FieldKind, fields[0].Key)
	assert.Equal(t, "rooms", fields[0].String)
	assert.Equal(t, FieldSort, fields[1].Key)
	assert.Equal(t, "price-asc", fields[1].String)

	assert.Len(t, CommonFields("roommates", ""), 1)
}

func TestWithAIFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithAIFields(zap.New(core), "gemini", "model-x").Info("test log")

	entries := observed.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "gemini", ctx[FieldProvider])
	assert.Equal(t, "model-x", ctx[FieldModel])

	assert.Empty(t, AIFields("", " "))
	require.NotNil(t, WithAIFields(nil, "gemini", "model-x"))
}

func TestBuildWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	log, err := build(true, false, []string{path})
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("listing matched", zap.String("id", "6"))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"listing matched"`)
	assert.Contains(t, string(raw), `"level":"info"`)
	assert.NotContains(t, string(raw), "hidden")
}

func TestNew(t *testing.T) {
	log, err := New(false, true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure(t *testing.T) {
	require.NoError(t, Configure(Config{Level: "debug", Format: "console"}))
	require.NoError(t, Configure(Config{Level: "warn", Format: "json"}))

	err := Configure(Config{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestNamed(t *testing.T) {
	_, err := Named("")
	assert.Error(t, err)

	l, err := Named("tnt")
	require.NoError(t, err)
	assert.NotNil(t, l)

	assert.Panics(t, func() { MustNamed("") })
}

func TestCtxAddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).Sugar()

	Ctx(context.Background(), l).Info("no id")
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	Ctx(ctx, l).Info("with id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, "req-1", entries[1].ContextMap()["request_id"])
}

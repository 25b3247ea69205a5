package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_carriesIds(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{Logger: zap.New(core)}

	ctx := context.WithValue(context.Background(), RequestIdKey, "req-123")
	ctx = context.WithValue(ctx, UserIdKey, "user-456")

	l.WithContext(ctx).Info("handled")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "user-456", fields["user_id"])
}

func TestWithContext_withoutValues(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{Logger: zap.New(core)}

	l.WithContext(context.Background()).Info("handled")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ContextMap())
}

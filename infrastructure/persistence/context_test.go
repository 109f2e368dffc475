package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit(t *testing.T) {
	var ran []string

	AfterCommit(context.Background(), func() { ran = append(ran, "direct") })
	assert.Equal(t, []string{"direct"}, ran)

	ctx, hooks := ContextWithCommitHooks(context.Background())
	AfterCommit(ctx, func() { ran = append(ran, "first") })
	AfterCommit(ctx, func() { ran = append(ran, "second") })
	assert.Len(t, ran, 1, "hooks wait for commit")

	hooks.Run()
	assert.Equal(t, []string{"direct", "first", "second"}, ran)
	hooks.Run()
	assert.Len(t, ran, 3)
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Equal(t, context.Background(), ContextWithRequestID(context.Background(), ""))
	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
}

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	assert.PanicsWithValue(t, "ctxlog: logger missing from context", func() {
		FromContext(context.Background())
	})
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	child, logger := With(ctx, "device", "stick")
	logger.Info("one")
	FromContext(child).Info("two")
	FromContext(ctx).Info("three")

	out := buf.String()
	assert.Contains(t, out, "msg=one device=stick")
	assert.Contains(t, out, "msg=two device=stick")
	assert.Contains(t, out, "msg=three\n")
}

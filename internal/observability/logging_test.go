package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithBatchID_RoundTrips(t *testing.T) {
	ctx := WithBatchID(context.Background(), "b-1")
	require.Equal(t, "b-1", GetContext(ctx).BatchID)
}

func TestWith_AccumulatesIndependentFields(t *testing.T) {
	ctx := context.Background()
	ctx = WithBatchID(ctx, "b-1")
	ctx = WithSource(ctx, "posts/hello.md")
	ctx = WithStage(ctx, "expand")

	lc := GetContext(ctx)
	require.Equal(t, "b-1", lc.BatchID)
	require.Equal(t, "posts/hello.md", lc.Source)
	require.Equal(t, "expand", lc.Stage)
	require.Empty(t, lc.Document)
}

func TestWithStage_OverwritesPriorStage(t *testing.T) {
	ctx := WithStage(context.Background(), "parse")
	ctx = WithStage(ctx, "index")
	require.Equal(t, "index", GetContext(ctx).Stage)
}

func TestGetContext_EmptyWithoutValues(t *testing.T) {
	require.Equal(t, LogContext{}, GetContext(context.Background()))
}

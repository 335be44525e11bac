package channels_test

import (
	"context"
	"testing"
	"time"

	"github.com/graphbridge/graphbridge/util/channels"
	"github.com/stretchr/testify/require"
)

func TestConcurrencyLimiter(t *testing.T) {
	limiter := channels.NewConcurrencyLimiter(1)

	require.True(t, limiter.Acquire(context.Background()))

	// A second acquisition must fail once the context expires
	timedOutCtx, done := context.WithTimeout(context.Background(), time.Millisecond*10)
	defer done()

	require.False(t, limiter.Acquire(timedOutCtx))

	limiter.Release()
	require.True(t, limiter.Acquire(context.Background()))
}

package request_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

func TestFuture(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := request.NewFuture(context.Background(), func(ctx context.Context) (string, error) {
		<-release
		return "done", nil
	})

	// Not completed yet
	select {
	case <-f.Done():
		t.Fatal("future should not be completed")
	default:
	}

	close(release)
	value, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", value)

	// Result can be read multiple times
	value, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestFuture_Error(t *testing.T) {
	t.Parallel()

	errFailed := errors.New("failed")
	f := request.NewFuture(context.Background(), func(ctx context.Context) (int, error) {
		return 0, errFailed
	})
	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, errFailed)
}

func TestFuture_Cancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	f := request.NewFuture(ctx, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	cancel()
	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFuture_AwaitTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	f := request.NewFuture(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolvedFuture(t *testing.T) {
	t.Parallel()

	f := request.ResolvedFuture(123, nil)
	<-f.Done()
	value, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 123, value)
}

package client_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/speedrun-go/speedrun-client/pkg/client"
	"github.com/speedrun-go/speedrun-client/pkg/request"
)

func TestAsyncClient_SendAsync(t *testing.T) {
	t.Parallel()

	c, transport := client.NewMockedAsyncClient()
	transport.RegisterResponder("GET", `https://example.com`, httpmock.NewStringResponder(200, `{"data":"test"}`))

	ctx := context.Background()
	future := c.SendAsync(ctx, newGet(t, "https://example.com"))
	res, err := future.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"data":"test"}`, string(res.Body))
	assert.Equal(t, 1, transport.GetCallCountInfo()["GET https://example.com"])
}

func TestAsyncClient_BaseURL(t *testing.T) {
	t.Parallel()

	c := client.NewAsync(client.New().WithBaseURL("https://example.com/api/v1"))
	assert.Equal(t, "https://example.com/api/v1", c.BaseURL().String())
	assert.Equal(t, "https://example.com/api/v1", c.Client().BaseURL().String())
}

func TestAsyncClient_ConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var inFlight, maxInFlight atomic.Int64
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", `https://example.com`, func(req *http.Request) (*http.Response, error) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			prev := maxInFlight.Load()
			if current <= prev || maxInFlight.CompareAndSwap(prev, current) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return httpmock.NewStringResponse(200, `{"data":null}`), nil
	})

	ctx := context.Background()
	c := client.NewAsync(client.New().WithTransport(transport)).WithConcurrencyLimit(3)

	var futures []*request.Future[*request.WireResponse]
	for range 12 {
		futures = append(futures, c.SendAsync(ctx, newGet(t, "https://example.com")))
	}
	for _, f := range futures {
		_, err := f.Await(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 12, transport.GetCallCountInfo()["GET https://example.com"])
	assert.LessOrEqual(t, maxInFlight.Load(), int64(3))
}

func TestAsyncClient_Canceled(t *testing.T) {
	t.Parallel()

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", `https://example.com`, func(req *http.Request) (*http.Response, error) {
		time.Sleep(100 * time.Millisecond)
		return httpmock.NewStringResponse(200, `{"data":null}`), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	c := client.NewAsync(client.New().WithTransport(transport))
	future := c.SendAsync(ctx, newGet(t, "https://example.com"))
	cancel()

	_, err := future.Await(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var clientErr *request.ClientError
	assert.ErrorAs(t, err, &clientErr)
}

// The test is not parallel, so goroutines of other tests are not reported.
func TestAsyncClient_NoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	release := make(chan struct{})
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", `https://example.com`, func(req *http.Request) (*http.Response, error) {
		select {
		case <-release:
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
		return httpmock.NewStringResponse(200, `{"data":null}`), nil
	})

	// One request is in flight, the others wait for a free slot
	ctx, cancel := context.WithCancel(context.Background())
	c := client.NewAsync(client.New().WithTransport(transport)).WithConcurrencyLimit(1)
	var futures []*request.Future[*request.WireResponse]
	for range 5 {
		futures = append(futures, c.SendAsync(ctx, newGet(t, "https://example.com")))
	}

	// All goroutines end on cancellation
	cancel()
	close(release)
	for _, f := range futures {
		<-f.Done()
	}
}

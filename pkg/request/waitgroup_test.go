package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/speedrun-go/speedrun-client/pkg/client"
	"github.com/speedrun-go/speedrun-client/pkg/request"
)

func TestWaitGroup(t *testing.T) {
	t.Parallel()
	c, transport := client.NewMockedClient()
	c = c.WithBaseURL("https://example.com")
	transport.RegisterResponder("GET", `=~^https://example.com/`, httpmock.NewStringResponder(200, `{"data":{}}`))

	// Create wait group
	g := request.NewWaitGroup(context.Background())

	// Send requests
	g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo1"}))
	g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo2"}))
	g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo3"}).
		WithOnSuccess(func(ctx context.Context, _ testGame) error {
			g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo5"}))
			return nil
		}).
		WithOnError(func(ctx context.Context, err error) error {
			g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "err"}))
			return err
		}),
	)
	g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo4"}).
		WithOnSuccess(func(ctx context.Context, _ testGame) error {
			g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo6"}))
			return nil
		}),
	)

	// Requests are sent immediately
	assert.Eventually(t, func() bool {
		return transport.GetTotalCallCount() > 0
	}, time.Second, 10*time.Millisecond)

	// Wait for all requests
	assert.NoError(t, g.Wait())

	// No new request
	assert.Equal(t, map[string]int{
		"GET =~^https://example.com/":        6,
		"GET https://example.com/games/foo1": 1,
		"GET https://example.com/games/foo2": 1,
		"GET https://example.com/games/foo3": 1,
		"GET https://example.com/games/foo4": 1,
		"GET https://example.com/games/foo5": 1,
		"GET https://example.com/games/foo6": 1,
	}, transport.GetCallCountInfo())
}

func TestWaitGroup_HandleError(t *testing.T) {
	t.Parallel()
	c, transport := client.NewMockedClient()
	c = c.WithBaseURL("https://example.com")
	transport.RegisterResponder("GET", `=~^https://example.com/`, httpmock.NewStringResponder(401, `{"status":401,"message":"Unauthorized"}`))

	// Create wait group
	g := request.NewWaitGroup(context.Background())

	// Send requests
	requestsCount := 100
	assert.Greater(t, requestsCount, request.WaitGroupConcurrencyLimit)
	for i := 1; i <= requestsCount; i++ {
		g.Send(request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo"}))
	}

	// All errors are returned
	err := g.Wait()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `100 errors occurred:`)

	// All requests have been sent
	assert.Equal(t, requestsCount, transport.GetTotalCallCount())
}

func TestParallel(t *testing.T) {
	t.Parallel()
	c, transport := client.NewMockedClient()
	c = c.WithBaseURL("https://example.com")
	transport.RegisterResponder("GET", `https://example.com/games/foo1`, httpmock.NewStringResponder(200, `{"data":{"id":"foo1"}}`))
	transport.RegisterResponder("GET", `https://example.com/games/foo2`, httpmock.NewStringResponder(404, `{"status":404,"message":"Not Found"}`))

	var results []string
	err := request.Parallel(
		request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo1"}).
			WithOnSuccess(func(_ context.Context, game testGame) error {
				results = append(results, game.ID)
				return nil
			}),
		request.NewAPIRequest[testGame](c, gameEndpoint{id: "foo2"}),
	).SendOrErr(context.Background())

	// Single error is unwrapped
	var apiErr *request.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, []string{"foo1"}, results)
}

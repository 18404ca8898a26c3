package trace_test

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedrun-go/speedrun-client/pkg/client"
	"github.com/speedrun-go/speedrun-client/pkg/client/trace"
)

func TestZerologTracer(t *testing.T) {
	t.Parallel()

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", `https://example.com/games`, httpmock.ResponderFromMultipleResponses([]*http.Response{
		{StatusCode: client.StatusEnhanceYourCalm, Body: io.NopCloser(strings.NewReader(""))},
		{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"data":[]}`))},
	}))

	var out strings.Builder
	logger := zerolog.New(&out).Level(zerolog.DebugLevel)
	c := client.New().
		WithTransport(transport).
		WithRetry(client.TestingRetry()).
		AndTrace(trace.ZerologTracer(logger))

	_, err := c.Send(context.Background(), newGet(t, "https://example.com/games"))
	require.NoError(t, err)

	events := decodeEvents(t, out.String())
	var messages []string
	for _, event := range events {
		messages = append(messages, event["message"].(string))
		assert.Equal(t, "GET", event["method"])
		assert.Equal(t, "https://example.com/games", event["url"])
	}
	assert.Equal(t, []string{
		"http request started",
		"http request done",
		"http request retry",
		"http request started",
		"http request done",
		"request done",
	}, messages)
	assert.Equal(t, float64(420), events[1]["status"])
	assert.Equal(t, "info", events[5]["level"])
	assert.Equal(t, float64(2), events[5]["attempts"])
}

func TestZerologTracer_Error(t *testing.T) {
	t.Parallel()

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", `https://example.com/games`, httpmock.NewErrorResponder(io.ErrUnexpectedEOF))

	// Debug events are filtered out
	var out strings.Builder
	logger := zerolog.New(&out).Level(zerolog.InfoLevel)
	c := client.New().WithTransport(transport).AndTrace(trace.ZerologTracer(logger))

	_, err := c.Send(context.Background(), newGet(t, "https://example.com/games"))
	require.Error(t, err)

	events := decodeEvents(t, out.String())
	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0]["level"])
	assert.Equal(t, "request failed", events[0]["message"])
	assert.Equal(t, `request GET "https://example.com/games" failed: unexpected EOF`, events[0]["error"])
}

func decodeEvents(t *testing.T, out string) []map[string]any {
	t.Helper()
	var events []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		event := make(map[string]any)
		require.NoError(t, jsoniter.Unmarshal(scanner.Bytes(), &event))
		events = append(events, event)
	}
	require.NoError(t, scanner.Err())
	return events
}

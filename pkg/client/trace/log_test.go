package trace_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/keboola/go-utils/pkg/wildcards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedrun-go/speedrun-client/pkg/client"
	"github.com/speedrun-go/speedrun-client/pkg/client/trace"
)

func TestLogTracer(t *testing.T) {
	t.Parallel()

	// Mocked response
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", `https://example.com/games`, httpmock.ResponderFromMultipleResponses([]*http.Response{
		{StatusCode: http.StatusLocked},
		{StatusCode: http.StatusTooManyRequests},
		{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("OK1"))},
		{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("OK2"))},
	}))

	// Logs for trace testing
	var logs strings.Builder

	// Create client
	ctx := context.Background()
	c := client.New().
		WithTransport(transport).
		WithRetry(client.TestingRetry()).
		AndTrace(trace.LogTracer(&logs))

	// Expected trace
	expected := `
HTTP_REQUEST[0001] START GET "https://example.com/games"
HTTP_REQUEST[0001] DONE  GET "https://example.com/games" | 423 | %s
HTTP_REQUEST[0001] RETRY GET "https://example.com/games" | 1x | 1ms
HTTP_REQUEST[0001] START GET "https://example.com/games"
HTTP_REQUEST[0001] DONE  GET "https://example.com/games" | 429 | %s
HTTP_REQUEST[0001] RETRY GET "https://example.com/games" | 2x | 1ms
HTTP_REQUEST[0001] START GET "https://example.com/games"
HTTP_REQUEST[0001] DONE  GET "https://example.com/games" | 200 | %s
HTTP_REQUEST[0001] BODY  GET "https://example.com/games" | %s
HTTP_REQUEST[0002] START GET "https://example.com/games"
HTTP_REQUEST[0002] DONE  GET "https://example.com/games" | 200 | %s
HTTP_REQUEST[0002] BODY  GET "https://example.com/games" | %s
`

	// Test
	res, err := c.Send(ctx, newGet(t, "https://example.com/games"))
	require.NoError(t, err)
	assert.Equal(t, "OK1", string(res.Body))
	res, err = c.Send(ctx, newGet(t, "https://example.com/games"))
	require.NoError(t, err)
	assert.Equal(t, "OK2", string(res.Body))
	wildcards.Assert(t, strings.TrimLeft(expected, "\n"), logs.String())
}

func TestLogTracer_Error(t *testing.T) {
	t.Parallel()

	// Mocked response
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", `https://example.com/games`, httpmock.NewErrorResponder(io.ErrUnexpectedEOF))

	// Logs for trace testing
	var logs strings.Builder

	// Create client
	ctx := context.Background()
	c := client.New().
		WithTransport(transport).
		AndTrace(trace.LogTracer(&logs))

	// Expected trace
	expected := `
HTTP_REQUEST[0001] START GET "https://example.com/games"
HTTP_REQUEST[0001] DONE  GET "https://example.com/games" | 0 | %s | error=unexpected EOF
HTTP_REQUEST[0001] BODY  GET "https://example.com/games" | %s | error=request GET "https://example.com/games" failed: unexpected EOF
`

	// Test
	_, err := c.Send(ctx, newGet(t, "https://example.com/games"))
	require.Error(t, err)
	wildcards.Assert(t, strings.TrimLeft(expected, "\n"), logs.String())
}

package otel

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccess(t *testing.T) {
	t.Parallel()
	assert.False(t, isSuccess(nil, nil))
	assert.False(t, isSuccess(nil, errors.New("some error")))
	assert.False(t, isSuccess(&http.Response{}, errors.New("some error")))
	assert.False(t, isSuccess(&http.Response{StatusCode: http.StatusBadRequest}, errors.New("some error")))
	assert.False(t, isSuccess(&http.Response{StatusCode: http.StatusOK}, errors.New("some error")))
	assert.True(t, isSuccess(&http.Response{StatusCode: http.StatusOK}, nil))
}

func TestIsRedirection(t *testing.T) {
	t.Parallel()
	assert.False(t, isRedirection(nil))
	assert.False(t, isRedirection(&http.Response{}))
	assert.False(t, isRedirection(&http.Response{StatusCode: http.StatusOK}))
	assert.False(t, isRedirection(&http.Response{StatusCode: http.StatusBadRequest}))
	assert.True(t, isRedirection(&http.Response{StatusCode: http.StatusTemporaryRedirect}))
}

func TestIsAPIError(t *testing.T) {
	t.Parallel()
	assert.False(t, isAPIError(nil))
	assert.False(t, isAPIError(&http.Response{StatusCode: http.StatusOK}))
	assert.True(t, isAPIError(&http.Response{StatusCode: http.StatusNotFound}))
	assert.True(t, isAPIError(&http.Response{StatusCode: 420}))
}

func TestRedactURL(t *testing.T) {
	t.Parallel()
	attrs := &attributes{config: newConfig([]Option{WithRedactedQueryParam("Secret")})}
	in, err := http.NewRequest(http.MethodGet, "https://example.com/games?secret=abc&name=mario", nil)
	assert.NoError(t, err)
	out := attrs.redactURL(in.URL)
	assert.Equal(t, "https://example.com/games?name=mario&secret=%2A%2A%2A%2A", out.String())
	// Input is not modified
	assert.Equal(t, "https://example.com/games?secret=abc&name=mario", in.URL.String())
}

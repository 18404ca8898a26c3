package request_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

type testDirection string

type Paging struct {
	Offset int `query:"offset,omitempty"`
	Max    int `query:"max,omitempty"`
}

type testQuery struct {
	Paging
	Name      string        `json:"name,omitempty"`
	Platforms []string      `query:"platform"`
	Released  *int          `query:"released"`
	Bulk      bool          `query:"_bulk,omitempty"`
	Direction testDirection `query:"direction,omitempty"`
	Timeout   time.Duration `query:"timeout,omitempty"`
	Ignored   string        `query:"-"`
	internal  string
}

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	released := 1996
	query, err := request.EncodeQuery(testQuery{
		Paging: Paging{Max: 200},
		Name:       "mario",
		Platforms:  []string{"w89rwelk", "nzelreqp"},
		Released:   &released,
		Bulk:       true,
		Direction:  "desc",
		Timeout:    time.Second,
		Ignored:    "foo",
		internal:   "bar",
	})
	require.NoError(t, err)
	assert.Equal(t, "_bulk=true&direction=desc&max=200&name=mario&platform=w89rwelk%2Cnzelreqp&released=1996&timeout=1s", query)
}

func TestEncodeQuery_Empty(t *testing.T) {
	t.Parallel()

	query, err := request.EncodeQuery(&testQuery{})
	require.NoError(t, err)
	assert.Equal(t, "", query)

	// Nil pointer
	query, err = request.EncodeQuery((*testQuery)(nil))
	require.NoError(t, err)
	assert.Equal(t, "", query)
}

func TestEncodeQuery_Error(t *testing.T) {
	t.Parallel()

	_, err := request.EncodeQuery("foo")
	require.Error(t, err)
	var bodyErr *request.BodyError
	require.ErrorAs(t, err, &bodyErr)
	assert.Equal(t, "cannot encode request: expected struct, found string", err.Error())

	_, err = request.EncodeQuery(struct {
		Name string
	}{Name: "foo"})
	require.Error(t, err)
	assert.Equal(t, `cannot encode request: field "Name" of struct { Name string } has no query name`, err.Error())
}

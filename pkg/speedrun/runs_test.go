package speedrun_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedrun-go/speedrun-client/pkg/request"
	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

func TestListRuns(t *testing.T) {
	t.Parallel()

	endpoint, err := speedrun.NewListRunsBuilder().
		User("zx7gd1yx").
		Guest("Alex").
		Examiner("kj9pl8n8").
		Game("o1y9wo6q").
		Level("rdqz4kdx").
		Category("wkpoo02r").
		Platform("w89rwelk").
		Region("pr184lqn").
		Emulated(false).
		Status(speedrun.RunVerified).
		OrderBy(speedrun.RunsByVerifyDate).
		Direction(speedrun.Descending).
		Build()
	require.NoError(t, err)

	assertEndpoint(t, endpoint, "GET", "runs", url.Values{
		"user":      {"zx7gd1yx"},
		"guest":     {"Alex"},
		"examiner":  {"kj9pl8n8"},
		"game":      {"o1y9wo6q"},
		"level":     {"rdqz4kdx"},
		"category":  {"wkpoo02r"},
		"platform":  {"w89rwelk"},
		"region":    {"pr184lqn"},
		"emulated":  {"false"},
		"status":    {"verified"},
		"orderby":   {"verify-date"},
		"direction": {"desc"},
	})
}

func TestRunEndpoints(t *testing.T) {
	t.Parallel()

	get, err := speedrun.NewGetRunBuilder().ID("y8dwozoj").Build()
	require.NoError(t, err)
	assertEndpoint(t, get, "GET", "runs/y8dwozoj", nil)

	del, err := speedrun.NewDeleteRunBuilder().ID("y8dwozoj").Build()
	require.NoError(t, err)
	assertEndpoint(t, del, "DELETE", "runs/y8dwozoj", nil)
	body, err := del.Body()
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestCreateRun(t *testing.T) {
	t.Parallel()

	endpoint, err := speedrun.NewCreateRunBuilder().
		Category("wkpoo02r").
		Date("2024-01-31").
		Platform("w89rwelk").
		Verified(false).
		Realtime(6180.5).
		Players(speedrun.UserPlayer("zx7gd1yx"), speedrun.GuestPlayer("Alex")).
		Emulated(false).
		Video("https://www.youtube.com/watch?v=123").
		Comment("GG").
		Variable("e8m7em86", speedrun.PreDefinedValue("9qj7z0oq")).
		Variable("onvv7mnm", speedrun.UserDefinedValue("custom")).
		Build()
	require.NoError(t, err)
	assertEndpoint(t, endpoint, "POST", "runs", nil)

	body, err := endpoint.Body()
	require.NoError(t, err)
	assert.Equal(t, "application/json", body.ContentType)
	assert.JSONEq(t, `{
  "run": {
    "category": "wkpoo02r",
    "date": "2024-01-31",
    "platform": "w89rwelk",
    "verified": false,
    "times": {"realtime": 6180.5},
    "players": [{"rel": "user", "id": "zx7gd1yx"}, {"rel": "guest", "name": "Alex"}],
    "emulated": false,
    "video": "https://www.youtube.com/watch?v=123",
    "comment": "GG",
    "variables": {
      "e8m7em86": {"type": "pre-defined", "value": "9qj7z0oq"},
      "onvv7mnm": {"type": "user-defined", "value": "custom"}
    }
  }
}`, string(body.Data))
}

func TestCreateRun_Required(t *testing.T) {
	t.Parallel()

	_, err := speedrun.NewCreateRunBuilder().Realtime(10).Build()
	assert.Equal(t, "category must be initialized", err.Error())

	_, err = speedrun.NewCreateRunBuilder().Category("wkpoo02r").Build()
	assert.Equal(t, "times must be initialized", err.Error())

	_, err = speedrun.NewCreateRunBuilder().Category("wkpoo02r").InGame(10).Build()
	assert.NoError(t, err)
}

func TestUpdateRunStatus(t *testing.T) {
	t.Parallel()

	verified, err := speedrun.NewUpdateRunStatusBuilder().ID("y8dwozoj").Verified().Build()
	require.NoError(t, err)
	assertEndpoint(t, verified, "PUT", "runs/y8dwozoj/status", nil)
	body, err := verified.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":{"status":"verified"}}`, string(body.Data))

	rejected, err := speedrun.NewUpdateRunStatusBuilder().ID("y8dwozoj").Rejected("no video").Build()
	require.NoError(t, err)
	body, err = rejected.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":{"status":"rejected","reason":"no video"}}`, string(body.Data))

	_, err = speedrun.NewUpdateRunStatusBuilder().Verified().Build()
	assert.Equal(t, "id must be initialized", err.Error())
	_, err = speedrun.NewUpdateRunStatusBuilder().ID("y8dwozoj").Build()
	assert.Equal(t, "status must be initialized", err.Error())
}

func TestUpdateRunPlayers(t *testing.T) {
	t.Parallel()

	endpoint, err := speedrun.NewUpdateRunPlayersBuilder().ID("y8dwozoj").Players(speedrun.GuestPlayer("Alex")).Build()
	require.NoError(t, err)
	assertEndpoint(t, endpoint, "PUT", "runs/y8dwozoj/players", nil)
	body, err := endpoint.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":[{"rel":"guest","name":"Alex"}]}`, string(body.Data))

	_, err = speedrun.NewUpdateRunPlayersBuilder().ID("y8dwozoj").Build()
	assert.Equal(t, "players must be initialized", err.Error())
}

func TestCreateRunRequest(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t, speedrun.WithAPIKey("my-key"))
	transport.RegisterResponder("POST", "https://www.speedrun.com/api/v1/runs", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "my-key", req.Header.Get(speedrun.APIKeyHeader))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		body, err := io.ReadAll(req.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"run":{"category":"wkpoo02r","times":{"realtime":60}}}`, string(body))
		return httpmock.NewStringResponse(201, `{"data":{"id":"new1","category":"wkpoo02r","status":{"status":"new"},"times":{"primary":"PT1M","primary_t":60}}}`), nil
	})

	endpoint, err := speedrun.NewCreateRunBuilder().Category("wkpoo02r").Realtime(60).Build()
	require.NoError(t, err)
	run, err := api.CreateRunRequest(endpoint).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new1", run.ID)
	assert.Equal(t, speedrun.RunNew, run.Status.Status)
	assert.Equal(t, "PT1M", run.Times.Primary)
	assert.InDelta(t, 60.0, run.Times.PrimarySeconds, 0.001)
}

func TestCreateRunRequest_Forbidden(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t)
	transport.RegisterResponder("POST", "https://www.speedrun.com/api/v1/runs", httpmock.NewStringResponder(403, `{"status":403,"message":"Authentication required."}`))

	endpoint, err := speedrun.NewCreateRunBuilder().Category("wkpoo02r").Realtime(60).Build()
	require.NoError(t, err)
	_, err = api.CreateRunRequest(endpoint).Send(context.Background())
	var apiErr *request.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
	assert.Equal(t, "Authentication required.", apiErr.Message)
}

func TestGetRunRequest(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t)
	transport.RegisterResponder("GET", "https://www.speedrun.com/api/v1/runs/y8dwozoj", httpmock.NewStringResponder(200, `{
  "data": {
    "id": "y8dwozoj",
    "weblink": "https://www.speedrun.com/sm64/run/y8dwozoj",
    "game": "o1y9wo6q",
    "level": null,
    "category": "wkpoo02r",
    "videos": {"links": [{"uri": "https://www.youtube.com/watch?v=123"}]},
    "comment": null,
    "status": {"status": "verified", "examiner": "kj9pl8n8", "verify-date": "2020-02-29T10:00:00Z"},
    "players": [{"rel": "user", "id": "zx7gd1yx", "uri": "https://www.speedrun.com/api/v1/users/zx7gd1yx"}],
    "date": "2020-02-28",
    "submitted": "2020-02-28T12:00:00Z",
    "times": {"primary": "PT1H36M", "primary_t": 5760, "realtime": "PT1H36M", "realtime_t": 5760, "realtime_noloads": null, "realtime_noloads_t": 0, "ingame": null, "ingame_t": 0},
    "system": {"platform": "w89rwelk", "emulated": false, "region": null},
    "splits": null,
    "values": {"e8m7em86": "9qj7z0oq"}
  }
}`))

	endpoint, err := speedrun.NewGetRunBuilder().ID("y8dwozoj").Build()
	require.NoError(t, err)
	run, err := api.GetRunRequest(endpoint).Send(context.Background())
	require.NoError(t, err)

	assert.Nil(t, run.Level)
	assert.Nil(t, run.Comment)
	assert.Nil(t, run.Splits)
	assert.Equal(t, []speedrun.URIRef{{URI: "https://www.youtube.com/watch?v=123"}}, run.Videos.Links)
	assert.Equal(t, speedrun.RunVerified, run.Status.Status)
	require.NotNil(t, run.Status.VerifyDate)
	assert.Equal(t, 29, run.Status.VerifyDate.Day())
	assert.Equal(t, []speedrun.Player{{Rel: "user", ID: "zx7gd1yx", URI: "https://www.speedrun.com/api/v1/users/zx7gd1yx"}}, run.Players)
	require.NotNil(t, run.Times.Realtime)
	assert.Equal(t, "PT1H36M", *run.Times.Realtime)
	assert.Nil(t, run.Times.InGame)
	assert.False(t, run.System.Emulated)
	assert.Equal(t, map[string]string{"e8m7em86": "9qj7z0oq"}, run.Values)
}

func TestListRunsRequest_Error(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t)
	transport.RegisterResponder("GET", "https://www.speedrun.com/api/v1/runs?game=o1y9wo6q&offset=0", httpmock.NewStringResponder(200, `{
  "data": [{"id": "r1"}, {"id": "r2"}],
  "pagination": {"offset": 0, "max": 2, "size": 2}
}`))
	transport.RegisterResponder("GET", "https://www.speedrun.com/api/v1/runs?game=o1y9wo6q&offset=2", httpmock.NewStringResponder(420, `{"status":420,"message":"Too many requests."}`))

	endpoint, err := speedrun.NewListRunsBuilder().Game("o1y9wo6q").Build()
	require.NoError(t, err)
	runs, err := api.ListRunsRequest(endpoint).Collect(context.Background())
	assert.Len(t, runs, 2)
	var apiErr *request.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 420, apiErr.Status)
}

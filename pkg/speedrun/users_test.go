package speedrun_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedrun-go/speedrun-client/pkg/request"
	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

func TestListUsers(t *testing.T) {
	t.Parallel()

	endpoint, err := speedrun.NewListUsersBuilder().
		Lookup("cheese").
		Name("che").
		Twitch("cheese05").
		Hitbox("cheese").
		Twitter("cheese").
		SpeedRunsLive("cheese").
		OrderBy(speedrun.UsersBySignup).
		Direction(speedrun.Ascending).
		Build()
	require.NoError(t, err)

	assertEndpoint(t, endpoint, "GET", "users", url.Values{
		"lookup":        {"cheese"},
		"name":          {"che"},
		"twitch":        {"cheese05"},
		"hitbox":        {"cheese"},
		"twitter":       {"cheese"},
		"speedrunslive": {"cheese"},
		"orderby":       {"signup"},
		"direction":     {"asc"},
	})
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()

	user, err := speedrun.NewGetUserBuilder().ID("zx7gd1yx").Build()
	require.NoError(t, err)
	assertEndpoint(t, user, "GET", "users/zx7gd1yx", nil)

	// Embeds are sorted and without duplicates
	pbs, err := speedrun.NewListPersonalBestsBuilder().
		ID("zx7gd1yx").
		Top(1).
		Series("mario").
		Game("sm64").
		Embed(speedrun.EmbedPlayers, speedrun.EmbedGame).
		Embed(speedrun.EmbedCategory, speedrun.EmbedGame).
		Build()
	require.NoError(t, err)
	assertEndpoint(t, pbs, "GET", "users/zx7gd1yx/personal-bests", url.Values{
		"top":    {"1"},
		"series": {"mario"},
		"game":   {"sm64"},
		"embed":  {"category,game,players"},
	})

	_, err = speedrun.NewGetUserBuilder().Build()
	assert.Equal(t, "id must be initialized", err.Error())
	_, err = speedrun.NewListPersonalBestsBuilder().Top(1).Build()
	assert.Equal(t, "id must be initialized", err.Error())
}

func TestGetUserRequest(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t)
	transport.RegisterResponder("GET", "https://www.speedrun.com/api/v1/users/cheese", httpmock.NewStringResponder(200, `{
  "data": {
    "id": "zx7gd1yx",
    "names": {"international": "Cheese", "japanese": null},
    "pronouns": "He/Him",
    "weblink": "https://www.speedrun.com/user/Cheese",
    "role": "user",
    "signup": "2014-11-26T07:02:37Z",
    "location": {"country": {"code": "gb", "names": {"international": "United Kingdom"}}, "region": null},
    "twitch": {"uri": "https://www.twitch.tv/cheese05"},
    "hitbox": null,
    "youtube": null,
    "twitter": null,
    "speedrunslive": null
  }
}`))

	endpoint, err := speedrun.NewGetUserBuilder().ID("cheese").Build()
	require.NoError(t, err)
	user, err := api.GetUserRequest(endpoint).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cheese", user.Names.International)
	assert.Empty(t, user.Names.Japanese)
	require.NotNil(t, user.Signup)
	assert.Equal(t, 2014, user.Signup.Year())
	assert.Equal(t, "gb", user.Location.Country.Code)
	assert.Nil(t, user.Location.Region)
	assert.Equal(t, &speedrun.URIRef{URI: "https://www.twitch.tv/cheese05"}, user.Twitch)
	assert.Nil(t, user.Hitbox)
}

func TestListPersonalBestsRequest(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t)
	transport.RegisterResponder("GET", "https://www.speedrun.com/api/v1/users/zx7gd1yx/personal-bests?top=1", httpmock.NewStringResponder(200, `{
  "data": [
    {"place": 1, "run": {"id": "y8dwozoj", "game": "o1y9wo6q"}},
    {"place": 1, "run": {"id": "zpqmgrem", "game": "pdvzq96w"}}
  ]
}`))

	endpoint, err := speedrun.NewListPersonalBestsBuilder().ID("zx7gd1yx").Top(1).Build()
	require.NoError(t, err)
	pbs, err := api.ListPersonalBestsRequest(endpoint).Send(context.Background())
	require.NoError(t, err)
	require.Len(t, pbs, 2)
	assert.Equal(t, 1, pbs[0].Place)
	assert.Equal(t, "zpqmgrem", pbs[1].Run.ID)
}

func TestListUsersRequest(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t)
	transport.RegisterResponder("GET", "https://www.speedrun.com/api/v1/users?lookup=cheese&offset=0", httpmock.NewStringResponder(200, `{
  "data": [],
  "pagination": {"offset": 0, "max": 20, "size": 0, "links": []}
}`))

	endpoint, err := speedrun.NewListUsersBuilder().Lookup("cheese").Build()
	require.NoError(t, err)
	pager := api.ListUsersRequest(endpoint)
	users, err := pager.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 1, pager.Fetches())
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestListUsersRequest_Limit(t *testing.T) {
	t.Parallel()

	api, transport := newMockedAPI(t)
	transport.RegisterResponder("GET", "https://www.speedrun.com/api/v1/users?offset=0", httpmock.NewStringResponder(200, `{
  "data": [{"id": "u1"}, {"id": "u2"}, {"id": "u3"}],
  "pagination": {"offset": 0, "max": 3, "size": 3}
}`))

	endpoint, err := speedrun.NewListUsersBuilder().Build()
	require.NoError(t, err)
	users, err := api.ListUsersRequest(endpoint, request.WithLimit(2)).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []speedrun.User{{ID: "u1"}, {ID: "u2"}}, users)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

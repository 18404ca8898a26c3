package speedrun

import (
	"net/url"
	"sort"

	"github.com/relvacode/iso8601"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// UsersSorting options, the default is UsersByNameInternational.
type UsersSorting string

const (
	UsersByNameInternational = UsersSorting("name.int")
	UsersByNameJapanese      = UsersSorting("name.jap")
	UsersBySignup            = UsersSorting("signup")
	UsersByRole              = UsersSorting("role")
)

// User https://github.com/speedruncomorg/api/blob/master/version1/users.md
type User struct {
	ID            string        `json:"id"`
	Names         Names         `json:"names"`
	Pronouns      *string       `json:"pronouns"`
	Weblink       string        `json:"weblink"`
	Role          string        `json:"role"`
	Signup        *iso8601.Time `json:"signup"`
	Location      *Location     `json:"location"`
	Twitch        *URIRef       `json:"twitch"`
	Hitbox        *URIRef       `json:"hitbox"`
	YouTube       *URIRef       `json:"youtube"`
	Twitter       *URIRef       `json:"twitter"`
	SpeedRunsLive *URIRef       `json:"speedrunslive"`
	Assets        Assets        `json:"assets"`
	Links         []Link        `json:"links"`
}

type Location struct {
	Country Country  `json:"country"`
	Region  *Country `json:"region"`
}

type Country struct {
	Code  string `json:"code"`
	Names Names  `json:"names"`
}

type usersQuery struct {
	Lookup        string       `query:"lookup,omitempty"`
	Name          string       `query:"name,omitempty"`
	Twitch        string       `query:"twitch,omitempty"`
	Hitbox        string       `query:"hitbox,omitempty"`
	Twitter       string       `query:"twitter,omitempty"`
	SpeedRunsLive string       `query:"speedrunslive,omitempty"`
	OrderBy       UsersSorting `query:"orderby,omitempty"`
	Direction     Direction    `query:"direction,omitempty"`
}

// ListUsers filters users, the result is paged.
type ListUsers struct {
	request.Get
	query usersQuery
}

func (ListUsers) Paginated() {}

func (ListUsers) Path() string {
	return "users"
}

func (e ListUsers) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListUsersBuilder struct {
	query usersQuery
}

func NewListUsersBuilder() *ListUsersBuilder {
	return &ListUsersBuilder{}
}

// Lookup performs a case-insensitive exact-match search across all names and profile URLs.
func (b *ListUsersBuilder) Lookup(v string) *ListUsersBuilder {
	b.query.Lookup = v
	return b
}

func (b *ListUsersBuilder) Name(v string) *ListUsersBuilder {
	b.query.Name = v
	return b
}

func (b *ListUsersBuilder) Twitch(v string) *ListUsersBuilder {
	b.query.Twitch = v
	return b
}

func (b *ListUsersBuilder) Hitbox(v string) *ListUsersBuilder {
	b.query.Hitbox = v
	return b
}

func (b *ListUsersBuilder) Twitter(v string) *ListUsersBuilder {
	b.query.Twitter = v
	return b
}

func (b *ListUsersBuilder) SpeedRunsLive(v string) *ListUsersBuilder {
	b.query.SpeedRunsLive = v
	return b
}

func (b *ListUsersBuilder) OrderBy(v UsersSorting) *ListUsersBuilder {
	b.query.OrderBy = v
	return b
}

func (b *ListUsersBuilder) Direction(v Direction) *ListUsersBuilder {
	b.query.Direction = v
	return b
}

func (b *ListUsersBuilder) Build() (ListUsers, error) {
	return ListUsers{query: b.query}, nil
}

// GetUser by ID or by name.
type GetUser struct {
	request.Get
	id string
}

func (e GetUser) Path() string {
	return "users/" + url.PathEscape(e.id)
}

type GetUserBuilder struct {
	id string
}

func NewGetUserBuilder() *GetUserBuilder {
	return &GetUserBuilder{}
}

func (b *GetUserBuilder) ID(v string) *GetUserBuilder {
	b.id = v
	return b
}

func (b *GetUserBuilder) Build() (GetUser, error) {
	if err := required("id", b.id); err != nil {
		return GetUser{}, err
	}
	return GetUser{id: b.id}, nil
}

type personalBestsQuery struct {
	Top    *int       `query:"top"`
	Series string     `query:"series,omitempty"`
	Game   string     `query:"game,omitempty"`
	Embed  []RunEmbed `query:"embed"`
}

// ListPersonalBests lists personal bests of a user.
type ListPersonalBests struct {
	request.Get
	id    string
	query personalBestsQuery
}

func (e ListPersonalBests) Path() string {
	return "users/" + url.PathEscape(e.id) + "/personal-bests"
}

func (e ListPersonalBests) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListPersonalBestsBuilder struct {
	id     string
	query  personalBestsQuery
	embeds embeds
}

func NewListPersonalBestsBuilder() *ListPersonalBestsBuilder {
	return &ListPersonalBestsBuilder{}
}

func (b *ListPersonalBestsBuilder) ID(v string) *ListPersonalBestsBuilder {
	b.id = v
	return b
}

// Top returns only runs with the place equal or better than the value.
func (b *ListPersonalBestsBuilder) Top(v int) *ListPersonalBestsBuilder {
	b.query.Top = &v
	return b
}

// Series filters by series ID or abbreviation.
func (b *ListPersonalBestsBuilder) Series(v string) *ListPersonalBestsBuilder {
	b.query.Series = v
	return b
}

// Game filters by game ID or abbreviation.
func (b *ListPersonalBestsBuilder) Game(v string) *ListPersonalBestsBuilder {
	b.query.Game = v
	return b
}

func (b *ListPersonalBestsBuilder) Embed(v ...RunEmbed) *ListPersonalBestsBuilder {
	b.embeds = b.embeds.add(v...)
	return b
}

func (b *ListPersonalBestsBuilder) Build() (ListPersonalBests, error) {
	if err := required("id", b.id); err != nil {
		return ListPersonalBests{}, err
	}
	query := b.query
	query.Embed = b.embeds.sorted()
	return ListPersonalBests{id: b.id, query: query}, nil
}

// embeds is a set, the values are sent sorted and without duplicates.
type embeds map[RunEmbed]struct{}

func (v embeds) add(items ...RunEmbed) embeds {
	out := make(embeds, len(v)+len(items))
	for k := range v {
		out[k] = struct{}{}
	}
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}

func (v embeds) sorted() []RunEmbed {
	if len(v) == 0 {
		return nil
	}
	out := make([]RunEmbed, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}

// ListUsersRequest https://github.com/speedruncomorg/api/blob/master/version1/users.md#get-users
func (a *API) ListUsersRequest(e ListUsers, opts ...request.PageOption) *request.Pager[User] {
	return newPager[User](a, e, opts)
}

// GetUserRequest https://github.com/speedruncomorg/api/blob/master/version1/users.md#get-usersid
func (a *API) GetUserRequest(e GetUser) request.APIRequest[User] {
	return newAPIRequest[User](a, e)
}

// ListPersonalBestsRequest https://github.com/speedruncomorg/api/blob/master/version1/users.md#get-usersidpersonal-bests
func (a *API) ListPersonalBestsRequest(e ListPersonalBests) request.APIRequest[[]RankedRun] {
	return newAPIRequest[[]RankedRun](a, e)
}

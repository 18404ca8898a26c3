package speedrun

import (
	"net/url"

	"github.com/relvacode/iso8601"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// GamesSorting options, the default is NameInternational, or Similarity when searching by name.
type GamesSorting string

const (
	GamesByNameInternational = GamesSorting("name.int")
	GamesByNameJapanese      = GamesSorting("name.jap")
	GamesByAbbreviation      = GamesSorting("abbreviation")
	GamesByReleased          = GamesSorting("released")
	GamesByCreated           = GamesSorting("created")
	GamesBySimilarity        = GamesSorting("similarity")
)

// CategoriesSorting options, the default is CategoriesByPos.
type CategoriesSorting string

const (
	CategoriesByName          = CategoriesSorting("name")
	CategoriesByMiscellaneous = CategoriesSorting("miscellaneous")
	CategoriesByPos           = CategoriesSorting("pos")
)

// LevelsSorting options, the default is LevelsByPos.
type LevelsSorting string

const (
	LevelsByName = LevelsSorting("name")
	LevelsByPos  = LevelsSorting("pos")
)

// VariablesSorting options, the default is VariablesByPos.
type VariablesSorting string

const (
	VariablesByName        = VariablesSorting("name")
	VariablesByMandatory   = VariablesSorting("mandatory")
	VariablesByUserDefined = VariablesSorting("user-defined")
	VariablesByPos         = VariablesSorting("pos")
)

// LeaderboardScope filters records of a game.
type LeaderboardScope string

const (
	ScopeFullGame = LeaderboardScope("full-game")
	ScopeLevels   = LeaderboardScope("levels")
	ScopeAll      = LeaderboardScope("all")
)

// Game https://github.com/speedruncomorg/api/blob/master/version1/games.md
type Game struct {
	ID           string                   `json:"id"`
	Names        Names                    `json:"names"`
	Abbreviation string                   `json:"abbreviation"`
	Weblink      string                   `json:"weblink"`
	Released     int                      `json:"released"`
	ReleaseDate  string                   `json:"release-date"`
	Ruleset      Ruleset                  `json:"ruleset"`
	Romhack      bool                     `json:"romhack"`
	GameTypes    []string                 `json:"gametypes"`
	Platforms    []string                 `json:"platforms"`
	Regions      []string                 `json:"regions"`
	Genres       []string                 `json:"genres"`
	Engines      []string                 `json:"engines"`
	Developers   []string                 `json:"developers"`
	Publishers   []string                 `json:"publishers"`
	Moderators   map[string]ModeratorRole `json:"moderators"`
	Created      *iso8601.Time            `json:"created"`
	Assets       Assets                   `json:"assets"`
	Links        []Link                   `json:"links"`
}

// Ruleset of a game.
type Ruleset struct {
	ShowMilliseconds    bool           `json:"show-milliseconds"`
	RequireVerification bool           `json:"require-verification"`
	RequireVideo        bool           `json:"require-video"`
	RunTimes            []TimingMethod `json:"run-times"`
	DefaultTime         TimingMethod   `json:"default-time"`
	EmulatorsAllowed    bool           `json:"emulators-allowed"`
}

// Category https://github.com/speedruncomorg/api/blob/master/version1/categories.md
type Category struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Weblink       string          `json:"weblink"`
	Type          string          `json:"type"`
	Rules         string          `json:"rules"`
	Players       CategoryPlayers `json:"players"`
	Miscellaneous bool            `json:"miscellaneous"`
	Links         []Link          `json:"links"`
}

// CategoryPlayers describes number of players of a run in the category, type is "exactly" or "up-to".
type CategoryPlayers struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Level https://github.com/speedruncomorg/api/blob/master/version1/levels.md
type Level struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Weblink string `json:"weblink"`
	Rules   string `json:"rules"`
	Links   []Link `json:"links"`
}

// Variable https://github.com/speedruncomorg/api/blob/master/version1/variables.md
type Variable struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Category      *string        `json:"category"`
	Scope         VariableScope  `json:"scope"`
	Mandatory     bool           `json:"mandatory"`
	UserDefined   bool           `json:"user-defined"`
	Obsoletes     bool           `json:"obsoletes"`
	Values        VariableValues `json:"values"`
	IsSubcategory bool           `json:"is-subcategory"`
	Links         []Link         `json:"links"`
}

// VariableScope type is "global", "full-game", "all-levels" or "single-level".
type VariableScope struct {
	Type  string `json:"type"`
	Level string `json:"level,omitempty"`
}

// VariableValues maps value ID to the value.
type VariableValues struct {
	Values  map[string]VariableValue `json:"values"`
	Default *string                  `json:"default"`
}

type VariableValue struct {
	Label string             `json:"label"`
	Rules *string            `json:"rules"`
	Flags VariableValueFlags `json:"flags"`
}

type VariableValueFlags struct {
	Miscellaneous *bool `json:"miscellaneous"`
}

type gamesQuery struct {
	Name         string       `query:"name,omitempty"`
	Abbreviation string       `query:"abbreviation,omitempty"`
	Released     *int         `query:"released"`
	GameType     string       `query:"gametype,omitempty"`
	Platform     string       `query:"platform,omitempty"`
	Region       string       `query:"region,omitempty"`
	Genre        string       `query:"genre,omitempty"`
	Engine       string       `query:"engine,omitempty"`
	Developer    string       `query:"developer,omitempty"`
	Publisher    string       `query:"publisher,omitempty"`
	Moderator    string       `query:"moderator,omitempty"`
	Bulk         *bool        `query:"_bulk"`
	OrderBy      GamesSorting `query:"orderby,omitempty"`
	Direction    Direction    `query:"direction,omitempty"`
}

// ListGames filters games, the result is paged.
type ListGames struct {
	request.Get
	query gamesQuery
}

func (ListGames) Paginated() {}

func (ListGames) Path() string {
	return "games"
}

func (e ListGames) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListGamesBuilder struct {
	query gamesQuery
}

func NewListGamesBuilder() *ListGamesBuilder {
	return &ListGamesBuilder{}
}

// Name performs a fuzzy search.
func (b *ListGamesBuilder) Name(v string) *ListGamesBuilder {
	b.query.Name = v
	return b
}

// Abbreviation performs an exact match search.
func (b *ListGamesBuilder) Abbreviation(v string) *ListGamesBuilder {
	b.query.Abbreviation = v
	return b
}

// Released filters by the year of release.
func (b *ListGamesBuilder) Released(v int) *ListGamesBuilder {
	b.query.Released = &v
	return b
}

func (b *ListGamesBuilder) GameType(v string) *ListGamesBuilder {
	b.query.GameType = v
	return b
}

func (b *ListGamesBuilder) Platform(v string) *ListGamesBuilder {
	b.query.Platform = v
	return b
}

func (b *ListGamesBuilder) Region(v string) *ListGamesBuilder {
	b.query.Region = v
	return b
}

func (b *ListGamesBuilder) Genre(v string) *ListGamesBuilder {
	b.query.Genre = v
	return b
}

func (b *ListGamesBuilder) Engine(v string) *ListGamesBuilder {
	b.query.Engine = v
	return b
}

func (b *ListGamesBuilder) Developer(v string) *ListGamesBuilder {
	b.query.Developer = v
	return b
}

func (b *ListGamesBuilder) Publisher(v string) *ListGamesBuilder {
	b.query.Publisher = v
	return b
}

func (b *ListGamesBuilder) Moderator(v string) *ListGamesBuilder {
	b.query.Moderator = v
	return b
}

// Bulk enables the bulk access mode, the response contains only a subset of fields, but the page size can be up to 1000.
func (b *ListGamesBuilder) Bulk(v bool) *ListGamesBuilder {
	b.query.Bulk = &v
	return b
}

func (b *ListGamesBuilder) OrderBy(v GamesSorting) *ListGamesBuilder {
	b.query.OrderBy = v
	return b
}

func (b *ListGamesBuilder) Direction(v Direction) *ListGamesBuilder {
	b.query.Direction = v
	return b
}

func (b *ListGamesBuilder) Build() (ListGames, error) {
	return ListGames{query: b.query}, nil
}

// GetGame by ID or by abbreviation.
type GetGame struct {
	request.Get
	id string
}

func (e GetGame) Path() string {
	return "games/" + url.PathEscape(e.id)
}

type GetGameBuilder struct {
	id string
}

func NewGetGameBuilder() *GetGameBuilder {
	return &GetGameBuilder{}
}

func (b *GetGameBuilder) ID(v string) *GetGameBuilder {
	b.id = v
	return b
}

func (b *GetGameBuilder) Build() (GetGame, error) {
	if err := required("id", b.id); err != nil {
		return GetGame{}, err
	}
	return GetGame{id: b.id}, nil
}

type gameCategoriesQuery struct {
	Miscellaneous *bool             `query:"miscellaneous"`
	OrderBy       CategoriesSorting `query:"orderby,omitempty"`
	Direction     Direction         `query:"direction,omitempty"`
}

// ListGameCategories lists categories of a game.
type ListGameCategories struct {
	request.Get
	id    string
	query gameCategoriesQuery
}

func (e ListGameCategories) Path() string {
	return "games/" + url.PathEscape(e.id) + "/categories"
}

func (e ListGameCategories) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListGameCategoriesBuilder struct {
	id    string
	query gameCategoriesQuery
}

func NewListGameCategoriesBuilder() *ListGameCategoriesBuilder {
	return &ListGameCategoriesBuilder{}
}

func (b *ListGameCategoriesBuilder) ID(v string) *ListGameCategoriesBuilder {
	b.id = v
	return b
}

// Miscellaneous set to false hides the miscellaneous categories.
func (b *ListGameCategoriesBuilder) Miscellaneous(v bool) *ListGameCategoriesBuilder {
	b.query.Miscellaneous = &v
	return b
}

func (b *ListGameCategoriesBuilder) OrderBy(v CategoriesSorting) *ListGameCategoriesBuilder {
	b.query.OrderBy = v
	return b
}

func (b *ListGameCategoriesBuilder) Direction(v Direction) *ListGameCategoriesBuilder {
	b.query.Direction = v
	return b
}

func (b *ListGameCategoriesBuilder) Build() (ListGameCategories, error) {
	if err := required("id", b.id); err != nil {
		return ListGameCategories{}, err
	}
	return ListGameCategories{id: b.id, query: b.query}, nil
}

type sortingQuery[T ~string] struct {
	OrderBy   T         `query:"orderby,omitempty"`
	Direction Direction `query:"direction,omitempty"`
}

// ListGameLevels lists levels of a game.
type ListGameLevels struct {
	request.Get
	id    string
	query sortingQuery[LevelsSorting]
}

func (e ListGameLevels) Path() string {
	return "games/" + url.PathEscape(e.id) + "/levels"
}

func (e ListGameLevels) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListGameLevelsBuilder struct {
	id    string
	query sortingQuery[LevelsSorting]
}

func NewListGameLevelsBuilder() *ListGameLevelsBuilder {
	return &ListGameLevelsBuilder{}
}

func (b *ListGameLevelsBuilder) ID(v string) *ListGameLevelsBuilder {
	b.id = v
	return b
}

func (b *ListGameLevelsBuilder) OrderBy(v LevelsSorting) *ListGameLevelsBuilder {
	b.query.OrderBy = v
	return b
}

func (b *ListGameLevelsBuilder) Direction(v Direction) *ListGameLevelsBuilder {
	b.query.Direction = v
	return b
}

func (b *ListGameLevelsBuilder) Build() (ListGameLevels, error) {
	if err := required("id", b.id); err != nil {
		return ListGameLevels{}, err
	}
	return ListGameLevels{id: b.id, query: b.query}, nil
}

// ListGameVariables lists variables of a game.
type ListGameVariables struct {
	request.Get
	id    string
	query sortingQuery[VariablesSorting]
}

func (e ListGameVariables) Path() string {
	return "games/" + url.PathEscape(e.id) + "/variables"
}

func (e ListGameVariables) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListGameVariablesBuilder struct {
	id    string
	query sortingQuery[VariablesSorting]
}

func NewListGameVariablesBuilder() *ListGameVariablesBuilder {
	return &ListGameVariablesBuilder{}
}

func (b *ListGameVariablesBuilder) ID(v string) *ListGameVariablesBuilder {
	b.id = v
	return b
}

func (b *ListGameVariablesBuilder) OrderBy(v VariablesSorting) *ListGameVariablesBuilder {
	b.query.OrderBy = v
	return b
}

func (b *ListGameVariablesBuilder) Direction(v Direction) *ListGameVariablesBuilder {
	b.query.Direction = v
	return b
}

func (b *ListGameVariablesBuilder) Build() (ListGameVariables, error) {
	if err := required("id", b.id); err != nil {
		return ListGameVariables{}, err
	}
	return ListGameVariables{id: b.id, query: b.query}, nil
}

// ListDerivedGames lists romhacks and other games derived from a game, the result is paged.
// The same filters as for ListGames apply.
type ListDerivedGames struct {
	request.Get
	id    string
	query gamesQuery
}

func (ListDerivedGames) Paginated() {}

func (e ListDerivedGames) Path() string {
	return "games/" + url.PathEscape(e.id) + "/derived-games"
}

func (e ListDerivedGames) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListDerivedGamesBuilder struct {
	id     string
	filter ListGamesBuilder
}

func NewListDerivedGamesBuilder() *ListDerivedGamesBuilder {
	return &ListDerivedGamesBuilder{}
}

func (b *ListDerivedGamesBuilder) ID(v string) *ListDerivedGamesBuilder {
	b.id = v
	return b
}

// Filter sets the games filter, the previous filter is replaced.
func (b *ListDerivedGamesBuilder) Filter(fn func(f *ListGamesBuilder)) *ListDerivedGamesBuilder {
	b.filter = ListGamesBuilder{}
	fn(&b.filter)
	return b
}

func (b *ListDerivedGamesBuilder) Build() (ListDerivedGames, error) {
	if err := required("id", b.id); err != nil {
		return ListDerivedGames{}, err
	}
	return ListDerivedGames{id: b.id, query: b.filter.query}, nil
}

type gameRecordsQuery struct {
	Top           *int             `query:"top"`
	Scope         LeaderboardScope `query:"scope,omitempty"`
	Miscellaneous *bool            `query:"miscellaneous"`
	SkipEmpty     *bool            `query:"skip-empty"`
}

// ListGameRecords lists the top runs of all categories and levels of a game, the result is paged.
type ListGameRecords struct {
	request.Get
	id    string
	query gameRecordsQuery
}

func (ListGameRecords) Paginated() {}

func (e ListGameRecords) Path() string {
	return "games/" + url.PathEscape(e.id) + "/records"
}

func (e ListGameRecords) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListGameRecordsBuilder struct {
	id    string
	query gameRecordsQuery
}

func NewListGameRecordsBuilder() *ListGameRecordsBuilder {
	return &ListGameRecordsBuilder{}
}

func (b *ListGameRecordsBuilder) ID(v string) *ListGameRecordsBuilder {
	b.id = v
	return b
}

// Top sets number of places per leaderboard, the default is 3.
func (b *ListGameRecordsBuilder) Top(v int) *ListGameRecordsBuilder {
	b.query.Top = &v
	return b
}

func (b *ListGameRecordsBuilder) Scope(v LeaderboardScope) *ListGameRecordsBuilder {
	b.query.Scope = v
	return b
}

func (b *ListGameRecordsBuilder) Miscellaneous(v bool) *ListGameRecordsBuilder {
	b.query.Miscellaneous = &v
	return b
}

// SkipEmpty skips leaderboards without any run.
func (b *ListGameRecordsBuilder) SkipEmpty(v bool) *ListGameRecordsBuilder {
	b.query.SkipEmpty = &v
	return b
}

func (b *ListGameRecordsBuilder) Build() (ListGameRecords, error) {
	if err := required("id", b.id); err != nil {
		return ListGameRecords{}, err
	}
	return ListGameRecords{id: b.id, query: b.query}, nil
}

// ListGamesRequest https://github.com/speedruncomorg/api/blob/master/version1/games.md#get-games
func (a *API) ListGamesRequest(e ListGames, opts ...request.PageOption) *request.Pager[Game] {
	return newPager[Game](a, e, opts)
}

// GetGameRequest https://github.com/speedruncomorg/api/blob/master/version1/games.md#get-gamesid
func (a *API) GetGameRequest(e GetGame) request.APIRequest[Game] {
	return newAPIRequest[Game](a, e)
}

// ListGameCategoriesRequest https://github.com/speedruncomorg/api/blob/master/version1/games.md#get-gamesidcategories
func (a *API) ListGameCategoriesRequest(e ListGameCategories) request.APIRequest[[]Category] {
	return newAPIRequest[[]Category](a, e)
}

// ListGameLevelsRequest https://github.com/speedruncomorg/api/blob/master/version1/games.md#get-gamesidlevels
func (a *API) ListGameLevelsRequest(e ListGameLevels) request.APIRequest[[]Level] {
	return newAPIRequest[[]Level](a, e)
}

// ListGameVariablesRequest https://github.com/speedruncomorg/api/blob/master/version1/games.md#get-gamesidvariables
func (a *API) ListGameVariablesRequest(e ListGameVariables) request.APIRequest[[]Variable] {
	return newAPIRequest[[]Variable](a, e)
}

// ListDerivedGamesRequest https://github.com/speedruncomorg/api/blob/master/version1/games.md#get-gamesidderived-games
func (a *API) ListDerivedGamesRequest(e ListDerivedGames, opts ...request.PageOption) *request.Pager[Game] {
	return newPager[Game](a, e, opts)
}

// ListGameRecordsRequest https://github.com/speedruncomorg/api/blob/master/version1/games.md#get-gamesidrecords
func (a *API) ListGameRecordsRequest(e ListGameRecords, opts ...request.PageOption) *request.Pager[Leaderboard] {
	return newPager[Leaderboard](a, e, opts)
}

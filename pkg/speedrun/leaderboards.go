package speedrun

import (
	"net/url"
	"sort"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// Leaderboard https://github.com/speedruncomorg/api/blob/master/version1/leaderboards.md
type Leaderboard struct {
	Weblink   string            `json:"weblink"`
	Game      string            `json:"game"`
	Category  string            `json:"category"`
	Level     *string           `json:"level"`
	Platform  *string           `json:"platform"`
	Region    *string           `json:"region"`
	Emulators *bool             `json:"emulators"`
	VideoOnly bool              `json:"video-only"`
	Timing    TimingMethod      `json:"timing"`
	Values    map[string]string `json:"values"`
	Runs      []RankedRun       `json:"runs"`
	Links     []Link            `json:"links"`
}

// RankedRun is a run with the place on a leaderboard.
type RankedRun struct {
	Place int `json:"place"`
	Run   Run `json:"run"`
}

type leaderboardQuery struct {
	Top       *int         `query:"top"`
	Platform  string       `query:"platform,omitempty"`
	Region    string       `query:"region,omitempty"`
	Emulators *bool        `query:"emulators"`
	VideoOnly *bool        `query:"video-only"`
	Timing    TimingMethod `query:"timing,omitempty"`
	Date      string       `query:"date,omitempty"`
	Embed     []RunEmbed   `query:"embed"`
}

// leaderboardFilter is shared by the full-game and the individual-level leaderboards.
type leaderboardFilter struct {
	game      string
	category  string
	query     leaderboardQuery
	variables map[string]string
}

// queryParams encodes the filter, the variables are encoded as "var-<variable>=<value>".
func (f leaderboardFilter) queryParams() (string, error) {
	values, err := request.StructToValues(f.query)
	if err != nil {
		return "", &request.BodyError{Err: err}
	}
	keys := make([]string, 0, len(f.variables))
	for k := range f.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set("var-"+k, f.variables[k])
	}
	return values.Encode(), nil
}

// FullGameLeaderboard of a game category.
type FullGameLeaderboard struct {
	request.Get
	filter leaderboardFilter
}

func (e FullGameLeaderboard) Path() string {
	return "leaderboards/" + url.PathEscape(e.filter.game) + "/category/" + url.PathEscape(e.filter.category)
}

func (e FullGameLeaderboard) QueryParams() (string, error) {
	return e.filter.queryParams()
}

// IndividualLevelLeaderboard of a game level and a category.
type IndividualLevelLeaderboard struct {
	request.Get
	filter leaderboardFilter
	level  string
}

func (e IndividualLevelLeaderboard) Path() string {
	return "leaderboards/" + url.PathEscape(e.filter.game) + "/level/" + url.PathEscape(e.level) + "/" + url.PathEscape(e.filter.category)
}

func (e IndividualLevelLeaderboard) QueryParams() (string, error) {
	return e.filter.queryParams()
}

// LeaderboardBuilder creates both leaderboard requests, see BuildFullGame and BuildIndividualLevel methods.
type LeaderboardBuilder struct {
	filter leaderboardFilter
	level  string
	embeds embeds
}

func NewLeaderboardBuilder() *LeaderboardBuilder {
	return &LeaderboardBuilder{}
}

// Game ID or abbreviation.
func (b *LeaderboardBuilder) Game(v string) *LeaderboardBuilder {
	b.filter.game = v
	return b
}

// Category ID or abbreviation.
func (b *LeaderboardBuilder) Category(v string) *LeaderboardBuilder {
	b.filter.category = v
	return b
}

// Level ID or abbreviation, it is required only by the BuildIndividualLevel method.
func (b *LeaderboardBuilder) Level(v string) *LeaderboardBuilder {
	b.level = v
	return b
}

// Top returns only runs with the place equal or better than the value.
func (b *LeaderboardBuilder) Top(v int) *LeaderboardBuilder {
	b.filter.query.Top = &v
	return b
}

func (b *LeaderboardBuilder) Platform(v string) *LeaderboardBuilder {
	b.filter.query.Platform = v
	return b
}

func (b *LeaderboardBuilder) Region(v string) *LeaderboardBuilder {
	b.filter.query.Region = v
	return b
}

// Emulators set to false hides runs done on emulator, set to true shows only them.
func (b *LeaderboardBuilder) Emulators(v bool) *LeaderboardBuilder {
	b.filter.query.Emulators = &v
	return b
}

func (b *LeaderboardBuilder) VideoOnly(v bool) *LeaderboardBuilder {
	b.filter.query.VideoOnly = &v
	return b
}

func (b *LeaderboardBuilder) Timing(v TimingMethod) *LeaderboardBuilder {
	b.filter.query.Timing = v
	return b
}

// Date in the "YYYY-MM-DD" format, only runs done before or on the date are returned.
func (b *LeaderboardBuilder) Date(v string) *LeaderboardBuilder {
	b.filter.query.Date = v
	return b
}

// Variable filters by a value of the variable.
func (b *LeaderboardBuilder) Variable(variableID, valueID string) *LeaderboardBuilder {
	variables := make(map[string]string, len(b.filter.variables)+1)
	for k, v := range b.filter.variables {
		variables[k] = v
	}
	variables[variableID] = valueID
	b.filter.variables = variables
	return b
}

func (b *LeaderboardBuilder) Embed(v ...RunEmbed) *LeaderboardBuilder {
	b.embeds = b.embeds.add(v...)
	return b
}

func (b *LeaderboardBuilder) BuildFullGame() (FullGameLeaderboard, error) {
	filter, err := b.buildFilter()
	if err != nil {
		return FullGameLeaderboard{}, err
	}
	return FullGameLeaderboard{filter: filter}, nil
}

func (b *LeaderboardBuilder) BuildIndividualLevel() (IndividualLevelLeaderboard, error) {
	filter, err := b.buildFilter()
	if err != nil {
		return IndividualLevelLeaderboard{}, err
	}
	if err := required("level", b.level); err != nil {
		return IndividualLevelLeaderboard{}, err
	}
	return IndividualLevelLeaderboard{filter: filter, level: b.level}, nil
}

func (b *LeaderboardBuilder) buildFilter() (leaderboardFilter, error) {
	if err := required("game", b.filter.game); err != nil {
		return leaderboardFilter{}, err
	}
	if err := required("category", b.filter.category); err != nil {
		return leaderboardFilter{}, err
	}
	filter := b.filter
	filter.query.Embed = b.embeds.sorted()
	return filter, nil
}

// FullGameLeaderboardRequest https://github.com/speedruncomorg/api/blob/master/version1/leaderboards.md#get-leaderboardsgamecategorycategory
func (a *API) FullGameLeaderboardRequest(e FullGameLeaderboard) request.APIRequest[Leaderboard] {
	return newAPIRequest[Leaderboard](a, e)
}

// IndividualLevelLeaderboardRequest https://github.com/speedruncomorg/api/blob/master/version1/leaderboards.md#get-leaderboardsgamelevellevelcategory
func (a *API) IndividualLevelLeaderboardRequest(e IndividualLevelLeaderboard) request.APIRequest[Leaderboard] {
	return newAPIRequest[Leaderboard](a, e)
}

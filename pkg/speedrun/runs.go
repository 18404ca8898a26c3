package speedrun

import (
	"net/http"
	"net/url"

	"github.com/relvacode/iso8601"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// RunStatus filters runs by the verification status.
type RunStatus string

const (
	RunNew      = RunStatus("new")
	RunVerified = RunStatus("verified")
	RunRejected = RunStatus("rejected")
)

// RunsSorting options, the default is RunsByGame.
type RunsSorting string

const (
	RunsByGame       = RunsSorting("game")
	RunsByCategory   = RunsSorting("category")
	RunsByLevel      = RunsSorting("level")
	RunsByPlatform   = RunsSorting("platform")
	RunsByRegion     = RunsSorting("region")
	RunsByEmulated   = RunsSorting("emulated")
	RunsByDate       = RunsSorting("date")
	RunsBySubmitted  = RunsSorting("submitted")
	RunsByStatus     = RunsSorting("status")
	RunsByVerifyDate = RunsSorting("verify-date")
)

// RunEmbed is a resource embedded to a run.
type RunEmbed string

const (
	EmbedGame     = RunEmbed("game")
	EmbedCategory = RunEmbed("category")
	EmbedLevel    = RunEmbed("level")
	EmbedPlayers  = RunEmbed("players")
	EmbedRegion   = RunEmbed("region")
	EmbedPlatform = RunEmbed("platform")
)

// Run https://github.com/speedruncomorg/api/blob/master/version1/runs.md
type Run struct {
	ID        string            `json:"id"`
	Weblink   string            `json:"weblink"`
	Game      string            `json:"game"`
	Level     *string           `json:"level"`
	Category  string            `json:"category"`
	Videos    *Videos           `json:"videos"`
	Comment   *string           `json:"comment"`
	Status    Status            `json:"status"`
	Players   []Player          `json:"players"`
	Date      *string           `json:"date"`
	Submitted *iso8601.Time     `json:"submitted"`
	Times     Times             `json:"times"`
	System    System            `json:"system"`
	Splits    *Link             `json:"splits"`
	Values    map[string]string `json:"values"`
	Links     []Link            `json:"links"`
}

type Videos struct {
	Text  string   `json:"text,omitempty"`
	Links []URIRef `json:"links,omitempty"`
}

// Status of a run verification.
type Status struct {
	Status     RunStatus     `json:"status"`
	Examiner   *string       `json:"examiner"`
	VerifyDate *iso8601.Time `json:"verify-date"`
	Reason     string        `json:"reason,omitempty"`
}

// Player of a run, Rel is "user" or "guest".
// Users are referenced by ID, guests by Name.
type Player struct {
	Rel  string `json:"rel"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URI  string `json:"uri,omitempty"`
}

func UserPlayer(id string) Player {
	return Player{Rel: "user", ID: id}
}

func GuestPlayer(name string) Player {
	return Player{Rel: "guest", Name: name}
}

// Times of a run, the *_t fields are in seconds.
type Times struct {
	Primary                string  `json:"primary"`
	PrimarySeconds         float64 `json:"primary_t"`
	Realtime               *string `json:"realtime"`
	RealtimeSeconds        float64 `json:"realtime_t"`
	RealtimeNoLoads        *string `json:"realtime_noloads"`
	RealtimeNoLoadsSeconds float64 `json:"realtime_noloads_t"`
	InGame                 *string `json:"ingame"`
	InGameSeconds          float64 `json:"ingame_t"`
}

type System struct {
	Platform *string `json:"platform"`
	Emulated bool    `json:"emulated"`
	Region   *string `json:"region"`
}

type runsQuery struct {
	User      string      `query:"user,omitempty"`
	Guest     string      `query:"guest,omitempty"`
	Examiner  string      `query:"examiner,omitempty"`
	Game      string      `query:"game,omitempty"`
	Level     string      `query:"level,omitempty"`
	Category  string      `query:"category,omitempty"`
	Platform  string      `query:"platform,omitempty"`
	Region    string      `query:"region,omitempty"`
	Emulated  *bool       `query:"emulated"`
	Status    RunStatus   `query:"status,omitempty"`
	OrderBy   RunsSorting `query:"orderby,omitempty"`
	Direction Direction   `query:"direction,omitempty"`
}

// ListRuns filters runs, the result is paged.
type ListRuns struct {
	request.Get
	query runsQuery
}

func (ListRuns) Paginated() {}

func (ListRuns) Path() string {
	return "runs"
}

func (e ListRuns) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListRunsBuilder struct {
	query runsQuery
}

func NewListRunsBuilder() *ListRunsBuilder {
	return &ListRunsBuilder{}
}

func (b *ListRunsBuilder) User(v string) *ListRunsBuilder {
	b.query.User = v
	return b
}

func (b *ListRunsBuilder) Guest(v string) *ListRunsBuilder {
	b.query.Guest = v
	return b
}

func (b *ListRunsBuilder) Examiner(v string) *ListRunsBuilder {
	b.query.Examiner = v
	return b
}

func (b *ListRunsBuilder) Game(v string) *ListRunsBuilder {
	b.query.Game = v
	return b
}

func (b *ListRunsBuilder) Level(v string) *ListRunsBuilder {
	b.query.Level = v
	return b
}

func (b *ListRunsBuilder) Category(v string) *ListRunsBuilder {
	b.query.Category = v
	return b
}

func (b *ListRunsBuilder) Platform(v string) *ListRunsBuilder {
	b.query.Platform = v
	return b
}

func (b *ListRunsBuilder) Region(v string) *ListRunsBuilder {
	b.query.Region = v
	return b
}

func (b *ListRunsBuilder) Emulated(v bool) *ListRunsBuilder {
	b.query.Emulated = &v
	return b
}

func (b *ListRunsBuilder) Status(v RunStatus) *ListRunsBuilder {
	b.query.Status = v
	return b
}

func (b *ListRunsBuilder) OrderBy(v RunsSorting) *ListRunsBuilder {
	b.query.OrderBy = v
	return b
}

func (b *ListRunsBuilder) Direction(v Direction) *ListRunsBuilder {
	b.query.Direction = v
	return b
}

func (b *ListRunsBuilder) Build() (ListRuns, error) {
	return ListRuns{query: b.query}, nil
}

// GetRun by ID.
type GetRun struct {
	request.Get
	id string
}

func (e GetRun) Path() string {
	return "runs/" + url.PathEscape(e.id)
}

type GetRunBuilder struct {
	id string
}

func NewGetRunBuilder() *GetRunBuilder {
	return &GetRunBuilder{}
}

func (b *GetRunBuilder) ID(v string) *GetRunBuilder {
	b.id = v
	return b
}

func (b *GetRunBuilder) Build() (GetRun, error) {
	if err := required("id", b.id); err != nil {
		return GetRun{}, err
	}
	return GetRun{id: b.id}, nil
}

// NewRun is the body of the CreateRun request.
type NewRun struct {
	Category  string                 `json:"category"`
	Level     string                 `json:"level,omitempty"`
	Date      string                 `json:"date,omitempty"`
	Region    string                 `json:"region,omitempty"`
	Platform  string                 `json:"platform,omitempty"`
	Verified  *bool                  `json:"verified,omitempty"`
	Times     NewRunTimes            `json:"times"`
	Players   []Player               `json:"players,omitempty"`
	Emulated  *bool                  `json:"emulated,omitempty"`
	Video     string                 `json:"video,omitempty"`
	Comment   string                 `json:"comment,omitempty"`
	SplitsIO  string                 `json:"splitsio,omitempty"`
	Variables map[string]RunVariable `json:"variables,omitempty"`
}

// NewRunTimes in seconds, at least one time must be set.
type NewRunTimes struct {
	Realtime        *float64 `json:"realtime,omitempty"`
	RealtimeNoLoads *float64 `json:"realtime_noloads,omitempty"`
	InGame          *float64 `json:"ingame,omitempty"`
}

func (v NewRunTimes) isEmpty() bool {
	return v.Realtime == nil && v.RealtimeNoLoads == nil && v.InGame == nil
}

// RunVariable value of a submitted run, Type is "pre-defined" or "user-defined".
type RunVariable struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func PreDefinedValue(valueID string) RunVariable {
	return RunVariable{Type: "pre-defined", Value: valueID}
}

func UserDefinedValue(value string) RunVariable {
	return RunVariable{Type: "user-defined", Value: value}
}

// CreateRun submits a new run, the API key is required.
type CreateRun struct {
	run NewRun
}

func (CreateRun) Method() string {
	return http.MethodPost
}

func (CreateRun) Path() string {
	return "runs"
}

func (CreateRun) QueryParams() (string, error) {
	return "", nil
}

func (e CreateRun) Body() (*request.Body, error) {
	return request.JSONBody(map[string]NewRun{"run": e.run})
}

type CreateRunBuilder struct {
	run NewRun
}

func NewCreateRunBuilder() *CreateRunBuilder {
	return &CreateRunBuilder{}
}

func (b *CreateRunBuilder) Category(v string) *CreateRunBuilder {
	b.run.Category = v
	return b
}

func (b *CreateRunBuilder) Level(v string) *CreateRunBuilder {
	b.run.Level = v
	return b
}

// Date of the run in the "YYYY-MM-DD" format, the default is the current date.
func (b *CreateRunBuilder) Date(v string) *CreateRunBuilder {
	b.run.Date = v
	return b
}

func (b *CreateRunBuilder) Region(v string) *CreateRunBuilder {
	b.run.Region = v
	return b
}

func (b *CreateRunBuilder) Platform(v string) *CreateRunBuilder {
	b.run.Platform = v
	return b
}

// Verified submits the run as verified, only moderators can do it.
func (b *CreateRunBuilder) Verified(v bool) *CreateRunBuilder {
	b.run.Verified = &v
	return b
}

func (b *CreateRunBuilder) Realtime(seconds float64) *CreateRunBuilder {
	b.run.Times.Realtime = &seconds
	return b
}

func (b *CreateRunBuilder) RealtimeNoLoads(seconds float64) *CreateRunBuilder {
	b.run.Times.RealtimeNoLoads = &seconds
	return b
}

func (b *CreateRunBuilder) InGame(seconds float64) *CreateRunBuilder {
	b.run.Times.InGame = &seconds
	return b
}

func (b *CreateRunBuilder) Players(v ...Player) *CreateRunBuilder {
	b.run.Players = append([]Player(nil), v...)
	return b
}

func (b *CreateRunBuilder) Emulated(v bool) *CreateRunBuilder {
	b.run.Emulated = &v
	return b
}

func (b *CreateRunBuilder) Video(v string) *CreateRunBuilder {
	b.run.Video = v
	return b
}

func (b *CreateRunBuilder) Comment(v string) *CreateRunBuilder {
	b.run.Comment = v
	return b
}

// SplitsIO sets splits.io ID or URL.
func (b *CreateRunBuilder) SplitsIO(v string) *CreateRunBuilder {
	b.run.SplitsIO = v
	return b
}

func (b *CreateRunBuilder) Variable(variableID string, value RunVariable) *CreateRunBuilder {
	variables := make(map[string]RunVariable, len(b.run.Variables)+1)
	for k, v := range b.run.Variables {
		variables[k] = v
	}
	variables[variableID] = value
	b.run.Variables = variables
	return b
}

func (b *CreateRunBuilder) Build() (CreateRun, error) {
	if err := required("category", b.run.Category); err != nil {
		return CreateRun{}, err
	}
	if b.run.Times.isEmpty() {
		return CreateRun{}, &UninitializedFieldError{Field: "times"}
	}
	return CreateRun{run: b.run}, nil
}

// NewStatus of a run, Reason is required for the RunRejected status.
type NewStatus struct {
	Status RunStatus `json:"status"`
	Reason string    `json:"reason,omitempty"`
}

// UpdateRunStatus verifies or rejects a run, the API key of a moderator is required.
type UpdateRunStatus struct {
	id     string
	status NewStatus
}

func (UpdateRunStatus) Method() string {
	return http.MethodPut
}

func (e UpdateRunStatus) Path() string {
	return "runs/" + url.PathEscape(e.id) + "/status"
}

func (UpdateRunStatus) QueryParams() (string, error) {
	return "", nil
}

func (e UpdateRunStatus) Body() (*request.Body, error) {
	return request.JSONBody(map[string]NewStatus{"status": e.status})
}

type UpdateRunStatusBuilder struct {
	id     string
	status NewStatus
}

func NewUpdateRunStatusBuilder() *UpdateRunStatusBuilder {
	return &UpdateRunStatusBuilder{}
}

func (b *UpdateRunStatusBuilder) ID(v string) *UpdateRunStatusBuilder {
	b.id = v
	return b
}

func (b *UpdateRunStatusBuilder) Verified() *UpdateRunStatusBuilder {
	b.status = NewStatus{Status: RunVerified}
	return b
}

func (b *UpdateRunStatusBuilder) Rejected(reason string) *UpdateRunStatusBuilder {
	b.status = NewStatus{Status: RunRejected, Reason: reason}
	return b
}

func (b *UpdateRunStatusBuilder) Build() (UpdateRunStatus, error) {
	if err := required("id", b.id); err != nil {
		return UpdateRunStatus{}, err
	}
	if err := required("status", string(b.status.Status)); err != nil {
		return UpdateRunStatus{}, err
	}
	return UpdateRunStatus{id: b.id, status: b.status}, nil
}

// UpdateRunPlayers replaces players of a run, the API key of a moderator is required.
type UpdateRunPlayers struct {
	id      string
	players []Player
}

func (UpdateRunPlayers) Method() string {
	return http.MethodPut
}

func (e UpdateRunPlayers) Path() string {
	return "runs/" + url.PathEscape(e.id) + "/players"
}

func (UpdateRunPlayers) QueryParams() (string, error) {
	return "", nil
}

func (e UpdateRunPlayers) Body() (*request.Body, error) {
	return request.JSONBody(map[string][]Player{"players": e.players})
}

type UpdateRunPlayersBuilder struct {
	id      string
	players []Player
}

func NewUpdateRunPlayersBuilder() *UpdateRunPlayersBuilder {
	return &UpdateRunPlayersBuilder{}
}

func (b *UpdateRunPlayersBuilder) ID(v string) *UpdateRunPlayersBuilder {
	b.id = v
	return b
}

func (b *UpdateRunPlayersBuilder) Players(v ...Player) *UpdateRunPlayersBuilder {
	b.players = append([]Player(nil), v...)
	return b
}

func (b *UpdateRunPlayersBuilder) Build() (UpdateRunPlayers, error) {
	if err := required("id", b.id); err != nil {
		return UpdateRunPlayers{}, err
	}
	if len(b.players) == 0 {
		return UpdateRunPlayers{}, &UninitializedFieldError{Field: "players"}
	}
	return UpdateRunPlayers{id: b.id, players: b.players}, nil
}

// DeleteRun by ID, the API key is required.
type DeleteRun struct {
	id string
}

func (DeleteRun) Method() string {
	return http.MethodDelete
}

func (e DeleteRun) Path() string {
	return "runs/" + url.PathEscape(e.id)
}

func (DeleteRun) QueryParams() (string, error) {
	return "", nil
}

func (DeleteRun) Body() (*request.Body, error) {
	return nil, nil
}

type DeleteRunBuilder struct {
	id string
}

func NewDeleteRunBuilder() *DeleteRunBuilder {
	return &DeleteRunBuilder{}
}

func (b *DeleteRunBuilder) ID(v string) *DeleteRunBuilder {
	b.id = v
	return b
}

func (b *DeleteRunBuilder) Build() (DeleteRun, error) {
	if err := required("id", b.id); err != nil {
		return DeleteRun{}, err
	}
	return DeleteRun{id: b.id}, nil
}

// ListRunsRequest https://github.com/speedruncomorg/api/blob/master/version1/runs.md#get-runs
func (a *API) ListRunsRequest(e ListRuns, opts ...request.PageOption) *request.Pager[Run] {
	return newPager[Run](a, e, opts)
}

// GetRunRequest https://github.com/speedruncomorg/api/blob/master/version1/runs.md#get-runsid
func (a *API) GetRunRequest(e GetRun) request.APIRequest[Run] {
	return newAPIRequest[Run](a, e)
}

// CreateRunRequest https://github.com/speedruncomorg/api/blob/master/version1/runs.md#post-runs
func (a *API) CreateRunRequest(e CreateRun) request.APIRequest[Run] {
	return newAPIRequest[Run](a, e)
}

// UpdateRunStatusRequest https://github.com/speedruncomorg/api/blob/master/version1/runs.md#put-runsrunstatus
func (a *API) UpdateRunStatusRequest(e UpdateRunStatus) request.APIRequest[Run] {
	return newAPIRequest[Run](a, e)
}

// UpdateRunPlayersRequest https://github.com/speedruncomorg/api/blob/master/version1/runs.md#put-runsrunplayers
func (a *API) UpdateRunPlayersRequest(e UpdateRunPlayers) request.APIRequest[Run] {
	return newAPIRequest[Run](a, e)
}

// DeleteRunRequest https://github.com/speedruncomorg/api/blob/master/version1/runs.md#delete-runsid
func (a *API) DeleteRunRequest(e DeleteRun) request.APIRequest[Run] {
	return newAPIRequest[Run](a, e)
}

package speedrun

import (
	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// Link to a related resource.
type Link = request.Link

// Pagination cursor of a paged response.
type Pagination = request.Cursor

// Direction of sorting.
type Direction string

const (
	Ascending  = Direction("asc")
	Descending = Direction("desc")
)

// TimingMethod used by a leaderboard or a game ruleset.
type TimingMethod string

const (
	TimingRealtime        = TimingMethod("realtime")
	TimingRealtimeNoLoads = TimingMethod("realtime_noloads")
	TimingInGame          = TimingMethod("ingame")
)

// Names of a game or a user.
type Names struct {
	International string `json:"international"`
	Japanese      string `json:"japanese,omitempty"`
	Twitch        string `json:"twitch,omitempty"`
}

// Asset is an image, for example a game logo.
type Asset struct {
	URI    string `json:"uri"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Assets of a game or a user, keys are for example "logo", "cover-large", "icon".
type Assets map[string]*Asset

// ModeratorRole of a game moderator.
type ModeratorRole string

const (
	Moderator      = ModeratorRole("moderator")
	SuperModerator = ModeratorRole("super-moderator")
)

// URIRef is an object with a single URI, for example a user's Twitch profile.
type URIRef struct {
	URI string `json:"uri"`
}

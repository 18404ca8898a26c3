package speedrun

import (
	"net/url"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// GenresSorting options, the default is GenresByName.
type GenresSorting string

const (
	GenresByName = GenresSorting("name")
)

// Genre https://github.com/speedruncomorg/api/blob/master/version1/genres.md
type Genre struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Links []Link `json:"links"`
}

// ListGenres lists all genres, the result is paged.
type ListGenres struct {
	request.Get
	query sortingQuery[GenresSorting]
}

func (ListGenres) Paginated() {}

func (ListGenres) Path() string {
	return "genres"
}

func (e ListGenres) QueryParams() (string, error) {
	return request.EncodeQuery(e.query)
}

type ListGenresBuilder struct {
	query sortingQuery[GenresSorting]
}

func NewListGenresBuilder() *ListGenresBuilder {
	return &ListGenresBuilder{}
}

func (b *ListGenresBuilder) OrderBy(v GenresSorting) *ListGenresBuilder {
	b.query.OrderBy = v
	return b
}

func (b *ListGenresBuilder) Direction(v Direction) *ListGenresBuilder {
	b.query.Direction = v
	return b
}

func (b *ListGenresBuilder) Build() (ListGenres, error) {
	return ListGenres{query: b.query}, nil
}

// GetGenre by ID.
type GetGenre struct {
	request.Get
	id string
}

func (e GetGenre) Path() string {
	return "genres/" + url.PathEscape(e.id)
}

type GetGenreBuilder struct {
	id string
}

func NewGetGenreBuilder() *GetGenreBuilder {
	return &GetGenreBuilder{}
}

func (b *GetGenreBuilder) ID(v string) *GetGenreBuilder {
	b.id = v
	return b
}

func (b *GetGenreBuilder) Build() (GetGenre, error) {
	if err := required("id", b.id); err != nil {
		return GetGenre{}, err
	}
	return GetGenre{id: b.id}, nil
}

// ListGenresRequest https://github.com/speedruncomorg/api/blob/master/version1/genres.md#get-genres
func (a *API) ListGenresRequest(e ListGenres, opts ...request.PageOption) *request.Pager[Genre] {
	return newPager[Genre](a, e, opts)
}

// GetGenreRequest https://github.com/speedruncomorg/api/blob/master/version1/genres.md#get-genresid
func (a *API) GetGenreRequest(e GetGenre) request.APIRequest[Genre] {
	return newAPIRequest[Genre](a, e)
}

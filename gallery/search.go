// Package gallery implements the searchable thumbnail grid: the pure
// search filter and the view model the presentation layer renders.
package gallery

import (
	"strings"
	"unicode"

	"github.com/camden-git/astrogallery/index"
	"github.com/camden-git/astrogallery/models"
)

// Matches reports whether the photo's object name contains term, compared
// case-insensitively, either as stored or with all whitespace removed.
// The second form lets "ngc6960" find "NGC 6960".
func Matches(p models.Photo, term string) bool {
	needle := strings.ToLower(term)
	object := strings.ToLower(p.Object)
	if strings.Contains(object, needle) {
		return true
	}
	return strings.Contains(stripSpace(object), needle)
}

// Filter returns the photos matching term in their original relative order.
// An empty term matches everything.
func Filter(photos []models.Photo, term string) []models.Photo {
	out := make([]models.Photo, 0, len(photos))
	if term == "" {
		return append(out, photos...)
	}
	for _, p := range photos {
		if Matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Status is what the gallery page shows.
type Status string

const (
	StatusLoading   Status = "loading"
	StatusFailed    Status = "failed"
	StatusEmpty     Status = "empty"      // index loaded but has no records at all
	StatusNoMatches Status = "no_matches" // records exist, none match the term
	StatusResults   Status = "results"
)

// Item is one thumbnail card linking to the detail view.
type Item struct {
	ID           int    `json:"id"`
	Object       string `json:"object"`
	Date         string `json:"date"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DetailPath   string `json:"detailPath"`
}

// View is the render model of the gallery page.
type View struct {
	Status Status `json:"status"`
	Term   string `json:"term"`
	Total  int    `json:"total"`
	Items  []Item `json:"items"`
	Error  string `json:"error,omitempty"`
}

// LinkFunc builds the detail route for a photo id.
type LinkFunc func(id int) string

// Build projects the index state and search term into a View. base is the
// asset URL prefix. While loading, failed or empty the filter does not run.
func Build(state index.State, term, base string, link LinkFunc) View {
	v := View{Term: term, Items: []Item{}}

	switch state.Status {
	case index.StatusLoading:
		v.Status = StatusLoading
		return v
	case index.StatusFailed:
		v.Status = StatusFailed
		if state.Err != nil {
			v.Error = state.Err.Error()
		}
		return v
	}

	v.Total = state.Index.Len()
	if v.Total == 0 {
		v.Status = StatusEmpty
		return v
	}

	matched := Filter(state.Index.Photos(), term)
	if len(matched) == 0 {
		v.Status = StatusNoMatches
		return v
	}

	v.Status = StatusResults
	for _, p := range matched {
		item := Item{
			ID:           p.ID,
			Object:       p.Object,
			Date:         p.Date,
			ThumbnailURL: p.ThumbnailURL(base),
		}
		if link != nil {
			item.DetailPath = link(p.ID)
		}
		v.Items = append(v.Items, item)
	}
	return v
}

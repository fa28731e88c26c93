// Package detail resolves a route identifier against the photo index.
package detail

import (
	"strconv"

	"github.com/camden-git/astrogallery/index"
	"github.com/camden-git/astrogallery/models"
)

// Status of a detail resolution. The four values are mutually exclusive.
type Status string

const (
	StatusLoading  Status = "loading"
	StatusFailed   Status = "failed"
	StatusNotFound Status = "not_found"
	StatusFound    Status = "found"
)

// NotFoundMessage is shown for unknown and malformed identifiers alike.
const NotFoundMessage = "Photo not found"

// Resolution is the render model of the detail page.
type Resolution struct {
	Status       Status               `json:"status"`
	Photo        *models.Photo        `json:"photo,omitempty"`
	Fields       []models.DetailField `json:"fields,omitempty"`
	Description  string               `json:"description,omitempty"`
	OriginalURL  string               `json:"originalUrl,omitempty"`
	ThumbnailURL string               `json:"thumbnailUrl,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// ParseID parses a route identifier as a base-10 integer.
func ParseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Resolve looks the raw identifier up in the loaded index. A malformed
// identifier is reported exactly like a missing record.
func Resolve(state index.State, raw, base string) Resolution {
	switch state.Status {
	case index.StatusLoading:
		return Resolution{Status: StatusLoading}
	case index.StatusFailed:
		r := Resolution{Status: StatusFailed}
		if state.Err != nil {
			r.Error = "Error loading data: " + state.Err.Error()
		}
		return r
	}

	id, ok := ParseID(raw)
	if !ok {
		return Resolution{Status: StatusNotFound, Error: NotFoundMessage}
	}
	p, ok := state.Index.Lookup(id)
	if !ok {
		return Resolution{Status: StatusNotFound, Error: NotFoundMessage}
	}

	return Resolution{
		Status:       StatusFound,
		Photo:        &p,
		Fields:       p.DetailFields(),
		Description:  p.DescriptionText(),
		OriginalURL:  p.OriginalURL(base),
		ThumbnailURL: p.ThumbnailURL(base),
	}
}

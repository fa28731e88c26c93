// Package index loads the static photo index resource and keeps it as an
// immutable, id-descending ordered collection.
package index

import (
	"sort"

	"github.com/camden-git/astrogallery/models"
)

// Index is the loaded, read-only photo collection. Records are ordered by id,
// most recently added first.
type Index struct {
	photos []models.Photo
	byID   map[int]int
}

// New sorts a copy of photos descending by id and indexes it. Ids must already
// be unique; Parse enforces that for loaded resources.
func New(photos []models.Photo) *Index {
	sorted := make([]models.Photo, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID > sorted[j].ID
	})

	byID := make(map[int]int, len(sorted))
	for i, p := range sorted {
		byID[p.ID] = i
	}
	return &Index{photos: sorted, byID: byID}
}

// Photos returns the records in index order. The slice is a copy.
func (ix *Index) Photos() []models.Photo {
	if ix == nil {
		return nil
	}
	out := make([]models.Photo, len(ix.photos))
	copy(out, ix.photos)
	return out
}

// Len is the number of records.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.photos)
}

// Lookup finds the record with the given id.
func (ix *Index) Lookup(id int) (models.Photo, bool) {
	if ix == nil {
		return models.Photo{}, false
	}
	i, ok := ix.byID[id]
	if !ok {
		return models.Photo{}, false
	}
	return ix.photos[i], true
}

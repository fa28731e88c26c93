package gallery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/astrogallery/index"
	"github.com/camden-git/astrogallery/models"
)

func photo(id int, object string) models.Photo {
	return models.Photo{ID: id, Object: object, FileName: fmt.Sprintf("%d.jpg", id)}
}

func sampleIndex() *index.Index {
	return index.New([]models.Photo{
		photo(3, "M 31 Andromeda"),
		photo(1, "NGC 6960"),
		photo(2, "M 42"),
		photo(5, "IC 1396"),
		photo(4, "NGC 7000"),
	})
}

func itemIDs(v View) []int {
	out := []int{}
	for _, it := range v.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestMatches(t *testing.T) {
	tests := []struct {
		object string
		term   string
		want   bool
	}{
		{"NGC 6960", "ngc6960", true},
		{"NGC 6960", "NGC 69", true},
		{"NGC 6960", "ngc 6960", true},
		{"NGC 6960", "6960", true},
		{"M 31 Andromeda", "andro", true},
		{"M 31", "m31", true},
		{"M 31", "m 3 1", false},
		{"NGC 6960", "ic", false},
		{"IC 1396", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.object+"/"+tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(photo(1, tt.object), tt.term))
		})
	}
}

func TestFilterPreservesOrderAndIsSubset(t *testing.T) {
	all := sampleIndex().Photos()

	for _, term := range []string{"", "ngc", "m", "x", "6960", "M 4"} {
		got := Filter(all, term)

		pos := -1
		for _, p := range got {
			idx := -1
			for i, q := range all {
				if q.ID == p.ID {
					idx = i
				}
			}
			require.NotEqual(t, -1, idx, "term %q produced a record outside the index", term)
			assert.Greater(t, idx, pos, "term %q broke relative order", term)
			pos = idx
		}
	}
}

func TestFilterEmptyTermReturnsAll(t *testing.T) {
	all := sampleIndex().Photos()
	assert.Equal(t, all, Filter(all, ""))
}

func TestFilterIsDeterministic(t *testing.T) {
	all := sampleIndex().Photos()
	assert.Equal(t, Filter(all, "ngc"), Filter(all, "ngc"))
}

func TestBuildResultsSortedDescending(t *testing.T) {
	v := Build(index.Loaded(sampleIndex()), "", "/", func(id int) string {
		return fmt.Sprintf("/photo/%d", id)
	})

	assert.Equal(t, StatusResults, v.Status)
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, []int{5, 4, 3, 2, 1}, itemIDs(v))
	assert.Equal(t, "/photo/5", v.Items[0].DetailPath)
	assert.Equal(t, "/images/thumbnails/5.jpg", v.Items[0].ThumbnailURL)
}

func TestBuildSearchCompactDesignation(t *testing.T) {
	v := Build(index.Loaded(sampleIndex()), "ngc6960", "/", nil)
	assert.Equal(t, StatusResults, v.Status)
	assert.Equal(t, []int{1}, itemIDs(v))
}

func TestBuildDistinguishesStates(t *testing.T) {
	loading := Build(index.Loading(), "m31", "/", nil)
	assert.Equal(t, StatusLoading, loading.Status)
	assert.Empty(t, loading.Items)

	failed := Build(index.Failed(errors.New("boom")), "", "/", nil)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.Error)

	empty := Build(index.Loaded(index.New(nil)), "", "/", nil)
	assert.Equal(t, StatusEmpty, empty.Status)
	assert.Equal(t, 0, empty.Total)

	none := Build(index.Loaded(sampleIndex()), "andromeda galaxy", "/", nil)
	assert.Equal(t, StatusNoMatches, none.Status)
	assert.Equal(t, 5, none.Total)
	assert.NotNil(t, none.Items)
}

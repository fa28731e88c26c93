package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormaliseBase(t *testing.T) {
	assert.Equal(t, "/", NormaliseBase(""))
	assert.Equal(t, "/", NormaliseBase("/"))
	assert.Equal(t, "/Astrogalerry/", NormaliseBase("Astrogalerry"))
	assert.Equal(t, "/Astrogalerry/", NormaliseBase("/Astrogalerry/"))
}

func TestMatchRootBase(t *testing.T) {
	rt := New("/")

	tests := []struct {
		path  string
		query string
		want  Route
	}{
		{"/", "", Route{Kind: Gallery}},
		{"", "", Route{Kind: Gallery}},
		{"/", "q=m31", Route{Kind: Gallery, Term: "m31"}},
		{"/", "photo=12", Route{Kind: Redirect, ID: "12", Location: "/photo/12"}},
		{"/photo/3", "", Route{Kind: Detail, ID: "3"}},
		{"/photo/3/", "", Route{Kind: Detail, ID: "3"}},
		{"/photo/abc", "", Route{Kind: Detail, ID: "abc"}},
		{"/photo", "", Route{Kind: Unknown}},
		{"/photo/1/extra", "", Route{Kind: Unknown}},
		{"/about", "", Route{Kind: Unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.path+"?"+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, rt.Match(tt.path, tt.query))
		})
	}
}

func TestMatchWithBasePath(t *testing.T) {
	rt := New("Astrogalerry")

	assert.Equal(t, Route{Kind: Gallery}, rt.Match("/Astrogalerry", ""))
	assert.Equal(t, Route{Kind: Gallery}, rt.Match("/Astrogalerry/", ""))
	assert.Equal(t, Route{Kind: Detail, ID: "7"}, rt.Match("/Astrogalerry/photo/7", ""))
	assert.Equal(t, Route{Kind: Unknown}, rt.Match("/photo/7", ""))
	assert.Equal(t,
		Route{Kind: Redirect, ID: "7", Location: "/Astrogalerry/photo/7"},
		rt.Match("/Astrogalerry/", "photo=7"))
}

func TestLinks(t *testing.T) {
	rt := New("/Astrogalerry/")
	assert.Equal(t, "/Astrogalerry/photo/42", rt.DetailLink(42))
	assert.Equal(t, "/Astrogalerry/", rt.GalleryPath())
	assert.Equal(t, "/photo/a%2Fb", New("").DetailPath("a/b"))
}

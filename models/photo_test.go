package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPhotoAssetURLs(t *testing.T) {
	p := Photo{ID: 1, Object: "M 31", FileName: "m31.jpg"}

	assert.Equal(t, "/images/originals/m31.jpg", p.OriginalURL("/"))
	assert.Equal(t, "/images/thumbnails/m31.jpg", p.ThumbnailURL(""))
	assert.Equal(t, "/Astrogalerry/images/thumbnails/m31.jpg", p.ThumbnailURL("/Astrogalerry"))
}

func TestPhotoDetailFieldsPlaceholder(t *testing.T) {
	frames := 120
	p := Photo{
		ID:        7,
		Object:    "NGC 6960",
		Telescope: strPtr("RedCat 51"),
		Camera:    strPtr(""),
		Frames:    &frames,
	}

	fields := p.DetailFields()
	require.Len(t, fields, 8)
	assert.Equal(t, DetailField{Label: "Telescope", Value: "RedCat 51"}, fields[0])
	assert.Equal(t, Placeholder, fields[1].Value, "empty string renders as placeholder")
	assert.Equal(t, Placeholder, fields[2].Value, "nil renders as placeholder")
	assert.Equal(t, "120", fields[4].Value)
	assert.Equal(t, "Date", fields[7].Label)
	assert.Empty(t, p.DescriptionText())
}

func TestPhotoJSONSchema(t *testing.T) {
	raw := `{"id":3,"object":"M 42","date":"2024-01-02","fileName":"m42.png",
		"totalExposure":"2h","shootingDate":"2024-01-01","frames":40}`

	var p Photo
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, "m42.png", p.FileName)
	require.NotNil(t, p.TotalExposure)
	assert.Equal(t, "2h", *p.TotalExposure)
	require.NotNil(t, p.Frames)
	assert.Equal(t, 40, *p.Frames)
	assert.Nil(t, p.Telescope)
}

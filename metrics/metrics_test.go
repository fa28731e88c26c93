package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorServesRecordedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordIndexLoad(true)
	c.RecordIndexLoad(false)
	c.RecordSearch(3)
	c.RecordDetail("not_found")
	c.ShellOpened()
	c.RecordThumbnail(ThumbnailGenerated, 150*time.Millisecond)
	c.RecordThumbnail(ThumbnailSkipped, 0)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `astrogallery_index_loads_total{outcome="failure"} 1`)
	assert.Contains(t, text, `astrogallery_detail_resolutions_total{status="not_found"} 1`)
	assert.Contains(t, text, `astrogallery_thumbnails_total{result="skipped"} 1`)
	assert.Contains(t, text, "astrogallery_open_shell_sessions 1")
	assert.Contains(t, text, "astrogallery_thumbnail_seconds_count 1")
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordIndexLoad(true)
	r.ShellClosed()
}

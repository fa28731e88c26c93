package workers

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/progress"
)

func newStore(t *testing.T) *media.LocalStorage {
	t.Helper()
	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypeOriginal:  "images/originals",
		media.AssetTypeThumbnail: "images/thumbnails",
	})
	require.NoError(t, err)
	_, err = store.EnsureDir(media.AssetTypeOriginal)
	require.NoError(t, err)
	return store
}

func addOriginal(t *testing.T, store *media.LocalStorage, name string, w, h int) {
	t.Helper()
	path, err := store.FullPath(media.AssetTypeOriginal, name)
	require.NoError(t, err)
	require.NoError(t, imaging.Save(imaging.New(w, h, color.NRGBA{B: 200, A: 255}), path))
}

func addFile(t *testing.T, store *media.LocalStorage, assetType media.AssetType, name, content string) {
	t.Helper()
	_, err := store.EnsureDir(assetType)
	require.NoError(t, err)
	path, err := store.FullPath(assetType, name)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

var box = media.ThumbnailOptions{MaxWidth: 500, MaxHeight: 500}

func TestGenerateAllCreatesAndSkips(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newStore(t)
	addOriginal(t, store, "m31.jpg", 1200, 800)
	addOriginal(t, store, "ngc6960.PNG", 300, 300)
	addFile(t, store, media.AssetTypeOriginal, "notes.txt", "not an image")

	var out bytes.Buffer
	summary, err := GenerateAll(context.Background(), store, BatchOptions{
		Thumbnail: box,
		Workers:   2,
		Reporter:  &progress.LineReporter{Out: &out},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m31.jpg", "ngc6960.PNG"}, sorted(summary.Generated))
	assert.Empty(t, summary.Failed)
	assert.Equal(t, 2, summary.Total())
	assert.Contains(t, out.String(), "[2/2]")

	thumbs, err := store.List(media.AssetTypeThumbnail)
	require.NoError(t, err)
	assert.Equal(t, []string{"m31.jpg", "ngc6960.PNG"}, sorted(thumbs))

	again, err := GenerateAll(context.Background(), store, BatchOptions{Thumbnail: box})
	require.NoError(t, err)
	assert.Empty(t, again.Generated)
	assert.Equal(t, []string{"m31.jpg", "ngc6960.PNG"}, sorted(again.Skipped))

	forced, err := GenerateAll(context.Background(), store, BatchOptions{Thumbnail: box, Force: true})
	require.NoError(t, err)
	assert.Len(t, forced.Generated, 2)
}

func TestGenerateAllRegeneratesStaleThumbnail(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newStore(t)
	addOriginal(t, store, "m42.jpg", 800, 600)

	_, err := GenerateAll(context.Background(), store, BatchOptions{Thumbnail: box})
	require.NoError(t, err)

	thumbPath, err := store.FullPath(media.AssetTypeThumbnail, "m42.jpg")
	require.NoError(t, err)
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(thumbPath, old, old))

	summary, err := GenerateAll(context.Background(), store, BatchOptions{Thumbnail: box})
	require.NoError(t, err)
	assert.Equal(t, []string{"m42.jpg"}, summary.Generated)
}

func TestGenerateAllContinuesPastFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newStore(t)
	addOriginal(t, store, "good.png", 100, 100)
	addFile(t, store, media.AssetTypeOriginal, "broken.jpg", "garbage")

	summary, err := GenerateAll(context.Background(), store, BatchOptions{Thumbnail: box, Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"good.png"}, summary.Generated)
	require.Contains(t, summary.Failed, "broken.jpg")
	assert.Error(t, summary.Failed["broken.jpg"])
}

func TestGenerateAllPrunesOrphans(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newStore(t)
	addOriginal(t, store, "keep.jpg", 50, 50)
	addFile(t, store, media.AssetTypeThumbnail, "gone.jpg", "old thumb")
	addFile(t, store, media.AssetTypeThumbnail, "README", "left alone")

	summary, err := GenerateAll(context.Background(), store, BatchOptions{Thumbnail: box, Prune: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"gone.jpg"}, summary.Pruned)

	thumbs, err := store.List(media.AssetTypeThumbnail)
	require.NoError(t, err)
	assert.Equal(t, []string{"README", "keep.jpg"}, sorted(thumbs))
}

func TestGenerateAllRecordsMetrics(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newStore(t)
	addOriginal(t, store, "a.jpg", 10, 10)

	rec := &recordingMetrics{}
	_, err := GenerateAll(context.Background(), store, BatchOptions{Thumbnail: box, Metrics: rec})
	require.NoError(t, err)
	assert.Equal(t, []string{metrics.ThumbnailGenerated}, rec.results)
}

func TestGeneratorRejectsWorkAfterShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newStore(t)

	gen := NewThumbnailGenerator(store, box, nil, nil, 4, 2)
	gen.Drain()
	assert.False(t, gen.QueueJob(ThumbnailJob{FileName: "a.jpg"}))
	assert.ErrorIs(t, gen.Submit(context.Background(), ThumbnailJob{FileName: "a.jpg"}), ErrStopped)

	stopped := NewThumbnailGenerator(store, box, nil, nil, 4, 2)
	stopped.Stop()
	stopped.Stop()
	assert.ErrorIs(t, stopped.Submit(context.Background(), ThumbnailJob{FileName: "a.jpg"}), ErrStopped)
}

func TestQueueJobProcessesMissingOriginalAsFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := newStore(t)

	results := make(chan ThumbnailResult, 1)
	gen := NewThumbnailGenerator(store, box, nil, func(r ThumbnailResult) { results <- r }, 4, 1)
	require.True(t, gen.QueueJob(ThumbnailJob{FileName: "missing.jpg"}))
	gen.Drain()

	res := <-results
	assert.Equal(t, metrics.ThumbnailFailed, res.Result)
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
}

type recordingMetrics struct {
	metrics.Nop
	results []string
}

func (r *recordingMetrics) RecordThumbnail(result string, _ time.Duration) {
	r.results = append(r.results, result)
}

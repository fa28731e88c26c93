package workers

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/facette/natsort"

	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/progress"
)

// BatchOptions configures GenerateAll.
type BatchOptions struct {
	Thumbnail media.ThumbnailOptions
	Force     bool
	Prune     bool // delete thumbnails whose original no longer exists
	Workers   int
	QueueSize int
	Metrics   metrics.Recorder
	Reporter  progress.Reporter
}

// Summary of a batch run. Generated and Skipped are in completion order.
type Summary struct {
	Generated []string
	Skipped   []string
	Failed    map[string]error
	Pruned    []string
}

// Total is the number of originals considered.
func (s Summary) Total() int {
	return len(s.Generated) + len(s.Skipped) + len(s.Failed)
}

// GenerateAll produces a thumbnail for every allow-listed original in the
// store. A failure on one file is recorded and the batch continues; the
// returned error is reserved for failures of the batch itself (listing,
// cancellation).
func GenerateAll(ctx context.Context, store media.Store, opts BatchOptions) (Summary, error) {
	summary := Summary{Failed: map[string]error{}}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}

	if _, err := store.EnsureDir(media.AssetTypeThumbnail); err != nil {
		return summary, err
	}

	names, err := store.List(media.AssetTypeOriginal)
	if err != nil {
		return summary, fmt.Errorf("listing originals: %w", err)
	}
	originals := make([]string, 0, len(names))
	for _, name := range names {
		if media.IsRasterImage(name) {
			originals = append(originals, name)
		}
	}
	natsort.Sort(originals)

	if opts.Prune {
		pruned, err := pruneOrphans(store, originals)
		if err != nil {
			return summary, err
		}
		summary.Pruned = pruned
	}

	var (
		mu   sync.Mutex
		done int
	)
	reporter.Start(len(originals))
	onResult := func(res ThumbnailResult) {
		mu.Lock()
		defer mu.Unlock()
		done++
		switch res.Result {
		case metrics.ThumbnailGenerated:
			summary.Generated = append(summary.Generated, res.FileName)
		case metrics.ThumbnailSkipped:
			summary.Skipped = append(summary.Skipped, res.FileName)
		default:
			summary.Failed[res.FileName] = res.Err
		}
		reporter.Update(done, fmt.Sprintf("%s: %s", res.Result, res.FileName))
	}

	gen := NewThumbnailGenerator(store, opts.Thumbnail, opts.Metrics, onResult, opts.QueueSize, opts.Workers)
	for _, name := range originals {
		if err := gen.Submit(ctx, ThumbnailJob{FileName: name, Force: opts.Force}); err != nil {
			gen.Stop()
			reporter.Finish()
			return summary, fmt.Errorf("thumbnail batch interrupted: %w", err)
		}
	}
	gen.Drain()
	reporter.Finish()

	log.Printf("thumbnails: %d generated, %d up to date, %d failed, %d pruned",
		len(summary.Generated), len(summary.Skipped), len(summary.Failed), len(summary.Pruned))
	return summary, nil
}

func pruneOrphans(store media.Store, originals []string) ([]string, error) {
	keep := make(map[string]bool, len(originals))
	for _, name := range originals {
		keep[name] = true
	}

	thumbs, err := store.List(media.AssetTypeThumbnail)
	if err != nil {
		return nil, fmt.Errorf("listing thumbnails: %w", err)
	}

	var pruned []string
	for _, name := range thumbs {
		if keep[name] || !media.IsRasterImage(name) {
			continue
		}
		if err := store.Delete(media.AssetTypeThumbnail, name); err != nil {
			return pruned, err
		}
		pruned = append(pruned, name)
	}
	natsort.Sort(pruned)
	return pruned, nil
}

package cmd

import (
	"fmt"

	"github.com/facette/natsort"
	"github.com/spf13/cobra"

	"github.com/camden-git/astrogallery/progress"
	"github.com/camden-git/astrogallery/workers"
)

var (
	thumbsForce   bool
	thumbsPrune   bool
	thumbsWorkers int
)

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Generate thumbnails for every original image",
	Long: `Scans the originals directory and writes a thumbnail with the same file
name into the thumbnails directory for every supported image, scaled to fit the
configured box without upscaling. Up-to-date thumbnails are skipped unless
--force is given. A failing file is reported and the run continues; the
command exits non-zero when any file failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store, err := newStore()
		if err != nil {
			return err
		}

		numWorkers := cfg.NumThumbnailWorkers
		if thumbsWorkers > 0 {
			numWorkers = thumbsWorkers
		}

		summary, err := workers.GenerateAll(cmd.Context(), store, workers.BatchOptions{
			Thumbnail: thumbnailOptions(),
			Force:     thumbsForce,
			Prune:     thumbsPrune,
			Workers:   numWorkers,
			QueueSize: cfg.ThumbnailQueueSize,
			Reporter:  progress.NewReporter(),
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%d generated, %d up to date, %d failed", len(summary.Generated), len(summary.Skipped), len(summary.Failed))
		if thumbsPrune {
			fmt.Fprintf(out, ", %d pruned", len(summary.Pruned))
		}
		fmt.Fprintln(out)
		failed := make([]string, 0, len(summary.Failed))
		for name := range summary.Failed {
			failed = append(failed, name)
		}
		natsort.Sort(failed)
		for _, name := range failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", name, summary.Failed[name])
		}
		if len(summary.Failed) > 0 {
			return fmt.Errorf("%d thumbnail(s) failed", len(summary.Failed))
		}
		return nil
	},
}

func init() {
	thumbnailsCmd.Flags().BoolVarP(&thumbsForce, "force", "f", false, "regenerate thumbnails even when up to date")
	thumbnailsCmd.Flags().BoolVar(&thumbsPrune, "prune", false, "delete thumbnails whose original no longer exists")
	thumbnailsCmd.Flags().IntVar(&thumbsWorkers, "workers", 0, "number of parallel workers (overrides NUM_THUMBNAIL_WORKERS)")
	rootCmd.AddCommand(thumbnailsCmd)
}

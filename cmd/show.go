package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/camden-git/astrogallery/detail"
	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one photo's detail page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		router := newRouter()
		state := newLoader(metrics.Nop{}).LoadState(cmd.Context())
		res := detail.Resolve(state, args[0], router.GalleryPath())

		switch res.Status {
		case detail.StatusFailed:
			return errors.New(res.Error)
		case detail.StatusNotFound:
			return fmt.Errorf("%s: %s", res.Error, args[0])
		}

		var meta *media.Metadata
		if store, err := newStore(); err == nil {
			meta, _ = media.ReadMetadata(store, res.Photo.FileName)
		}

		if showJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				detail.Resolution
				Metadata *media.Metadata `json:"metadata,omitempty"`
			}{res, meta})
		}

		fmt.Fprintf(out, "%s (#%d, %s)\n\n", res.Photo.Object, res.Photo.ID, res.Photo.Date)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, f := range res.Fields {
			fmt.Fprintf(tw, "%s\t%s\n", f.Label, f.Value)
		}
		if meta != nil && meta.Width != nil && meta.Height != nil {
			fmt.Fprintf(tw, "Dimensions\t%dx%d\n", *meta.Width, *meta.Height)
		}
		fmt.Fprintf(tw, "Original\t%s\n", res.OriginalURL)
		fmt.Fprintf(tw, "Thumbnail\t%s\n", res.ThumbnailURL)
		if err := tw.Flush(); err != nil {
			return err
		}
		if res.Description != "" {
			fmt.Fprintf(out, "\n%s\n", res.Description)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the resolution as JSON")
	rootCmd.AddCommand(showCmd)
}

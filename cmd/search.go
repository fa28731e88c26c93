package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/camden-git/astrogallery/gallery"
	"github.com/camden-git/astrogallery/metrics"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "List the gallery, optionally filtered by object name",
	Long: `Loads the photo index and prints the gallery view for term, newest
(highest id) first. The term matches object names case-insensitively, with or
without the spaces in the name ("m31" finds "M 31").`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		term := ""
		if len(args) == 1 {
			term = args[0]
		}

		router := newRouter()
		state := newLoader(metrics.Nop{}).LoadState(cmd.Context())
		view := gallery.Build(state, term, router.GalleryPath(), router.DetailLink)

		if searchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}

		switch view.Status {
		case gallery.StatusFailed:
			return errors.New(view.Error)
		case gallery.StatusEmpty:
			fmt.Fprintln(out, "The gallery is empty.")
			return nil
		case gallery.StatusNoMatches:
			fmt.Fprintf(out, "No photos match %q.\n", term)
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tOBJECT\tDATE\tPAGE")
		for _, item := range view.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.Object, item.Date, item.DetailPath)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d of %d photos\n", len(view.Items), view.Total)
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the view as JSON")
	rootCmd.AddCommand(searchCmd)
}

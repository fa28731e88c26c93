package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/camden-git/astrogallery/config"
)

var (
	cfg      config.Config
	siteRoot string
	basePath string
)

var rootCmd = &cobra.Command{
	Use:   "astrogallery",
	Short: "Static astrophotography gallery: thumbnail builder and site server",
	Long: `astrogallery builds thumbnails for an astrophotography image tree and
serves the static gallery site: the photo index, the original and thumbnail
images, and a JSON/websocket view of the gallery and photo pages.

Configuration is read from the environment (and a .env file when present);
flags override it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Printf("Info: No .env file found or error loading: %v", err)
		}
		if siteRoot != "" {
			os.Setenv("SITE_ROOT", siteRoot)
		}
		if basePath != "" {
			os.Setenv("BASE_PATH", basePath)
		}
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&siteRoot, "site-root", "", "static site root (overrides SITE_ROOT)")
	rootCmd.PersistentFlags().StringVar(&basePath, "base-path", "", "URL prefix the site is served below (overrides BASE_PATH)")
}

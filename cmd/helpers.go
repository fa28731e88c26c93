package cmd

import (
	"fmt"

	"github.com/camden-git/astrogallery/index"
	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/routes"
)

func newStore() (*media.LocalStorage, error) {
	store, err := media.NewLocalStorage(cfg.SiteRoot, map[media.AssetType]string{
		media.AssetTypeOriginal:  cfg.OriginalsSubDir,
		media.AssetTypeThumbnail: cfg.ThumbnailsSubDir,
	})
	if err != nil {
		return nil, fmt.Errorf("creating media store: %w", err)
	}
	return store, nil
}

func newLoader(rec metrics.Recorder) *index.Loader {
	return index.NewLoader(cfg.IndexSource, cfg.IndexFetchTimeout, rec)
}

func newRouter() routes.Router {
	return routes.New(cfg.BasePath)
}

func thumbnailOptions() media.ThumbnailOptions {
	return media.ThumbnailOptions{
		MaxWidth:  cfg.ThumbnailMaxSize,
		MaxHeight: cfg.ThumbnailMaxSize,
	}
}

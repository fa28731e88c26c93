package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/workers"
)

const assetCacheDuration = 24 * time.Hour

// ThumbnailQueue accepts on-demand thumbnail jobs. *workers.ThumbnailGenerator
// implements it.
type ThumbnailQueue interface {
	QueueJob(job workers.ThumbnailJob) bool
}

// AssetServer creates a handler that serves one image tree of the store. The
// file name is taken from the route wildcard, e.g.
//
//	r.Get("/images/originals/*", AssetServer(store, media.AssetTypeOriginal))
func AssetServer(store media.Store, assetType media.AssetType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, ok := resolveAsset(w, r, store, assetType)
		if !ok {
			return
		}
		if _, err := os.Stat(path); err != nil {
			writeStatError(w, r, path, err)
			return
		}
		serveCached(w, r, path)
	}
}

// ThumbnailServer serves the thumbnail tree. When a thumbnail is missing but
// its original exists, generation is queued and the original is served
// uncached in its place.
func ThumbnailServer(store media.Store, queue ThumbnailQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, ok := resolveAsset(w, r, store, media.AssetTypeThumbnail)
		if !ok {
			return
		}

		_, err := os.Stat(path)
		if err == nil {
			serveCached(w, r, path)
			return
		}
		if !errors.Is(err, os.ErrNotExist) {
			writeStatError(w, r, path, err)
			return
		}

		name := chi.URLParam(r, "*")
		if queue == nil || !media.IsRasterImage(name) {
			http.NotFound(w, r)
			return
		}
		originalPath, err := store.FullPath(media.AssetTypeOriginal, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if _, err := os.Stat(originalPath); err != nil {
			writeStatError(w, r, originalPath, err)
			return
		}

		if queue.QueueJob(workers.ThumbnailJob{FileName: name}) {
			log.Printf("assets: thumbnail for %s missing, generation queued", name)
		}
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, originalPath)
	}
}

func resolveAsset(w http.ResponseWriter, r *http.Request, store media.Store, assetType media.AssetType) (string, bool) {
	name := chi.URLParam(r, "*")
	path, err := store.FullPath(assetType, name)
	if err != nil {
		http.Error(w, "Invalid asset path", http.StatusBadRequest)
		log.Printf("SECURITY: rejected asset request '%s': %v", r.URL.Path, err)
		return "", false
	}
	return path, true
}

func writeStatError(w http.ResponseWriter, r *http.Request, path string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	log.Printf("Error stating asset file %s: %v", path, err)
}

func serveCached(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(assetCacheDuration.Seconds())))
	w.Header().Set("Expires", time.Now().Add(assetCacheDuration).Format(http.TimeFormat))
	http.ServeFile(w, r, path)
}

package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"github.com/camden-git/astrogallery/config"
	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/models"
	"github.com/camden-git/astrogallery/realtime"
	"github.com/camden-git/astrogallery/routes"
	"github.com/camden-git/astrogallery/session"
)

const requestTimeout = 60 * time.Second

// Deps is everything NewRouter wires together. Thumbnails, Hub and Gatherer
// are optional.
type Deps struct {
	Config     config.Config
	Source     session.IndexSource
	Store      media.Store
	Thumbnails ThumbnailQueue
	Hub        *realtime.Hub
	Metrics    metrics.Recorder
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the HTTP surface of the static site server.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: d.Config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	router := routes.New(d.Config.BasePath)
	site := &SiteHandler{Root: d.Config.SiteRoot, IndexPath: d.Config.IndexPath(), Router: router}
	photoHandler := &PhotoHandler{Source: d.Source, Router: router, Store: d.Store, Metrics: d.Metrics}
	shellHandler := &ShellHandler{Source: d.Source, Router: router, Hub: d.Hub, Metrics: d.Metrics}

	mountSite := func(r chi.Router) {
		// the websocket outlives any request timeout
		r.Get("/ws/shell", shellHandler.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Get("/"+d.Config.IndexFile, site.ServeIndexResource)
			r.Get("/"+models.OriginalsDir+"/*", AssetServer(d.Store, media.AssetTypeOriginal))
			r.Get("/"+models.ThumbnailsDir+"/*", ThumbnailServer(d.Store, d.Thumbnails))

			r.Route("/api/photos", func(r chi.Router) {
				r.Get("/", photoHandler.ListPhotos)
				r.Get("/{id}", photoHandler.GetPhoto)
			})

			r.Get("/", site.ServeApp)
			r.Get("/photo/{id}", site.ServeApp)
		})
	}

	base := router.GalleryPath()
	if base == "/" {
		mountSite(r)
	} else {
		// "/Astrogalerry" itself is served as the gallery too
		r.Route(strings.TrimSuffix(base, "/"), mountSite)
		log.Printf("Serving site below %s", base)
	}

	if d.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	return r
}

// Package session is the app shell: it owns the background context, selects
// the view for a path, and keeps the one mounted detail viewer.
package session

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/camden-git/astrogallery/background"
	"github.com/camden-git/astrogallery/detail"
	"github.com/camden-git/astrogallery/gallery"
	"github.com/camden-git/astrogallery/index"
	"github.com/camden-git/astrogallery/routes"
	"github.com/camden-git/astrogallery/viewer"
)

// IndexSource loads the photo index. *index.Loader implements it.
type IndexSource interface {
	LoadState(ctx context.Context) index.State
}

// Snapshot is the full render model of the shell at one point in time.
type Snapshot struct {
	SessionID  string             `json:"sessionId"`
	Path       string             `json:"path"`
	Route      routes.Route       `json:"route"`
	Gallery    *gallery.View      `json:"gallery,omitempty"`
	Detail     *detail.Resolution `json:"detail,omitempty"`
	Viewer     *ViewerSnapshot    `json:"viewer,omitempty"`
	Background *string            `json:"background"`
}

// ViewerSnapshot is viewer.State plus its rendering projection.
type ViewerSnapshot struct {
	viewer.State
	Transform string `json:"transform"`
	Cursor    string `json:"cursor"`
}

// Shell is one app shell session. It is not safe for concurrent use; the
// owner drives it from a single goroutine.
type Shell struct {
	ID string

	source     IndexSource
	router     routes.Router
	background *background.Context

	path  string
	route routes.Route
	state index.State
	term  string

	galleryView *gallery.View
	resolution  *detail.Resolution
	view        *viewer.State
	lease       *background.Lease
}

// New creates a shell. bg is the background context this shell renders; it
// is shared by reference with anything else that needs to observe it.
func New(source IndexSource, router routes.Router, bg *background.Context) *Shell {
	if bg == nil {
		bg = background.New(nil)
	}
	return &Shell{
		ID:         uuid.NewString(),
		source:     source,
		router:     router,
		background: bg,
		state:      index.Loading(),
	}
}

// Background is the context this shell publishes into.
func (s *Shell) Background() *background.Context { return s.background }

// Navigate switches to the view for path (which may carry a query string).
// The index is loaded once per navigation into a view that needs it. Redirect
// routes are followed. onLoading, if non-nil, observes the loading snapshot
// before the fetch starts.
func (s *Shell) Navigate(ctx context.Context, path, rawQuery string, onLoading func(Snapshot)) Snapshot {
	route := s.router.Match(path, rawQuery)
	if route.Kind == routes.Redirect {
		log.Printf("session %s: redirecting %s to %s", s.ID, path, route.Location)
		path, rawQuery = route.Location, ""
		route = s.router.Match(path, "")
	}

	// leaving the current view unmounts its viewer, whatever comes next
	s.unmountDetail()
	s.path = path
	s.route = route
	s.galleryView = nil

	switch route.Kind {
	case routes.Gallery:
		s.term = route.Term
		s.state = index.Loading()
		s.rebuildGallery()
	case routes.Detail:
		s.state = index.Loading()
		s.resolve(route.ID)
	default:
		return s.Snapshot()
	}

	if onLoading != nil {
		onLoading(s.Snapshot())
	}

	s.state = s.source.LoadState(ctx)
	switch route.Kind {
	case routes.Gallery:
		s.rebuildGallery()
	case routes.Detail:
		s.resolve(route.ID)
	}
	return s.Snapshot()
}

// Search recomputes the gallery view for term against the loaded index. It
// does nothing outside the gallery view.
func (s *Shell) Search(term string) Snapshot {
	if s.route.Kind == routes.Gallery {
		s.term = term
		s.rebuildGallery()
	}
	return s.Snapshot()
}

// Dispatch applies a viewer event to the mounted viewer, if any.
func (s *Shell) Dispatch(e viewer.Event) Snapshot {
	if s.view != nil {
		next := viewer.Apply(*s.view, e)
		s.view = &next
	}
	return s.Snapshot()
}

// Close tears the shell down, releasing any background it published.
func (s *Shell) Close() {
	s.unmountDetail()
}

// Snapshot projects the current state.
func (s *Shell) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID: s.ID,
		Path:      s.path,
		Route:     s.route,
		Gallery:   s.galleryView,
		Detail:    s.resolution,
	}
	if s.view != nil {
		snap.Viewer = &ViewerSnapshot{
			State:     *s.view,
			Transform: s.view.Transform(),
			Cursor:    s.view.Cursor(),
		}
	}
	if url, ok := s.background.Current(); ok {
		snap.Background = &url
	}
	return snap
}

func (s *Shell) rebuildGallery() {
	v := gallery.Build(s.state, s.term, s.router.GalleryPath(), s.router.DetailLink)
	s.galleryView = &v
}

// resolve (re)computes the detail view for id and mounts the viewer when the
// record is found. Any previously mounted viewer is released first.
func (s *Shell) resolve(id string) {
	s.unmountDetail()

	r := detail.Resolve(s.state, id, s.router.GalleryPath())
	s.resolution = &r
	if r.Status != detail.StatusFound {
		return
	}

	v := viewer.New()
	s.view = &v
	s.lease = s.background.Publish(r.ThumbnailURL)
	log.Printf("session %s: photo %d holds background lease %s", s.ID, r.Photo.ID, s.lease.ID())
}

func (s *Shell) unmountDetail() {
	if s.lease != nil {
		s.lease.Release()
		s.lease = nil
	}
	s.view = nil
	s.resolution = nil
}

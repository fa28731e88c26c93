package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/astrogallery/detail"
	"github.com/camden-git/astrogallery/gallery"
	"github.com/camden-git/astrogallery/index"
	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/routes"
	"github.com/camden-git/astrogallery/session"
)

// PhotoHandler exposes the gallery and detail views as JSON. The index is
// loaded on every request.
type PhotoHandler struct {
	Source  session.IndexSource
	Router  routes.Router
	Store   media.Store // optional, enables EXIF in detail responses
	Metrics metrics.Recorder
}

type photoDetailResponse struct {
	detail.Resolution
	Metadata *media.Metadata `json:"metadata,omitempty"`
}

func (ph *PhotoHandler) recorder() metrics.Recorder {
	if ph.Metrics == nil {
		return metrics.Nop{}
	}
	return ph.Metrics
}

// ListPhotos handles GET /api/photos?q=term
func (ph *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	state := ph.Source.LoadState(r.Context())
	if state.Status == index.StatusFailed {
		WriteAPIError(w, http.StatusServiceUnavailable, CodeIndexUnavailable, state.Err.Error())
		return
	}

	term := r.URL.Query().Get(routes.SearchQueryParam)
	view := gallery.Build(state, term, ph.Router.GalleryPath(), ph.Router.DetailLink)
	ph.recorder().RecordSearch(len(view.Items))
	writeJSON(w, http.StatusOK, view)
}

// GetPhoto handles GET /api/photos/{id}
func (ph *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	state := ph.Source.LoadState(r.Context())
	if state.Status == index.StatusFailed {
		WriteAPIError(w, http.StatusServiceUnavailable, CodeIndexUnavailable, state.Err.Error())
		return
	}

	res := detail.Resolve(state, chi.URLParam(r, "id"), ph.Router.GalleryPath())
	ph.recorder().RecordDetail(string(res.Status))
	if res.Status == detail.StatusNotFound {
		WriteAPIError(w, http.StatusNotFound, CodePhotoNotFound, detail.NotFoundMessage)
		return
	}

	resp := photoDetailResponse{Resolution: res}
	if ph.Store != nil && res.Photo != nil {
		meta, err := media.ReadMetadata(ph.Store, res.Photo.FileName)
		if err != nil {
			log.Printf("photos: no metadata for %s: %v", res.Photo.FileName, err)
		} else {
			resp.Metadata = meta
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/camden-git/astrogallery/routes"
)

// AppEntryFile is the single page entry point served for every view route.
const AppEntryFile = "index.html"

// SiteHandler serves the static site's entry point and index resource.
type SiteHandler struct {
	Root      string // site root holding index.html
	IndexPath string // on-disk index resource
	Router    routes.Router
}

// ServeIndexResource handles GET /data.json. It is never cached so a
// redeployed index is picked up on the next navigation.
func (sh *SiteHandler) ServeIndexResource(w http.ResponseWriter, r *http.Request) {
	if !serveNoCache(w, r, sh.IndexPath) {
		log.Printf("site: index resource %s is missing", sh.IndexPath)
	}
}

// ServeApp handles the view routes. A legacy "?photo=ID" link on the root is
// redirected to the detail route; unknown paths are 404.
func (sh *SiteHandler) ServeApp(w http.ResponseWriter, r *http.Request) {
	route := sh.Router.Match(r.URL.Path, r.URL.RawQuery)
	switch route.Kind {
	case routes.Redirect:
		http.Redirect(w, r, route.Location, http.StatusFound)
	case routes.Gallery, routes.Detail:
		serveNoCache(w, r, filepath.Join(sh.Root, AppEntryFile))
	default:
		http.NotFound(w, r)
	}
}

func serveNoCache(w http.ResponseWriter, r *http.Request, path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			log.Printf("site: error stating %s: %v", path, err)
		}
		http.NotFound(w, r)
		return false
	}
	w.Header().Set("Cache-Control", "no-cache")
	f, err := os.Open(path)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("site: error opening %s: %v", path, err)
		return false
	}
	defer f.Close()
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

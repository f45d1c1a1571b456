package web

import (
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rook-computer/sketchpad/internal/assets"
)

// NewRouter builds the standard router used by both the kiosk and simulator:
// - /api/v1/* for the pad API
// - / for the web UI
func NewRouter(cfg ServerConfig, deps APIV1Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if cfg.DevMode {
		r.Use(WithDevCORS)
	}
	r.Mount("/api/v1", apiV1Router(deps))
	r.Handle("/*", StaticUIHandler(cfg.StaticDir))
	return r
}

// StaticUIHandler serves either the embedded UI assets or a directory.
func StaticUIHandler(staticDir string) http.Handler {
	if staticDir == "" {
		return cleanPath(http.FileServer(http.FS(assets.WebUI)))
	}
	if st, err := os.Stat(staticDir); err != nil || !st.IsDir() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}
	return cleanPath(http.FileServer(http.Dir(staticDir)))
}

// cleanPath keeps requests from walking out of the served tree.
func cleanPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = path.Clean("/" + r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterStaticRoutes mounts:
// - /web/* -> 网页资源
// - /      -> 跳到 /web/
func RegisterStaticRoutes(r chi.Router, webDir string) {
	if webDir == "" {
		webDir = "."
	}
	fs := http.StripPrefix("/web/", http.FileServer(http.Dir(webDir)))
	r.Handle("/web/*", fs)
	r.Get("/web", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/web/", http.StatusFound)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/web/", http.StatusFound)
	})
}

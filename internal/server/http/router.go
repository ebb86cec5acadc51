package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter 挂上 /api/*、/ws/search 和静态网页。webDir 为空时不挂静态文件。
func NewRouter(h *Handler, webDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.handlePing)
		r.Post("/new_game", h.handleNewGame)
		r.Post("/state", h.handleState)
		r.Post("/play", h.handlePlay)
		r.Post("/ai_move", h.handleAiMove)
		r.Post("/evaluate", h.handleEvaluate)
	})

	r.Get("/ws/search", func(w http.ResponseWriter, r *http.Request) {
		serveSearchWS(h.hub, w, r)
	})

	if webDir != "" {
		RegisterStaticRoutes(r, webDir)
	}
	return r
}

package web

import (
	"net/http"

	"kanwiki/internal/web/controller"
	"kanwiki/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", StaticFileServer()))
	mux.Handle("GET /metrics", s.metrics.Handler())

	view := &controller.View{Renderer: s.renderer, Flash: s.flash, Log: s.log}

	authController := controller.Auth{View: view, Service: s.authService, Sessions: s.sessions, Metrics: s.metrics}
	authController.Register(mux)

	miscController := controller.Misc{DB: s.db}
	miscController.Register(mux)

	pageController := controller.Page{
		View:         view,
		Pages:        s.pageRepo,
		Metrics:      s.metrics,
		RequireLogin: middleware.Auth(s.sessions),
	}
	pageController.Register(mux)

	var h http.Handler = mux
	h = middleware.WithUser(s.sessions)(h)
	h = s.metrics.Instrument(h)
	h = middleware.RequestID(h)
	h = middleware.AccessLog(s.log)(h)
	return middleware.Recover(s.log)(h)
}

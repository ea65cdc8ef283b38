package controller

import (
	"log/slog"
	"net/http"

	"kanwiki/internal/auth"
	"kanwiki/internal/web/flash"
	"kanwiki/internal/web/middleware"
	"kanwiki/internal/web/renderer"
)

// View renders templates with the values every page needs.
type View struct {
	Renderer renderer.Renderer
	Flash    *flash.Store
	Log      *slog.Logger
}

// render adds the session user and pending notices to data and writes
// the named template.
func (v *View) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		data["user"] = user
	}
	if v.Flash != nil {
		data["flash"] = v.Flash.Pop(w, r)
	}

	body, err := v.Renderer.Render(name, data)
	if err != nil {
		v.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

func (v *View) notice(w http.ResponseWriter, r *http.Request, msg string) {
	if v.Flash != nil {
		v.Flash.Add(w, r, msg)
	}
}

// serverError logs err and replies with a bare 500.
func (v *View) serverError(w http.ResponseWriter, r *http.Request, err error) {
	v.Log.ErrorContext(r.Context(), "request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFrom(r.Context()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

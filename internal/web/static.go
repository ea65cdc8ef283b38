package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// StaticFileServer serves the files under static/ compiled into the
// binary. Mount it behind http.StripPrefix("/static/", ...).
func StaticFileServer() http.Handler {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(assets))
}

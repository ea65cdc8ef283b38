package controller

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"kanwiki/internal/auth"
	"kanwiki/internal/common"
	"kanwiki/internal/metrics"
	"kanwiki/internal/page"
)

var pagePathRE = regexp.MustCompile(`^(/(?:[A-Za-z0-9_-]+/?)*)$`)

// reservedPaths are served by other routes, so a page of that name could
// be saved but never viewed.
var reservedPaths = []string{"/signup", "/login", "/logout", "/healthz", "/metrics", "/static"}

// Page provides page handlers
type Page struct {
	View    *View
	Pages   *page.Repository
	Metrics *metrics.Metrics

	// RequireLogin guards the save route.
	RequireLogin func(http.Handler) http.Handler
}

// Register registers the page routes. The catch-all view route must stay
// the least specific pattern on mux.
func (p *Page) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /_edit/{page...}", p.edit)
	mux.Handle("POST /_edit/{page...}", p.RequireLogin(http.HandlerFunc(p.save)))
	mux.HandleFunc("GET /_history/{page...}", p.history)
	mux.HandleFunc("GET /{page...}", p.view)
}

// pageName returns the page path of the request, or false when it is not
// a valid page path.
func pageName(r *http.Request) (string, bool) {
	name := "/" + r.PathValue("page")
	if !pagePathRE.MatchString(name) || reserved(name) {
		return "", false
	}
	return name, true
}

func reserved(name string) bool {
	for _, p := range reservedPaths {
		if name == p || strings.HasPrefix(name, p+"/") {
			return true
		}
	}
	return false
}

func (p *Page) view(w http.ResponseWriter, r *http.Request) {
	name, ok := pageName(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if v := r.URL.Query().Get("v"); v != "" {
		p.viewRevision(w, r, name, v)
		return
	}

	pg, err := p.Pages.FindByName(r.Context(), name)
	if errors.Is(err, common.ErrNotFound) {
		if _, ok := auth.UserFromContext(r.Context()); ok {
			http.Redirect(w, r, "/_edit"+name, http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err != nil {
		p.View.serverError(w, r, err)
		return
	}

	p.View.render(w, r, "page.html", map[string]any{
		"page_name":    name,
		"page_content": pg.Content,
		"page":         pg,
	})
}

func (p *Page) viewRevision(w http.ResponseWriter, r *http.Request, name, v string) {
	version, err := strconv.Atoi(v)
	if err != nil || version < 1 {
		http.NotFound(w, r)
		return
	}

	rev, err := p.Pages.Revision(r.Context(), name, version)
	if errors.Is(err, common.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		p.View.serverError(w, r, err)
		return
	}

	p.View.render(w, r, "page.html", map[string]any{
		"page_name":    name,
		"page_content": rev.Content,
		"version":      rev.Version,
	})
}

func (p *Page) edit(w http.ResponseWriter, r *http.Request) {
	name, ok := pageName(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := map[string]any{"page_name": name}
	pg, err := p.Pages.FindByName(r.Context(), name)
	switch {
	case err == nil:
		data["page_content"] = pg.Content
	case errors.Is(err, common.ErrNotFound):
		if _, ok := auth.UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
	default:
		p.View.serverError(w, r, err)
		return
	}

	p.View.render(w, r, "edit-page-form.html", data)
}

func (p *Page) save(w http.ResponseWriter, r *http.Request) {
	name, ok := pageName(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	if _, err := p.Pages.Save(r.Context(), name, r.PostFormValue("content")); err != nil {
		p.View.serverError(w, r, err)
		return
	}
	p.Metrics.PageSaves.Inc()

	p.View.notice(w, r, "Page saved.")
	http.Redirect(w, r, name, http.StatusSeeOther)
}

type diffSegment struct {
	Op   string
	Text string
}

func (p *Page) history(w http.ResponseWriter, r *http.Request) {
	name, ok := pageName(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	pg, err := p.Pages.FindByName(r.Context(), name)
	if errors.Is(err, common.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		p.View.serverError(w, r, err)
		return
	}

	revisions, err := p.Pages.History(r.Context(), name)
	if err != nil {
		p.View.serverError(w, r, err)
		return
	}

	data := map[string]any{
		"page_name": name,
		"page":      pg,
		"history":   revisions,
	}

	if from := r.URL.Query().Get("from"); from != "" {
		fromVersion, err := strconv.Atoi(from)
		if err != nil {
			http.Error(w, "Invalid 'from' version", http.StatusBadRequest)
			return
		}
		fromContent, ok := p.versionContent(w, r, name, fromVersion)
		if !ok {
			return
		}

		toContent, toVersion := pg.Content, 0
		if to := r.URL.Query().Get("to"); to != "" {
			if toVersion, err = strconv.Atoi(to); err != nil {
				http.Error(w, "Invalid 'to' version", http.StatusBadRequest)
				return
			}
			if toContent, ok = p.versionContent(w, r, name, toVersion); !ok {
				return
			}
		}

		data["from"] = fromVersion
		data["to"] = toVersion
		data["diff"] = diffContent(fromContent, toContent)
	}

	p.View.render(w, r, "history.html", data)
}

// versionContent loads an archived version, replying 404 when it is
// missing.
func (p *Page) versionContent(w http.ResponseWriter, r *http.Request, name string, version int) (string, bool) {
	rev, err := p.Pages.Revision(r.Context(), name, version)
	if errors.Is(err, common.ErrNotFound) {
		http.NotFound(w, r)
		return "", false
	}
	if err != nil {
		p.View.serverError(w, r, err)
		return "", false
	}
	return rev.Content, true
}

func diffContent(from, to string) []diffSegment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, true))

	segments := make([]diffSegment, 0, len(diffs))
	for _, d := range diffs {
		var op string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = "insert"
		case diffmatchpatch.DiffDelete:
			op = "delete"
		default:
			op = "equal"
		}
		segments = append(segments, diffSegment{Op: op, Text: d.Text})
	}
	return segments
}

package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"log/slog"
	"net/http"

	"kanwiki/internal/auth"
	"kanwiki/internal/config"
	"kanwiki/internal/metrics"
	"kanwiki/internal/page"
	"kanwiki/internal/web/flash"
	"kanwiki/internal/web/renderer"
)

// Server holds the dependencies for the web server.
type Server struct {
	db          *sql.DB
	log         *slog.Logger
	renderer    renderer.Renderer
	metrics     *metrics.Metrics
	flash       *flash.Store
	authService *auth.Service
	sessions    *auth.Sessions
	pageRepo    *page.Repository
	handler     http.Handler
}

// NewServer creates a new server with the given dependencies.
func NewServer(db *sql.DB, cfg *config.Config, log *slog.Logger) (*Server, error) {
	signer, err := auth.NewSigner(cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	templates, err := renderer.New()
	if err != nil {
		return nil, err
	}

	authRepo := auth.NewRepository(db)
	s := &Server{
		db:          db,
		log:         log,
		renderer:    templates,
		metrics:     metrics.New(),
		flash:       flash.New(flashKey(cfg.SecretKey), log),
		authService: auth.NewService(authRepo, cfg.PasswordScheme),
		sessions: auth.NewSessions(signer, authRepo, auth.CookieOptions{
			HTTPOnly: cfg.CookieHTTPOnly,
			Secure:   cfg.CookieSecure,
		}, log),
		pageRepo: page.NewRepository(db),
	}
	s.handler = s.routes()
	return s, nil
}

// flashKey derives the flash cookie key from secret so that the flash
// store and the session signer never share a key.
func flashKey(secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("flash"))
	return mac.Sum(nil)
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Package flash carries one-shot notices across a redirect in a signed
// cookie.
package flash

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the flash cookie.
const SessionName = "kanwiki-flash"

// Store reads and writes flash notices.
type Store struct {
	store *sessions.CookieStore
	log   *slog.Logger
}

// New returns a Store whose cookies are authenticated with key.
func New(key []byte, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: cs, log: log}
}

// Add queues msg for the next request. It must run before the response
// headers are written.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, msg string) {
	// A bad cookie still yields a usable, empty session.
	session, _ := s.store.Get(r, SessionName)
	session.AddFlash(msg)
	if err := session.Save(r, w); err != nil {
		s.log.ErrorContext(r.Context(), "saving flash", "error", err)
	}
}

// Pop returns the queued notices and clears them.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []string {
	if _, err := r.Cookie(SessionName); err != nil {
		return nil
	}

	session, _ := s.store.Get(r, SessionName)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		s.log.ErrorContext(r.Context(), "clearing flash", "error", err)
	}

	msgs := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/etitcombe/logifymw"

	"kanwiki/internal/logging"
)

// AccessLog writes one line per request to log at info level.
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	l := logging.StdLogger(log, slog.LevelInfo)
	return func(next http.Handler) http.Handler {
		return logifymw.LogIt2(l, next)
	}
}

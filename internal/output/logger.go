package output

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devlongs/swapsync/internal/config"
	"github.com/devlongs/swapsync/internal/tokenlist"
)

// Logger reports list synchronization events
type Logger struct {
	stats *Stats
}

// Stats tracks list synchronization statistics
type Stats struct {
	ListsFetched    atomic.Uint64
	FetchFailures   atomic.Uint64
	UpdatesAccepted atomic.Uint64
	UpdatesDeferred atomic.Uint64
	StartTime       time.Time
}

// NewLogger configures the global zerolog logger and returns a sync logger
func NewLogger(cfg config.LoggingConfig) *Logger {
	// Configure zerolog
	switch cfg.Format {
	case "json":
		// Default JSON output
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	}

	// Set log level
	switch cfg.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}

	return &Logger{stats: &Stats{StartTime: time.Now()}}
}

// LogListFetched logs a successfully downloaded list
func (l *Logger) LogListFetched(url string, list *tokenlist.TokenList) {
	l.stats.ListsFetched.Add(1)

	log.Debug().
		Str("url", url).
		Str("version", list.Version.String()).
		Int("tokens", len(list.Tokens)).
		Msg("List fetched")
}

// LogFetchFailed logs a failed download. Failures are expected and retried.
func (l *Logger) LogFetchFailed(url string, err error) {
	l.stats.FetchFailures.Add(1)

	log.Debug().
		Err(err).
		Str("url", url).
		Msg("Failed to fetch list")
}

// LogUpdateAccepted logs a pending version promoted to current
func (l *Logger) LogUpdateAccepted(url string, from, to tokenlist.Version, bump tokenlist.VersionUpgrade) {
	l.stats.UpdatesAccepted.Add(1)

	log.Info().
		Str("url", url).
		Str("from", from.String()).
		Str("to", to.String()).
		Str("bump", bump.String()).
		Msg("List update accepted")
}

// LogUpdateDeferred logs a pending version left for manual review
func (l *Logger) LogUpdateDeferred(url string, to tokenlist.Version, bump tokenlist.VersionUpgrade) {
	l.stats.UpdatesDeferred.Add(1)

	log.Info().
		Str("url", url).
		Str("to", to.String()).
		Str("bump", bump.String()).
		Msg("List update awaiting review")
}

// LogStats logs current statistics
func (l *Logger) LogStats() {
	log.Info().
		Uint64("listsFetched", l.stats.ListsFetched.Load()).
		Uint64("fetchFailures", l.stats.FetchFailures.Load()).
		Uint64("updatesAccepted", l.stats.UpdatesAccepted.Load()).
		Uint64("updatesDeferred", l.stats.UpdatesDeferred.Load()).
		Dur("uptime", time.Since(l.stats.StartTime)).
		Msg("Swapsync Stats")
}

// LogError logs an error
func (l *Logger) LogError(err error, context string) {
	log.Error().
		Err(err).
		Str("context", context).
		Msg("Error occurred")
}

// GetStats returns current statistics
func (l *Logger) GetStats() *Stats {
	return l.stats
}

// Package logging configures the log/slog loggers used across devhttp.
//
// Every component takes a *slog.Logger through an option and falls back to
// Nop when none is given:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	srv := server.New(server.DefaultConfig(), server.WithLogger(logger))
//
// Level and format can also come from DEVHTTP_LOG_LEVEL and
// DEVHTTP_LOG_FORMAT through FromEnv. Tee fans one record out to several
// handlers, which is how `devhttp serve --log-file` keeps a JSON copy of
// the console output.
package logging

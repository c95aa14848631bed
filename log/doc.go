// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is an immutable value: [Logger.Wrap] and [Logger.With] return
// new loggers and never affect the receiver, so a Logger may be shared
// freely between goroutines.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("application started", slog.String("version", "1.0.0"))
//	logger.Error("failed to load", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// # Package Logger
//
// The package-level functions ([Info], [Debug], ...) write through a
// default logger that writes to [os.Stderr]. [Config] reconfigures it.
//
// Context-unaware functions internally call their context-aware counterparts
// using [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Levels
//
// Five levels are defined, from [LevelTrace] to [LevelError]. Messages
// below the configured level are discarded.
//
// # Output Formats
//
// [FormatText] (the default) writes key=value pairs, colorized with
// lipgloss when the output is a terminal and [WithPretty] is enabled.
// [FormatJSON] writes one JSON object per line.
package log

package application

import "log/slog"

const moduleName = "mapping/mental-maps"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

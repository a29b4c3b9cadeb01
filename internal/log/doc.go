// Package log provides slog-based logging setup for the CLI, including a
// handler that truncates oversized attribute values such as serialized
// page markup.
package log

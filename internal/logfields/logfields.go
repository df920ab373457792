package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBatchID    = "batch_id"
	KeyDocument   = "document"
	KeySource     = "source"
	KeyStage      = "stage"
	KeyCategory   = "category"
	KeyDirective  = "directive"
	KeyDurationMS = "duration_ms"
	KeyWarnings   = "warnings"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BatchID(id string) slog.Attr      { return slog.String(KeyBatchID, id) }
func Document(id string) slog.Attr     { return slog.String(KeyDocument, id) }
func Source(path string) slog.Attr     { return slog.String(KeySource, path) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Category(label string) slog.Attr  { return slog.String(KeyCategory, label) }
func Directive(name string) slog.Attr  { return slog.String(KeyDirective, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Warnings(n int) slog.Attr         { return slog.Int(KeyWarnings, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

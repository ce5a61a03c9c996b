package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRenderID   = "render_id"
	KeySource     = "source"
	KeySourceKind = "source_kind"
	KeyReference  = "reference"
	KeyOutcome    = "outcome"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RenderID(id string) slog.Attr      { return slog.String(KeyRenderID, id) }
func Source(alias string) slog.Attr     { return slog.String(KeySource, alias) }
func SourceKind(k string) slog.Attr     { return slog.String(KeySourceKind, k) }
func Reference(raw string) slog.Attr    { return slog.String(KeyReference, raw) }
func Outcome(o string) slog.Attr        { return slog.String(KeyOutcome, o) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

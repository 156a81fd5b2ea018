package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBlockIndex = "block_index"
	KeyMapID      = "map_id"
	KeyImage      = "image"
	KeyBoundsMode = "bounds_mode"
	KeySource     = "source"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyAttempt    = "attempt"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BlockIndex(i int) slog.Attr      { return slog.Int(KeyBlockIndex, i) }
func MapID(id string) slog.Attr       { return slog.String(KeyMapID, id) }
func Image(ref string) slog.Attr      { return slog.String(KeyImage, ref) }
func BoundsMode(m string) slog.Attr   { return slog.String(KeyBoundsMode, m) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

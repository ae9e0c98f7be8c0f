// Package storage provides the persistence layer for user-held state:
// triage buckets, preferences, theme, viewed counter. Everything is
// JSON-valued under the "mp:" key namespace.
package storage

import "context"

// Namespace prefixes every key written by this application.
const Namespace = "mp:"

// Well-known keys.
const (
	KeySaved        = Namespace + "saved"
	KeySkipped      = Namespace + "skipped"
	KeyArchived     = Namespace + "archived"
	KeyPrefs        = Namespace + "prefs"
	KeyViewedCount  = Namespace + "viewedCount"
	KeyTheme        = Namespace + "theme"
	KeyUser         = Namespace + "user"
	KeySkipFeedback = Namespace + "skipFeedback"
)

// KV is a JSON-valued key-value store. GetJSON reports found=false for a
// missing key; implementations must treat backend outage as a miss, not a
// hard error, so the app keeps working from memory.
type KV interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

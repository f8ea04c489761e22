package shortener

import "context"

// Store defines the persistence operations for ShortLink rows. It is the
// single source of truth for mappings; implementations must make Insert an
// atomic check-and-insert (uniqueness enforced at the storage layer) and
// IncrementClicks an atomic in-place increment.
type Store interface {
	Insert(ctx context.Context, link ShortLink) (ShortLink, error)
	Lookup(ctx context.Context, code string) (ShortLink, error)
	IncrementClicks(ctx context.Context, code string) error
	Ping(ctx context.Context) error
}

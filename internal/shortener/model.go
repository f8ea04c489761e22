package shortener

import "time"

// ShortLink is a persisted code-to-URL mapping. Code is the primary key
// and, together with OriginalURL, Custom and CreatedAt, is immutable once
// created; only ClickCount changes, and only upward.
type ShortLink struct {
	Code        string
	OriginalURL string
	ClickCount  int64
	Custom      bool
	CreatedAt   time.Time
}

package shortener

import (
	"context"
	"errors"

	"github.com/nkemjika/shortly/internal/errx"
)

// lookupAttempts bounds the retry of the idempotent store lookup on
// transient failures. Writes are never auto-retried.
const lookupAttempts = 2

// Resolve returns the original URL for a code, cache-first, and schedules
// the click increment off the request path. A cache hit never touches the
// store, so hits keep working while the store is down or slow.
func (s *service) Resolve(ctx context.Context, code string) (string, error) {
	const op = "shortener.service.Resolve"

	if code == "" {
		return "", errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	if url, ok := s.cache.Get(code); ok {
		s.scheduleClick(code)
		return url, nil
	}

	link, err := s.lookup(ctx, code)
	if err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}

	s.cache.Put(code, link.OriginalURL)
	s.scheduleClick(code)
	return link.OriginalURL, nil
}

// Stats reads statistics for a code straight from the store. Deliberately
// uncached: freshness of the click count matters more than latency here.
func (s *service) Stats(ctx context.Context, code string) (ShortLink, error) {
	const op = "shortener.service.Stats"

	if code == "" {
		return ShortLink{}, errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	link, err := s.store.Lookup(ctx, code)
	if err != nil {
		return ShortLink{}, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

// lookup fetches a link from the store, retrying once on transient
// failure. Each attempt carries its own timeout.
func (s *service) lookup(ctx context.Context, code string) (ShortLink, error) {
	var lastErr error
	for attempt := 0; attempt < lookupAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		link, err := s.store.Lookup(attemptCtx, code)
		cancel()

		if err == nil {
			return link, nil
		}
		if errx.KindOf(err) != errx.Unavailable {
			return ShortLink{}, err
		}
		lastErr = err
	}
	return ShortLink{}, lastErr
}

// scheduleClick records a click without blocking the redirect response.
// The increment is durable once the store acknowledges it; a failure is
// logged and dropped, redirect correctness wins over statistics.
func (s *service) scheduleClick(code string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
		defer cancel()

		if err := s.store.IncrementClicks(ctx, code); err != nil {
			s.logger.Warn("click increment failed",
				"code", code,
				"error", err,
			)
		}
	}()
}

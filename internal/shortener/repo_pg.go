package shortener

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkemjika/shortly/internal/errx"
)

const (
	insertLinkSQL = `
		INSERT INTO short_links (code, original_url, custom)
		VALUES ($1, $2, $3)
		RETURNING code, original_url, click_count, custom, created_at`

	lookupLinkSQL = `
		SELECT code, original_url, click_count, custom, created_at
		FROM short_links
		WHERE code = $1`

	incrementClicksSQL = `
		UPDATE short_links
		SET click_count = click_count + 1
		WHERE code = $1`
)

// pgStore implements Store on a pgx connection pool.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres-backed Store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func scanLink(row pgx.Row) (ShortLink, error) {
	var link ShortLink
	err := row.Scan(
		&link.Code,
		&link.OriginalURL,
		&link.ClickCount,
		&link.Custom,
		&link.CreatedAt,
	)
	return link, err
}

func mapStoreError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

// Insert persists a new link. The primary key on code makes this an atomic
// check-and-insert: two requests racing on the same candidate cannot both
// succeed, the loser gets a Conflict.
func (s *pgStore) Insert(ctx context.Context, link ShortLink) (ShortLink, error) {
	const op = "shortener.store.Insert"

	row := s.pool.QueryRow(ctx, insertLinkSQL, link.Code, link.OriginalURL, link.Custom)
	created, err := scanLink(row)
	if err != nil {
		return ShortLink{}, mapStoreError(op, err)
	}
	return created, nil
}

func (s *pgStore) Lookup(ctx context.Context, code string) (ShortLink, error) {
	const op = "shortener.store.Lookup"

	row := s.pool.QueryRow(ctx, lookupLinkSQL, code)
	link, err := scanLink(row)
	if err != nil {
		return ShortLink{}, mapStoreError(op, err)
	}
	return link, nil
}

// IncrementClicks bumps click_count in place. No read-modify-write cycle,
// so concurrent increments for the same code cannot lose updates.
func (s *pgStore) IncrementClicks(ctx context.Context, code string) error {
	const op = "shortener.store.IncrementClicks"

	tag, err := s.pool.Exec(ctx, incrementClicksSQL, code)
	if err != nil {
		return mapStoreError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound, pgx.ErrNoRows)
	}
	return nil
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

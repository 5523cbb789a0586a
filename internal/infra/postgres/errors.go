package postgres

import (
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// nullable maps the empty string to SQL NULL so unset share codes never collide.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

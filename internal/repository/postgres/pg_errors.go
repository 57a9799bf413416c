package postgres

import (
	"errors"

	"github.com/adriaway/booking/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func translateDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		// unique_violation
		if pge.Code == "23505" {
			return repository.ErrConflict
		}
	}

	return err
}

package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pilot-bidding-api/pkg/postgres"
)

type DiagnosticsRepo struct {
	*postgres.Postgres
}

func NewDiagnosticsRepo(pgdb *postgres.Postgres) *DiagnosticsRepo {
	return &DiagnosticsRepo{pgdb}
}

// Ping checks the connection and that the bid schema has been migrated.
func (r *DiagnosticsRepo) Ping(ctx context.Context) error {
	const op = "pgdb.Ping"

	if err := r.Database.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	probeSql, args, _ := r.SqlBuilder.
		Select("1").
		From("bid").
		Limit(1).
		ToSql()

	var one int
	err := r.Database.QueryRowContext(ctx, probeSql, args...).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

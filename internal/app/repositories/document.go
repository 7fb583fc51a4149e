package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

// resolveSaveFailure resolves a zero-row conditional update: the row either
// exists at a different version (a concurrent writer won) or is gone.
func resolveSaveFailure(ctx context.Context, db *pgxpool.Pool, table, id string, notFound error) error {
	query := squirrel.Select("1").
		From(table).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	var one int
	if err := db.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		return notFound
	}
	return apperrors.ErrConflict
}

// deleteDocument removes a document row, mapping a zero-row delete to the
// entity's not-found error.
func deleteDocument(ctx context.Context, db *pgxpool.Pool, table, id string, notFound error) error {
	query := squirrel.Delete(table).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%w: error executing query: %v", apperrors.ErrStore, err)
	}

	if result.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
	"github.com/happysmilecode/yumenosite/internal/pkg/dberrors"
)

// userRepository is the Postgres implementation of UserRepository.
type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new Postgres-backed UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user document at version 1
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding user: %w", err)
	}

	query := squirrel.Insert("users").
		Columns("id", "doc", "version").
		Values(user.ID, doc, 1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("%w: error executing query: %v", apperrors.ErrStore, err)
	}

	user.Version = 1
	return nil
}

// GetByID retrieves a user document by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := squirrel.Select("doc", "version").
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var doc []byte
	var version int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: error executing query: %v", apperrors.ErrStore, err)
	}

	var user models.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("error decoding user: %w", err)
	}
	user.Version = version
	return &user, nil
}

// Save overwrites the full user document guarded by the version stamp
func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding user: %w", err)
	}

	query := squirrel.Update("users").
		Set("doc", doc).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": user.ID}).
		Where(squirrel.Eq{"version": user.Version}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%w: error executing query: %v", apperrors.ErrStore, err)
	}

	if result.RowsAffected() == 0 {
		return resolveSaveFailure(ctx, r.db, "users", user.ID, apperrors.ErrUserNotFound)
	}

	user.Version++
	return nil
}

// Delete deletes a user document
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return deleteDocument(ctx, r.db, "users", id, apperrors.ErrUserNotFound)
}

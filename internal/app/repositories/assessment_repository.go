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

// assessmentRepository is the Postgres implementation of AssessmentRepository.
type assessmentRepository struct {
	db *pgxpool.Pool
}

// NewAssessmentRepository creates a new Postgres-backed AssessmentRepository
func NewAssessmentRepository(db *pgxpool.Pool) AssessmentRepository {
	return &assessmentRepository{db: db}
}

// Create inserts a new assessment document at version 1
func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	doc, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("error encoding assessment: %w", err)
	}

	query := squirrel.Insert("assessments").
		Columns("id", "doc", "version").
		Values(assessment.ID, doc, 1).
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

	assessment.Version = 1
	return nil
}

// GetByID retrieves an assessment document by ID
func (r *assessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	query := squirrel.Select("doc", "version").
		From("assessments").
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
			return nil, apperrors.ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("%w: error executing query: %v", apperrors.ErrStore, err)
	}

	var assessment models.Assessment
	if err := json.Unmarshal(doc, &assessment); err != nil {
		return nil, fmt.Errorf("error decoding assessment: %w", err)
	}
	assessment.Version = version
	return &assessment, nil
}

// Save overwrites the full assessment document guarded by the version stamp
func (r *assessmentRepository) Save(ctx context.Context, assessment *models.Assessment) error {
	doc, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("error encoding assessment: %w", err)
	}

	query := squirrel.Update("assessments").
		Set("doc", doc).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": assessment.ID}).
		Where(squirrel.Eq{"version": assessment.Version}).
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
		return resolveSaveFailure(ctx, r.db, "assessments", assessment.ID, apperrors.ErrAssessmentNotFound)
	}

	assessment.Version++
	return nil
}

// Delete deletes an assessment document
func (r *assessmentRepository) Delete(ctx context.Context, id string) error {
	return deleteDocument(ctx, r.db, "assessments", id, apperrors.ErrAssessmentNotFound)
}

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

// courseRepository is the Postgres implementation of CourseRepository.
// Courses are stored one JSONB document per row next to a version counter.
type courseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new Postgres-backed CourseRepository
func NewCourseRepository(db *pgxpool.Pool) CourseRepository {
	return &courseRepository{db: db}
}

// Create inserts a new course document at version 1
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	doc, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("error encoding course: %w", err)
	}

	query := squirrel.Insert("courses").
		Columns("id", "doc", "version").
		Values(course.ID, doc, 1).
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

	course.Version = 1
	return nil
}

// GetByID retrieves a course document by ID
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := squirrel.Select("doc", "version").
		From("courses").
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
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: error executing query: %v", apperrors.ErrStore, err)
	}

	return decodeCourse(doc, version)
}

// GetAll retrieves every course document
func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	query := squirrel.Select("doc", "version").
		From("courses").
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryCourses(ctx, query)
}

// Search returns courses where any of title, teachers, level or tags
// contains the query as a case-insensitive substring (OR semantics).
func (r *courseRepository) Search(ctx context.Context, searchQuery string) ([]models.Course, error) {
	pattern := "%" + searchQuery + "%"

	query := squirrel.Select("doc", "version").
		From("courses").
		Where(squirrel.Or{
			squirrel.Expr("doc->>'title' ILIKE ?", pattern),
			squirrel.Expr("doc->>'level' ILIKE ?", pattern),
			squirrel.Expr("doc->>'tags' ILIKE ?", pattern),
			squirrel.Expr("EXISTS (SELECT 1 FROM jsonb_array_elements_text(doc->'teachers') AS t(teacher) WHERE teacher ILIKE ?)", pattern),
		}).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryCourses(ctx, query)
}

// Save overwrites the full course document if the caller's version still
// matches the stored one, and bumps the version stamp.
func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	doc, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("error encoding course: %w", err)
	}

	query := squirrel.Update("courses").
		Set("doc", doc).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": course.ID}).
		Where(squirrel.Eq{"version": course.Version}).
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
		return resolveSaveFailure(ctx, r.db, "courses", course.ID, apperrors.ErrCourseNotFound)
	}

	course.Version++
	return nil
}

// Delete deletes a course document
func (r *courseRepository) Delete(ctx context.Context, id string) error {
	return deleteDocument(ctx, r.db, "courses", id, apperrors.ErrCourseNotFound)
}

func (r *courseRepository) queryCourses(ctx context.Context, query squirrel.SelectBuilder) ([]models.Course, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: error executing query: %v", apperrors.ErrStore, err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var doc []byte
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		course, err := decodeCourse(doc, version)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}

	return courses, rows.Err()
}

func decodeCourse(doc []byte, version int64) (*models.Course, error) {
	var course models.Course
	if err := json.Unmarshal(doc, &course); err != nil {
		return nil, fmt.Errorf("error decoding course: %w", err)
	}
	course.Version = version
	return &course, nil
}

package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/happysmilecode/yumenosite/internal/app/models"
)

// The repositories persist entities as whole documents guarded by an
// optimistic version stamp. GetByID loads the document together with its
// current version; Save overwrites the full document only when the caller's
// version still matches, failing with apperrors.ErrConflict otherwise.
// Callers therefore follow a read-modify-write-retry cycle; there are no
// field-level updates.

// CourseRepository handles storage operations for course documents.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
	// Search returns courses where any of title, teachers, level or tags
	// contains the query as a case-insensitive substring.
	Search(ctx context.Context, query string) ([]models.Course, error)
	Save(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// AssessmentRepository handles storage operations for assessment documents.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	Save(ctx context.Context, assessment *models.Assessment) error
	Delete(ctx context.Context, id string) error
}

// UserRepository handles storage operations for user documents.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Courses     CourseRepository
	Assessments AssessmentRepository
	Users       UserRepository
}

// NewRepositories initializes Postgres-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Courses:     NewCourseRepository(db),
		Assessments: NewAssessmentRepository(db),
		Users:       NewUserRepository(db),
	}
}

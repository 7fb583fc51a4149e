// Package memory provides in-memory repositories with the same optimistic
// versioning contract as the Postgres implementations. It backs the
// `database.driver: memory` mode and the service tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

type row struct {
	doc     []byte
	version int64
}

// table is a versioned document table under a single mutex.
type table struct {
	mu   sync.Mutex
	rows map[string]row
}

func newTable() *table {
	return &table{rows: map[string]row{}}
}

func (t *table) create(id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; ok {
		return apperrors.ErrResourceAlreadyExists
	}
	t.rows[id] = row{doc: data, version: 1}
	return nil
}

func (t *table) get(id string, out interface{}, notFound error) (int64, error) {
	t.mu.Lock()
	r, ok := t.rows[id]
	t.mu.Unlock()

	if !ok {
		return 0, notFound
	}
	if err := json.Unmarshal(r.doc, out); err != nil {
		return 0, fmt.Errorf("error decoding document: %w", err)
	}
	return r.version, nil
}

// save applies the same conditional-update rule as the Postgres driver:
// the write lands only if the caller's version matches the stored one.
func (t *table) save(id string, doc interface{}, version int64, notFound error) (int64, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("error encoding document: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.rows[id]
	if !ok {
		return 0, notFound
	}
	if r.version != version {
		return 0, apperrors.ErrConflict
	}
	t.rows[id] = row{doc: data, version: version + 1}
	return version + 1, nil
}

func (t *table) delete(id string, notFound error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return notFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table) all() []row {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]row, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// NewRepositories builds the full in-memory repository set
func NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Courses:     NewCourseRepository(),
		Assessments: NewAssessmentRepository(),
		Users:       NewUserRepository(),
	}
}

// courseRepository is the in-memory CourseRepository.
type courseRepository struct {
	t *table
}

// NewCourseRepository creates an in-memory CourseRepository
func NewCourseRepository() repositories.CourseRepository {
	return &courseRepository{t: newTable()}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.t.create(course.ID, course); err != nil {
		return err
	}
	course.Version = 1
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	version, err := r.t.get(id, &course, apperrors.ErrCourseNotFound)
	if err != nil {
		return nil, err
	}
	course.Version = version
	return &course, nil
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	for _, row := range r.t.all() {
		var course models.Course
		if err := json.Unmarshal(row.doc, &course); err != nil {
			return nil, fmt.Errorf("error decoding document: %w", err)
		}
		course.Version = row.version
		courses = append(courses, course)
	}
	return courses, nil
}

func (r *courseRepository) Search(ctx context.Context, query string) ([]models.Course, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matched []models.Course
	for _, course := range all {
		if courseMatches(&course, needle) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

// courseMatches mirrors the Postgres ILIKE predicate: case-insensitive
// substring over title, teachers, level and tags, OR semantics.
func courseMatches(course *models.Course, needle string) bool {
	if strings.Contains(strings.ToLower(course.Title), needle) ||
		strings.Contains(strings.ToLower(course.Level), needle) ||
		strings.Contains(strings.ToLower(course.Tags), needle) {
		return true
	}
	for _, teacher := range course.Teachers {
		if strings.Contains(strings.ToLower(teacher), needle) {
			return true
		}
	}
	return false
}

func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	version, err := r.t.save(course.ID, course, course.Version, apperrors.ErrCourseNotFound)
	if err != nil {
		return err
	}
	course.Version = version
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(id, apperrors.ErrCourseNotFound)
}

// assessmentRepository is the in-memory AssessmentRepository.
type assessmentRepository struct {
	t *table
}

// NewAssessmentRepository creates an in-memory AssessmentRepository
func NewAssessmentRepository() repositories.AssessmentRepository {
	return &assessmentRepository{t: newTable()}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if err := r.t.create(assessment.ID, assessment); err != nil {
		return err
	}
	assessment.Version = 1
	return nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	var assessment models.Assessment
	version, err := r.t.get(id, &assessment, apperrors.ErrAssessmentNotFound)
	if err != nil {
		return nil, err
	}
	assessment.Version = version
	return &assessment, nil
}

func (r *assessmentRepository) Save(ctx context.Context, assessment *models.Assessment) error {
	version, err := r.t.save(assessment.ID, assessment, assessment.Version, apperrors.ErrAssessmentNotFound)
	if err != nil {
		return err
	}
	assessment.Version = version
	return nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(id, apperrors.ErrAssessmentNotFound)
}

// userRepository is the in-memory UserRepository.
type userRepository struct {
	t *table
}

// NewUserRepository creates an in-memory UserRepository
func NewUserRepository() repositories.UserRepository {
	return &userRepository{t: newTable()}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.t.create(user.ID, user); err != nil {
		return err
	}
	user.Version = 1
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	version, err := r.t.get(id, &user, apperrors.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	user.Version = version
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	version, err := r.t.save(user.ID, user, user.Version, apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}
	user.Version = version
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(id, apperrors.ErrUserNotFound)
}

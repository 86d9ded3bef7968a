package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/miftal/academy-api/internal/models"
)

// CourseRepository handles persistence of catalog courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, title, description, instructor, duration, level, price, original_price, thumbnail, enrolled, created_at, updated_at`

// List returns courses newest first, optionally bounded to limit items.
func (r *CourseRepository) List(ctx context.Context, limit int) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY created_at DESC", courseColumns)
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create persists a new course and assigns its ID.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, title, description, instructor, duration, level, price, original_price, thumbnail, enrolled, created_at, updated_at)
        VALUES (:id, :title, :description, :instructor, :duration, :level, :price, :original_price, :thumbnail, :enrolled, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing course. The enrolled
// counter is written as provided by the caller; creation time is untouched.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, description = :description, instructor = :instructor,
        duration = :duration, level = :level, price = :price, original_price = :original_price,
        thumbnail = :thumbnail, enrolled = :enrolled, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course permanently.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

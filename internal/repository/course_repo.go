package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/model"
)

// CourseRepository data access for the course reference entity. The
// reconciler pre-loads candidates with the batched listers to avoid
// N+1 lookups during an import.
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListByCodes(ctx context.Context, codes []string) ([]model.Course, error)
	ListByNames(ctx context.Context, names []string) ([]model.Course, error)
	BatchCreate(ctx context.Context, courses []model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).Where("course_id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByCodes(ctx context.Context, codes []string) ([]model.Course, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var courses []model.Course
	err := r.db.WithContext(ctx).Where("course_code IN ?", codes).Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByNames(ctx context.Context, names []string) ([]model.Course, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var courses []model.Course
	err := r.db.WithContext(ctx).Where("course_name IN ?", names).Find(&courses).Error
	return courses, err
}

func (r *courseRepo) BatchCreate(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&courses).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data-access interface.
type Repository struct {
	ClassSchedule ClassScheduleRepository
	Course        CourseRepository
	AcademicYear  AcademicYearRepository
	Classroom     ClassroomRepository

	db *gorm.DB
}

// NewRepository wires the aggregate against a gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		ClassSchedule: NewClassScheduleRepo(db),
		Course:        NewCourseRepo(db),
		AcademicYear:  NewAcademicYearRepo(db),
		Classroom:     NewClassroomRepo(db),
		db:            db,
	}
}

// NewTestRepository builds an aggregate from pre-built (in-memory)
// repositories. Transaction runs the callback directly since there is
// no underlying database.
func NewTestRepository(cs ClassScheduleRepository, c CourseRepository, ay AcademicYearRepository, cr ClassroomRepository) *Repository {
	return &Repository{ClassSchedule: cs, Course: c, AcademicYear: ay, Classroom: cr}
}

// Transaction runs fn with a Repository bound to one database
// transaction. The batch import uses this so course/year creation and
// schedule writes share atomicity.
func (r *Repository) Transaction(ctx context.Context, fn func(*Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

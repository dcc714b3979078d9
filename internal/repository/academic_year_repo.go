package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/model"
)

// AcademicYearRepository data access for academic years, keyed by
// year code ("2025-2026").
type AcademicYearRepository interface {
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	ListByCodes(ctx context.Context, codes []string) ([]model.AcademicYear, error)
	BatchCreate(ctx context.Context, years []model.AcademicYear) error
}

type academicYearRepo struct {
	db *gorm.DB
}

func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).Where("academic_year_id = ?", id).First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) ListByCodes(ctx context.Context, codes []string) ([]model.AcademicYear, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).Where("year_code IN ?", codes).Find(&years).Error
	return years, err
}

func (r *academicYearRepo) BatchCreate(ctx context.Context, years []model.AcademicYear) error {
	if len(years) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&years).Error
}

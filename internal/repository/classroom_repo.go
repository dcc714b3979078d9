package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/model"
)

// ClassroomRepository data access for buildings and their rooms.
type ClassroomRepository interface {
	GetBuilding(ctx context.Context, id string) (*model.Building, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]model.Classroom, error)
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
}

type classroomRepo struct {
	db *gorm.DB
}

func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) GetBuilding(ctx context.Context, id string) (*model.Building, error) {
	var building model.Building
	err := r.db.WithContext(ctx).Where("building_id = ?", id).First(&building).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *classroomRepo) ListByBuilding(ctx context.Context, buildingID string) ([]model.Classroom, error) {
	var rooms []model.Classroom
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("room_name ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var room model.Classroom
	err := r.db.WithContext(ctx).
		Preload("Building").
		Where("classroom_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

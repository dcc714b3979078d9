// Package service holds the business rules: document ingestion,
// entity reconciliation, conflict detection, schedule CRUD, room
// availability and exports. Repositories do the data access; handlers
// only translate HTTP.
package service

import (
	"go.uber.org/zap"

	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
	"github.com/vietbevis/kma-training-support-sub000/pkg/redis"
)

// Service aggregates every business-logic interface.
type Service struct {
	Import       ImportService
	Schedule     ScheduleService
	Availability AvailabilityService
	Export       ExportService
}

// NewService wires the aggregate. cache may be nil: the server runs
// without Redis, it just stops caching availability snapshots.
func NewService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		Import:       NewImportService(repo, cache, logger),
		Schedule:     NewScheduleService(repo, cache, logger),
		Availability: NewAvailabilityService(repo, cache, logger),
		Export:       NewExportService(repo, logger),
	}
}

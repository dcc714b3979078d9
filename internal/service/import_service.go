package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/dto"
	"github.com/vietbevis/kma-training-support-sub000/internal/extract"
	"github.com/vietbevis/kma-training-support-sub000/internal/ingest"
	"github.com/vietbevis/kma-training-support-sub000/internal/model"
	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
	"github.com/vietbevis/kma-training-support-sub000/pkg/redis"
)

var (
	// ErrImportEmpty the document produced no schedule records at all.
	ErrImportEmpty = errors.New("document contains no schedule rows")
	// ErrAcademicYearNotFound the academic_year_id sent with the upload
	// does not reference an existing row.
	ErrAcademicYearNotFound = errors.New("academic year not found")
)

// ImportService ingests uploaded timetable and standard-hours
// documents. Row failures never abort an import; anything fatal
// (unreadable file, missing header, broken transaction) returns an
// error and commits nothing.
type ImportService interface {
	ImportTimetable(ctx context.Context, data []byte, filename string, req dto.ImportTimetableRequest, operatorID *string) (*dto.ImportSummary, error)
	ImportStandardHours(ctx context.Context, data []byte, filename string, req dto.ImportStandardHoursRequest, operatorID *string) (*dto.ImportSummary, error)
}

type importService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
}

func NewImportService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) ImportService {
	return &importService{repo: repo, cache: cache, logger: logger}
}

// ImportTimetable runs the full pipeline: extract tables, reduce row
// blocks into records, reconcile courses/years, then commit everything
// in one transaction with per-row accounting. Conflict checks run
// inside the transaction so records committed earlier in the same
// batch take part in the overlap scan.
func (s *importService) ImportTimetable(ctx context.Context, data []byte, filename string, req dto.ImportTimetableRequest, operatorID *string) (*dto.ImportSummary, error) {
	records, dropped, err := s.extractRecords(data, filename, req.Semester)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 && len(dropped) == 0 {
		return nil, ErrImportEmpty
	}

	defaultYearID, err := s.resolveYearID(ctx, req.AcademicYearID)
	if err != nil {
		return nil, err
	}

	plan, err := planReconciliation(ctx, s.repo, records, defaultYearID, operatorID)
	if err != nil {
		return nil, err
	}

	summary := &dto.ImportSummary{Errors: []dto.RowFailure{}}
	for _, rec := range dropped {
		summary.Errors = append(summary.Errors, dto.RowFailure{
			Row:    rec.RowIndex,
			Data:   rowData(rec),
			Reason: "no valid time slot rows in block",
		})
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := plan.flush(ctx, tx); err != nil {
			return err
		}

		for i, rec := range records {
			dup, err := tx.ClassSchedule.CountDuplicates(ctx, rec.ClassName, rec.Semester, plan.yearIDs[i])
			if err != nil {
				return fmt.Errorf("duplicate probe for %q: %w", rec.ClassName, err)
			}
			if dup > 0 {
				summary.Skipped++
				continue
			}

			schedule := buildSchedule(rec, plan.courseIDs[i], plan.yearIDs[i], operatorID)
			if err := checkScheduleConflicts(ctx, tx.ClassSchedule, schedule.DetailTimeSlots, ""); err != nil {
				var conflict *ConflictError
				if errors.As(err, &conflict) {
					summary.Errors = append(summary.Errors, dto.RowFailure{
						Row:    rec.RowIndex,
						Data:   rowData(rec),
						Reason: conflict.Error(),
					})
					continue
				}
				return err
			}

			if err := tx.ClassSchedule.Create(ctx, schedule); err != nil {
				summary.Errors = append(summary.Errors, dto.RowFailure{
					Row:    rec.RowIndex,
					Data:   rowData(rec),
					Reason: err.Error(),
				})
				continue
			}
			summary.Success++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx)
	s.logger.Info("timetable import finished",
		zap.String("filename", filename),
		zap.Int("success", summary.Success),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", len(summary.Errors)))
	return summary, nil
}

// ImportStandardHours updates the teaching-hours figures of schedules
// already committed for the semester. The standard-hours table carries
// no day/room columns, so every block reduces to a slotless record;
// each one is matched to an existing schedule by class name and the
// hour fields are rewritten.
func (s *importService) ImportStandardHours(ctx context.Context, data []byte, filename string, req dto.ImportStandardHoursRequest, operatorID *string) (*dto.ImportSummary, error) {
	completed, dropped, err := s.extractRecords(data, filename, req.Semester)
	if err != nil {
		return nil, err
	}
	records := append(completed, dropped...)
	if len(records) == 0 {
		return nil, ErrImportEmpty
	}

	defaultYearID, err := s.resolveYearID(ctx, req.AcademicYearID)
	if err != nil {
		return nil, err
	}

	semester := ingest.DeriveSemester(req.Semester, "", "")
	yearID := ""
	if defaultYearID != nil {
		yearID = *defaultYearID
	}
	existing, err := s.repo.ClassSchedule.ListBySemesterYear(ctx, semester, yearID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*model.ClassSchedule, len(existing))
	for i := range existing {
		byName[existing[i].ClassName] = &existing[i]
	}

	summary := &dto.ImportSummary{Errors: []dto.RowFailure{}}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, rec := range records {
			schedule, ok := byName[rec.ClassName]
			if !ok {
				summary.Errors = append(summary.Errors, dto.RowFailure{
					Row:    rec.RowIndex,
					Data:   rowData(rec),
					Reason: "no committed schedule with this class name",
				})
				continue
			}
			if rec.StandardHours == 0 {
				summary.Skipped++
				continue
			}

			schedule.TheoryHours = rec.TheoryHours
			schedule.ActualHours = rec.ActualHours
			schedule.CrowdClassCoefficient = rec.CrowdClassCoefficient
			schedule.OvertimeCoefficient = rec.OvertimeCoefficient
			schedule.StandardHours = rec.StandardHours
			if rec.StudentCount > 0 {
				schedule.StudentCount = rec.StudentCount
			}
			schedule.UpdatedBy = operatorID

			if err := tx.ClassSchedule.Update(ctx, schedule); err != nil {
				summary.Errors = append(summary.Errors, dto.RowFailure{
					Row:    rec.RowIndex,
					Data:   rowData(rec),
					Reason: err.Error(),
				})
				continue
			}
			summary.Success++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("standard hours import finished",
		zap.String("filename", filename),
		zap.Int("success", summary.Success),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", len(summary.Errors)))
	return summary, nil
}

// extractRecords turns raw bytes into reduced records across every
// table of the document. A header is looked up per table; tables
// without one are skipped, and only when no table qualifies does the
// import fail with extract.ErrHeaderNotFound.
func (s *importService) extractRecords(data []byte, filename, semesterLabel string) (completed, dropped []ingest.Record, err error) {
	tables, err := extract.Tables(data, filename)
	if err != nil {
		return nil, nil, err
	}

	isWord := strings.HasSuffix(strings.ToLower(filename), ".docx")

	headerFound := false
	for _, table := range tables {
		idx := extract.FindHeader(table.Rows)
		if idx < 0 && isWord {
			idx = extract.FindHeaderLoose(table.Rows)
		}
		if idx < 0 {
			continue
		}
		headerFound = true

		cols := extract.MapColumns(table.Rows[idx])
		done, bad := ingest.Reduce(table.Rows[idx+1:], cols, semesterLabel, table.Date1904)
		completed = append(completed, done...)
		dropped = append(dropped, bad...)
	}
	if !headerFound {
		return nil, nil, extract.ErrHeaderNotFound
	}
	return completed, dropped, nil
}

// resolveYearID validates an explicit academic_year_id from the
// request. Empty means "derive per record from the class-name suffix".
func (s *importService) resolveYearID(ctx context.Context, id string) (*string, error) {
	if id == "" {
		return nil, nil
	}
	if _, err := s.repo.AcademicYear.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		return nil, err
	}
	return &id, nil
}

func (s *importService) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, availabilityCachePrefix)
}

// buildSchedule maps one reduced record onto the storage model.
func buildSchedule(rec ingest.Record, courseID, yearID, operatorID *string) *model.ClassSchedule {
	slots := make([]model.TimeSlot, 0, len(rec.Slots))
	for _, s := range rec.Slots {
		slots = append(slots, model.TimeSlot{
			DayOfWeek:    s.DayOfWeek,
			TimeSlotCode: s.TimeSlotCode,
			RoomName:     s.RoomName,
			BuildingName: s.BuildingName,
			StartDate:    s.StartDate,
			EndDate:      s.EndDate,
		})
	}

	schedule := &model.ClassSchedule{
		ClassName:             rec.ClassName,
		Semester:              rec.Semester,
		ClassType:             rec.ClassType,
		StudentCount:          rec.StudentCount,
		TheoryHours:           rec.TheoryHours,
		ActualHours:           rec.ActualHours,
		CrowdClassCoefficient: rec.CrowdClassCoefficient,
		OvertimeCoefficient:   rec.OvertimeCoefficient,
		StandardHours:         rec.StandardHours,
		StartDate:             rec.StartDate,
		EndDate:               rec.EndDate,
		CourseID:              courseID,
		AcademicYearID:        yearID,
		DetailTimeSlots:       datatypes.JSONSlice[model.TimeSlot](slots),
	}
	if rec.LecturerName != "" {
		lecturer := rec.LecturerName
		schedule.LecturerName = &lecturer
	}
	schedule.CreatedBy = operatorID
	schedule.UpdatedBy = operatorID
	return schedule
}

// rowData echoes the identifying cells of a failed row back to the
// operator.
func rowData(rec ingest.Record) string {
	parts := make([]string, 0, 2)
	if rec.CourseCode != "" {
		parts = append(parts, rec.CourseCode)
	}
	if rec.ClassName != "" {
		parts = append(parts, rec.ClassName)
	}
	return strings.Join(parts, " | ")
}

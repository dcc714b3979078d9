package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vietbevis/kma-training-support-sub000/internal/ingest"
	"github.com/vietbevis/kma-training-support-sub000/internal/model"
	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
)

// reconciliation is the planned outcome of matching a batch of records
// against existing courses and academic years. Ids for to-be-created
// rows are minted up front so same-batch duplicates reuse one new row,
// and flush happens once, inside the import transaction, before any
// schedule is persisted.
type reconciliation struct {
	courseIDs []*string // per record index
	yearIDs   []*string

	newCourses []model.Course
	newYears   []model.AcademicYear
}

func courseNameKey(name, semester string, credits int) string {
	return fmt.Sprintf("%s|%s|%d", name, semester, credits)
}

// planReconciliation pre-loads candidate courses (by code and by
// canonical name) and academic years (by token) as batched IN-queries
// issued concurrently, then resolves every record:
// name+semester+credits match first, course code second, create last.
// defaultYearID, when set, fills records without a year token.
func planReconciliation(ctx context.Context, repo *repository.Repository, records []ingest.Record, defaultYearID *string, operatorID *string) (*reconciliation, error) {
	codeSet := make(map[string]bool)
	nameSet := make(map[string]bool)
	tokenSet := make(map[string]bool)
	for _, rec := range records {
		if rec.CourseCode != "" {
			codeSet[rec.CourseCode] = true
		}
		if rec.CanonicalName != "" {
			nameSet[rec.CanonicalName] = true
		}
		if rec.YearToken != "" {
			tokenSet[rec.YearToken] = true
		}
	}

	var (
		byCode    []model.Course
		byName    []model.Course
		yearsList []model.AcademicYear
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byCode, err = repo.Course.ListByCodes(gctx, keys(codeSet))
		return err
	})
	g.Go(func() error {
		var err error
		byName, err = repo.Course.ListByNames(gctx, keys(nameSet))
		return err
	})
	g.Go(func() error {
		var err error
		yearsList, err = repo.AcademicYear.ListByCodes(gctx, keys(tokenSet))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("preload reconciliation candidates: %w", err)
	}

	courseByKey := make(map[string]string)
	courseByCode := make(map[string]string)
	for _, c := range byName {
		courseByKey[courseNameKey(c.CourseName, c.Semester, c.Credits)] = c.CourseID
	}
	for _, c := range byCode {
		if c.CourseCode != nil {
			courseByCode[*c.CourseCode] = c.CourseID
		}
	}
	yearByToken := make(map[string]string)
	for _, y := range yearsList {
		yearByToken[y.YearCode] = y.AcademicYearID
	}

	plan := &reconciliation{
		courseIDs: make([]*string, len(records)),
		yearIDs:   make([]*string, len(records)),
	}

	for i, rec := range records {
		// ── course ──
		if rec.CanonicalName != "" || rec.CourseCode != "" {
			nameKey := courseNameKey(rec.CanonicalName, rec.Semester, rec.Credits)
			switch {
			case rec.CanonicalName != "" && courseByKey[nameKey] != "":
				id := courseByKey[nameKey]
				plan.courseIDs[i] = &id
			case rec.CourseCode != "" && courseByCode[rec.CourseCode] != "":
				id := courseByCode[rec.CourseCode]
				plan.courseIDs[i] = &id
			default:
				id := uuid.NewString()
				course := model.Course{
					CourseID:   id,
					CourseName: rec.CanonicalName,
					Semester:   rec.Semester,
					Credits:    rec.Credits,
				}
				if course.CourseName == "" {
					course.CourseName = rec.CourseCode
				}
				if rec.CourseCode != "" {
					code := rec.CourseCode
					course.CourseCode = &code
					courseByCode[code] = id
				}
				course.CreatedBy = operatorID
				course.UpdatedBy = operatorID
				plan.newCourses = append(plan.newCourses, course)
				// register so same-batch duplicates reuse this row
				courseByKey[courseNameKey(course.CourseName, course.Semester, course.Credits)] = id
				plan.courseIDs[i] = &id
			}
		}

		// ── academic year ──
		switch {
		case rec.YearToken != "":
			if id, ok := yearByToken[rec.YearToken]; ok {
				yid := id
				plan.yearIDs[i] = &yid
			} else {
				id := uuid.NewString()
				year := model.AcademicYear{AcademicYearID: id, YearCode: rec.YearToken}
				fmt.Sscanf(rec.YearToken, "%d-%d", &year.StartYear, &year.EndYear)
				year.CreatedBy = operatorID
				year.UpdatedBy = operatorID
				plan.newYears = append(plan.newYears, year)
				yearByToken[rec.YearToken] = id
				plan.yearIDs[i] = &id
			}
		case defaultYearID != nil:
			plan.yearIDs[i] = defaultYearID
		}
	}

	return plan, nil
}

// flush inserts the queued courses and years in two batch writes.
// Must run inside the import transaction, before schedule writes.
func (p *reconciliation) flush(ctx context.Context, repo *repository.Repository) error {
	if err := repo.Course.BatchCreate(ctx, p.newCourses); err != nil {
		return fmt.Errorf("batch create courses: %w", err)
	}
	if err := repo.AcademicYear.BatchCreate(ctx, p.newYears); err != nil {
		return fmt.Errorf("batch create academic years: %w", err)
	}
	return nil
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

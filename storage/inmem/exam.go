package inmemdb

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/exam"
)

type examRepository struct {
	db *DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db}
}

func examID(e exam.Exam) core.ID { return e.ID }

func (repo *examRepository) List(_ context.Context, filter exam.QueryFilter) ([]exam.Exam, error) {
	repo.db.exam.RLock()
	defer repo.db.exam.RUnlock()
	return exam.Filter(repo.db.exam.all(), filter), nil
}

func (repo *examRepository) Get(_ context.Context, id core.ID) (exam.Exam, error) {
	repo.db.exam.RLock()
	defer repo.db.exam.RUnlock()

	if i := repo.db.exam.index(id, examID); i >= 0 {
		return repo.db.exam.rows[i], nil
	}
	return exam.Exam{}, notFound("exam")
}

func (repo *examRepository) Create(ctx context.Context, ne exam.NewExam) (exam.Exam, error) {
	if !repo.db.courseExists(ne.CourseID) {
		return exam.Exam{}, unknownCourse()
	}
	e := exam.Exam{
		ID:              newID(),
		Title:           ne.Title,
		CourseID:        ne.CourseID,
		ClassroomID:     ne.ClassroomID,
		Status:          exam.Statuses.Normalize(ne.Status),
		StartsAt:        ne.StartsAt.UTC(),
		DurationMinutes: ne.DurationMinutes,
	}
	repo.db.exam.Lock()
	repo.db.exam.rows = append(repo.db.exam.rows, e)
	repo.db.exam.Unlock()

	repo.db.record(ctx, "exam.create", "exam:"+e.Title, "")
	return e, nil
}

func (repo *examRepository) Update(ctx context.Context, id core.ID, ue exam.UpdateExam) (exam.Exam, error) {
	repo.db.exam.Lock()
	i := repo.db.exam.index(id, examID)
	if i < 0 {
		repo.db.exam.Unlock()
		return exam.Exam{}, notFound("exam")
	}
	e := repo.db.exam.rows[i]
	if ue.Title != "" {
		e.Title = ue.Title
	}
	if ue.ClassroomID != "" {
		e.ClassroomID = ue.ClassroomID
	}
	if ue.Status != "" {
		e.Status = exam.Statuses.Normalize(ue.Status)
	}
	if ue.StartsAt != nil {
		e.StartsAt = ue.StartsAt.UTC()
	}
	if ue.DurationMinutes != 0 {
		e.DurationMinutes = ue.DurationMinutes
	}
	repo.db.exam.rows[i] = e
	repo.db.exam.Unlock()

	repo.db.record(ctx, "exam.update", "exam:"+e.Title, "")
	return e, nil
}

func (repo *examRepository) Delete(ctx context.Context, id core.ID) error {
	repo.db.exam.Lock()
	i := repo.db.exam.index(id, examID)
	if i < 0 {
		repo.db.exam.Unlock()
		return notFound("exam")
	}
	title := repo.db.exam.rows[i].Title
	repo.db.exam.remove(i)
	repo.db.exam.Unlock()

	repo.db.record(ctx, "exam.delete", "exam:"+title, "")
	return nil
}

// Import reads title, course_id, starts_at (RFC 3339), duration_minutes and optional classroom_id columns.
func (repo *examRepository) Import(ctx context.Context, filename string, content io.Reader) (exam.ImportReport, error) {
	rows, err := readCSV(filename, content, "title", "course_id", "starts_at", "duration_minutes")
	if err != nil {
		return exam.ImportReport{}, err
	}

	var (
		report exam.ImportReport
		valid  []exam.Exam
	)
	for _, row := range rows {
		e, err := repo.examFromRow(row)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, exam.ImportRowError{Row: row.line, Error: importError(err)})
			continue
		}
		valid = append(valid, e)
	}
	repo.db.exam.Lock()
	repo.db.exam.rows = append(repo.db.exam.rows, valid...)
	repo.db.exam.Unlock()
	report.Created = len(valid)

	repo.db.record(ctx, "exam.import", filename, fmt.Sprintf("%d created, %d failed", report.Created, report.Failed))
	return report, nil
}

func (repo *examRepository) examFromRow(row csvRow) (exam.Exam, error) {
	e := exam.Exam{
		ID:          newID(),
		Title:       row.get("title"),
		CourseID:    core.ID(row.get("course_id")),
		ClassroomID: core.ID(row.get("classroom_id")),
		Status:      exam.StatusScheduled,
	}
	if e.Title == "" {
		return e, errors.New("title is required")
	}
	if !repo.db.courseExists(e.CourseID) {
		return e, unknownCourse()
	}
	startsAt, err := time.Parse(time.RFC3339, row.get("starts_at"))
	if err != nil {
		return e, errors.New("starts_at must be an RFC 3339 date")
	}
	e.StartsAt = startsAt.UTC()
	if e.DurationMinutes, err = strconv.Atoi(row.get("duration_minutes")); err != nil || e.DurationMinutes < 1 {
		return e, errors.New("duration_minutes must be a positive number")
	}
	return e, nil
}

// StudentExams answers the exams a student can sit: scheduled or live ones, soonest first.
func (repo *examRepository) StudentExams(ctx context.Context) ([]exam.Exam, error) {
	if _, err := (&authRepository{db: repo.db}).verify(repo.db.token(ctx)); err != nil {
		return nil, err
	}
	repo.db.exam.RLock()
	defer repo.db.exam.RUnlock()

	exams := make([]exam.Exam, 0)
	for _, e := range repo.db.exam.rows {
		if st := exam.Statuses.Normalize(e.Status); st == exam.StatusScheduled || st == exam.StatusLive {
			exams = append(exams, e)
		}
	}
	sort.SliceStable(exams, func(i, j int) bool { return exams[i].StartsAt.Before(exams[j].StartsAt) })
	return exams, nil
}

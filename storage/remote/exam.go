package remoterepos

import (
	"context"
	"io"
	"net/http"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/exam"
)

const (
	examsPath        = "/admin/exams"
	studentExamsPath = "/api/student/exams"
)

type examRepository struct {
	c *client.Client
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func (r *Repos) Exams() exam.Repository { return &examRepository{c: r.c} }

func (repo *examRepository) List(ctx context.Context, filter exam.QueryFilter) ([]exam.Exam, error) {
	var out exam.Exams
	err := repo.c.JSON(ctx, client.Request{Path: examsPath, Query: filter.Values()}, &out)
	return out.Exams, err
}

func (repo *examRepository) Get(ctx context.Context, id core.ID) (exam.Exam, error) {
	return repo.one(ctx, client.Request{Path: resource(examsPath, id)})
}

func (repo *examRepository) Create(ctx context.Context, ne exam.NewExam) (exam.Exam, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPost, Path: examsPath, JSON: ne})
}

func (repo *examRepository) Update(ctx context.Context, id core.ID, ue exam.UpdateExam) (exam.Exam, error) {
	return repo.one(ctx, client.Request{Method: http.MethodPatch, Path: resource(examsPath, id), JSON: ue})
}

func (repo *examRepository) Delete(ctx context.Context, id core.ID) error {
	_, err := repo.c.Do(ctx, client.Request{Method: http.MethodDelete, Path: resource(examsPath, id)})
	return err
}

func (repo *examRepository) Import(ctx context.Context, filename string, content io.Reader) (exam.ImportReport, error) {
	var report exam.ImportReport
	err := repo.c.JSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   examsPath + "/import",
		Form:   client.NewFileForm("file", filename, content),
	}, &report)
	return report, err
}

func (repo *examRepository) StudentExams(ctx context.Context) ([]exam.Exam, error) {
	var out exam.Exams
	err := repo.c.JSON(ctx, client.Request{Path: studentExamsPath}, &out)
	return out.Exams, err
}

func (repo *examRepository) one(ctx context.Context, req client.Request) (exam.Exam, error) {
	var out struct {
		Exam exam.Exam `json:"exam"`
	}
	err := repo.c.JSON(ctx, req, &out)
	return out.Exam, err
}

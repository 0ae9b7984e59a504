package exam

import (
	"strings"

	"github.com/trezcool/proctor/core"
)

// Filter keeps the exams matching every present criterion, in their original order.
func Filter(exams []Exam, qf QueryFilter) []Exam {
	if qf.IsEmpty() {
		return exams
	}
	return core.FilterSlice(exams, func(e Exam) bool { return Match(e, qf) })
}

func Match(e Exam, qf QueryFilter) bool {
	if course := strings.TrimSpace(qf.CourseID); course != "" && !strings.EqualFold(e.CourseID.String(), course) {
		return false
	}
	return core.ContainsFold(qf.Search, e.Title) && Statuses.Match(e.Status, qf.Status)
}

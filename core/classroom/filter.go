package classroom

import (
	"strings"

	"github.com/trezcool/proctor/core"
)

// Filter keeps the classrooms whose name or location contains the search text and,
// when a course is given, that belong to it.
func Filter(rooms []Classroom, qf QueryFilter) []Classroom {
	if qf.IsEmpty() {
		return rooms
	}
	course := strings.TrimSpace(qf.CourseID)
	return core.FilterSlice(rooms, func(c Classroom) bool {
		if course != "" && !strings.EqualFold(c.CourseID.String(), course) {
			return false
		}
		return core.ContainsFold(qf.Search, c.Name, c.Location)
	})
}

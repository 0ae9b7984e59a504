package course

import "github.com/trezcool/proctor/core"

// Filter keeps the courses whose code, title or description contains the search text.
func Filter(courses []Course, qf QueryFilter) []Course {
	if qf.IsEmpty() {
		return courses
	}
	return core.FilterSlice(courses, func(c Course) bool {
		return core.ContainsFold(qf.Search, c.Code, c.Title, c.Description)
	})
}

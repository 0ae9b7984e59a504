package inmemdb

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/proctor/core/alert"
	"github.com/trezcool/proctor/core/audit"
	"github.com/trezcool/proctor/core/classroom"
	"github.com/trezcool/proctor/core/course"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/user"
)

// DemoPassword logs in every seeded active account.
const DemoPassword = "Proctor#2024"

func seed(db *DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return errors.Wrap(err, "hashing demo password")
	}
	now := db.now().UTC().Truncate(time.Minute)
	day := 24 * time.Hour

	users := []user.User{
		{ID: "1", Name: "Amani Kabila", Username: "admin", Email: "admin@proctor.test", Role: user.RoleAdmin, Status: user.StatusActive, Permissions: []string{"*"}},
		{ID: "2", Name: "Bea Tshala", Username: "bea", Email: "bea@proctor.test", Role: user.RoleProctor, Status: user.StatusActive, Permissions: []string{"alerts.resolve", "exams.read"}},
		{ID: "3", Name: "Chris Mbuyi", Username: "chris", Email: "chris@proctor.test", Role: user.RoleInstructor, Status: user.StatusActive},
		{ID: "4", Name: "Dede Lukusa", Username: "dede", Email: "dede@students.proctor.test", Role: user.RoleStudent, Status: user.StatusActive},
		{ID: "5", Name: "Eli Ngoy", Username: "eli", Email: "eli@students.proctor.test", Role: user.RoleStudent, Status: user.StatusSuspended},
		{ID: "6", Name: "Fifi Kanza", Username: "fifi", Email: "fifi@students.proctor.test", Role: user.RoleStudent, Status: user.StatusPending},
	}
	for i, usr := range users {
		usr.CreatedAt = now.Add(-time.Duration(90-i) * day)
		row := userRow{user: usr}
		if usr.Status != user.StatusPending {
			row.passwordHash = hash
		}
		db.user.rows = append(db.user.rows, row)
	}

	db.course.rows = []course.Course{
		{ID: "1", Code: "CS101", Title: "Introduction to Programming", Description: "Variables, control flow and functions", InstructorID: "3", CreatedAt: now.Add(-60 * day)},
		{ID: "2", Code: "MA201", Title: "Linear Algebra", Description: "Vectors, matrices and linear maps", InstructorID: "3", CreatedAt: now.Add(-58 * day)},
		{ID: "3", Code: "HI110", Title: "World History", CreatedAt: now.Add(-30 * day)},
	}

	db.classroom.rows = []classroom.Classroom{
		{ID: "1", Name: "Hall A", CourseID: "1", Capacity: 120, Location: "Main building, ground floor"},
		{ID: "2", Name: "Lab 3", CourseID: "1", Capacity: 30, Location: "Science block"},
		{ID: "3", Name: "Room 204", CourseID: "2", Capacity: 45, Location: "Main building, 2nd floor"},
	}

	db.exam.rows = []exam.Exam{
		{ID: "1", Title: "CS101 Midterm", CourseID: "1", ClassroomID: "1", Status: exam.StatusCompleted, StartsAt: now.Add(-14 * day), DurationMinutes: 90},
		{ID: "2", Title: "CS101 Lab quiz", CourseID: "1", ClassroomID: "2", Status: exam.StatusLive, StartsAt: now.Add(-30 * time.Minute), DurationMinutes: 60},
		{ID: "3", Title: "Linear Algebra Final", CourseID: "2", ClassroomID: "3", Status: exam.StatusScheduled, StartsAt: now.Add(7 * day), DurationMinutes: 180},
		{ID: "4", Title: "World History Essay", CourseID: "3", Status: exam.StatusDraft, StartsAt: now.Add(21 * day), DurationMinutes: 120},
	}

	resolvedAt := now.Add(-13 * day)
	db.alert.rows = []alert.Alert{
		{ID: "1", Title: "Face not detected", Message: "No face in frame for 45 seconds", Severity: alert.SeverityHigh, Status: alert.StatusOpen, StudentID: "4", ExamID: "2", CreatedAt: now.Add(-10 * time.Minute)},
		{ID: "2", Title: "Tab switch", Message: "Student left the exam window", Severity: alert.SeverityMedium, Status: alert.StatusOpen, StudentID: "4", ExamID: "2", CreatedAt: now.Add(-5 * time.Minute)},
		{ID: "3", Title: "Second person detected", Message: "Two faces in frame", Severity: alert.SeverityCritical, Status: alert.StatusResolved, StudentID: "5", ExamID: "1", CreatedAt: now.Add(-14 * day), ResolvedAt: &resolvedAt, ResolvedBy: "bea", Note: "sibling walked in, no exchange"},
		{ID: "4", Title: "Audio spike", Message: "Sustained speech detected", Severity: alert.SeverityLow, Status: alert.StatusOpen, StudentID: "5", ExamID: "2", CreatedAt: now.Add(-2 * time.Minute)},
	}

	db.audit.rows = []audit.Event{
		{ID: "1", Actor: "admin", Action: "course.create", Target: "course:CS101", IP: "10.0.0.4", CreatedAt: now.Add(-60 * day)},
		{ID: "2", Actor: "admin", Action: "user.status", Target: "user:eli", Details: user.StatusSuspended, IP: "10.0.0.4", CreatedAt: now.Add(-13 * day)},
		{ID: "3", Actor: "bea", Action: "alert.resolve", Target: "alert:3", Details: "sibling walked in, no exchange", IP: "10.0.0.9", CreatedAt: resolvedAt},
		{ID: "4", Actor: "chris", Action: "exam.create", Target: "exam:Linear Algebra Final", IP: "10.0.0.7", CreatedAt: now.Add(-2 * day)},
	}
	return nil
}

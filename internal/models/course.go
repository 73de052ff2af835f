package models

import "time"

// Semester identifies the academic term within a year.
type Semester string

const (
	SemesterA Semester = "A"
	SemesterB Semester = "B"
)

// Valid reports whether the semester is one of the two academic terms.
func (s Semester) Valid() bool {
	return s == SemesterA || s == SemesterB
}

// Course is a teachable unit. Prerequisite edges are stored as course codes
// rather than foreign keys so seed data can reference courses loaded later.
type Course struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Name          string    `db:"name" json:"name"`
	Credits       int       `db:"credits" json:"credits"`
	TheoryHours   int       `db:"theory_hours" json:"theory_hours"`
	PracticeHours int       `db:"practice_hours" json:"practice_hours"`
	LabHours      int       `db:"lab_hours" json:"lab_hours"`
	StudentCount  int       `db:"student_count" json:"student_count"`
	ClassroomType RoomType  `db:"classroom_type" json:"classroom_type"`
	Year          int       `db:"year" json:"year"`
	Semester      Semester  `db:"semester" json:"semester"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	Prerequisites []string `db:"-" json:"prerequisites"`
	ProfessorIDs  []string `db:"-" json:"professor_ids"`
}

// CoursePrerequisite is a stored prerequisite edge.
type CoursePrerequisite struct {
	ID               string `db:"id" json:"id"`
	CourseID         string `db:"course_id" json:"course_id"`
	PrerequisiteCode string `db:"prerequisite_code" json:"prerequisite_code"`
}

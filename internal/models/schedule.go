package models

import "time"

// Schedule is a reconciled solver session persisted against canonical
// entity identities.
type Schedule struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	ProfessorID  string    `db:"professor_id" json:"professor_id"`
	ClassroomID  string    `db:"classroom_id" json:"classroom_id"`
	TimeSlotID   string    `db:"time_slot_id" json:"time_slot_id"`
	StudentCount int       `db:"student_count" json:"student_count"`
	Semester     Semester  `db:"semester" json:"semester"`
	Year         int       `db:"year" json:"year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

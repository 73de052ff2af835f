package models

import "time"

// PreferredShift captures a professor's teaching-time preference.
type PreferredShift string

const (
	ShiftMorning     PreferredShift = "morning"
	ShiftAfternoon   PreferredShift = "afternoon"
	ShiftIndifferent PreferredShift = "indifferent"
)

// Professor is a teaching staff member.
type Professor struct {
	ID             string          `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Email          string          `db:"email" json:"email"`
	PreferredShift *PreferredShift `db:"preferred_shift" json:"preferred_shift,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// ProfessorAvailability links a professor to a time slot they can teach in.
// The (professor_id, time_slot_id) pair is unique.
type ProfessorAvailability struct {
	ID          string `db:"id" json:"id"`
	ProfessorID string `db:"professor_id" json:"professor_id"`
	TimeSlotID  string `db:"time_slot_id" json:"time_slot_id"`
}

// ProfessorCourse links a professor to a course they may teach.
type ProfessorCourse struct {
	ProfessorID string `db:"professor_id" json:"professor_id"`
	CourseID    string `db:"course_id" json:"course_id"`
}

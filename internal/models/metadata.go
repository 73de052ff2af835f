package models

// UniversityMetadata describes the institution and the shape of its
// teaching day. It is emitted verbatim in the solver snapshot.
type UniversityMetadata struct {
	ID               string    `db:"id" json:"-"`
	UniversityName   string    `db:"university_name" json:"university_name"`
	SchoolName       string    `db:"school_name" json:"school_name"`
	SemesterCode     string    `db:"semester_code" json:"semester_code"`
	CurriculumName   string    `db:"curriculum_name" json:"curriculum_name"`
	BlockDurationMin int       `db:"block_duration_min" json:"block_duration_min"`
	DayStartTime     TimeOfDay `db:"day_start_time" json:"day_start_time"`
	DayEndTime       TimeOfDay `db:"day_end_time" json:"day_end_time"`
}

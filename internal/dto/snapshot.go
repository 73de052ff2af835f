package dto

import "github.com/acad-scheduler/timetable-api/internal/models"

// ProblemInstance is the immutable, solver-ready aggregate for one term.
// Field order and collection ordering are deterministic so that repeated
// builds over unchanged repository state serialize byte-identically.
type ProblemInstance struct {
	Metadata       SnapshotMetadata    `json:"metadata"`
	Periods        []SnapshotPeriod    `json:"periods"`
	Classrooms     []SnapshotClassroom `json:"classrooms"`
	Professors     []SnapshotProfessor `json:"professors"`
	Courses        []SnapshotCourse    `json:"courses"`
	Curricula      map[string][]string `json:"curricula"`
	Preferences    SnapshotPreferences `json:"preferences"`
	Weights        SnapshotWeights     `json:"weights"`
	AdvancedConfig map[string]any      `json:"advanced_config,omitempty"`
}

// SnapshotMetadata mirrors the university metadata block.
type SnapshotMetadata struct {
	UniversityName   string           `json:"university_name"`
	SchoolName       string           `json:"school_name"`
	SemesterCode     string           `json:"semester_code"`
	CurriculumName   string           `json:"curriculum_name"`
	BlockDurationMin int              `json:"block_duration_min"`
	DayStartTime     models.TimeOfDay `json:"day_start_time"`
	DayEndTime       models.TimeOfDay `json:"day_end_time"`
}

// SnapshotPeriod is one canonical teaching period.
type SnapshotPeriod struct {
	DayOfWeek string           `json:"day_of_week"`
	StartTime models.TimeOfDay `json:"start_time"`
	EndTime   models.TimeOfDay `json:"end_time"`
}

// SnapshotClassroom describes an available room.
type SnapshotClassroom struct {
	RoomCode string `json:"room_code"`
	RoomName string `json:"room_name"`
	RoomType string `json:"room_type"`
	Capacity int    `json:"capacity"`
}

// SnapshotProfessor carries a professor with availability and teachable
// courses.
type SnapshotProfessor struct {
	ProfessorID    string           `json:"professor_id"`
	Name           string           `json:"name"`
	PreferredShift string           `json:"preferred_shift,omitempty"`
	Courses        []string         `json:"courses"`
	Availabilities []SnapshotPeriod `json:"availabilities"`
}

// SnapshotCourseHours splits weekly hours by session kind.
type SnapshotCourseHours struct {
	Theory   int `json:"theory"`
	Practice int `json:"practice"`
	Lab      int `json:"lab"`
}

// SnapshotCourse is a course filtered for the requested term.
type SnapshotCourse struct {
	CourseCode    string              `json:"course_code"`
	CourseName    string              `json:"course_name"`
	Credits       int                 `json:"credits"`
	Hours         SnapshotCourseHours `json:"hours"`
	Prerequisites []string            `json:"prerequisites"`
	Professors    []string            `json:"professors"`
	ClassroomType string              `json:"classroom_type"`
	StudentCount  int                 `json:"student_count"`
	Year          int                 `json:"year"`
}

// SnapshotPreferences is the fixed preference block consumed by the solver.
type SnapshotPreferences struct {
	PreferredShift string   `json:"preferred_shift"`
	PreferredDays  []string `json:"preferred_days"`
	PreferredSlots []string `json:"preferred_slots"`
}

// SnapshotWeight is one tunable constraint weight.
type SnapshotWeight struct {
	ConstraintName string  `json:"constraint_name"`
	WeightValue    float64 `json:"weight_value"`
}

// SnapshotWeights partitions weights by constraint class.
type SnapshotWeights struct {
	HardConstraints []SnapshotWeight `json:"hard_constraints"`
	SoftConstraints []SnapshotWeight `json:"soft_constraints"`
}

package models

import "time"

// RoomType categorizes classrooms for course placement.
type RoomType string

const (
	RoomTypeTheory   RoomType = "THEORY"
	RoomTypePractice RoomType = "PRACTICE"
	RoomTypeLab      RoomType = "LAB"
)

// Classroom is a physical room with a capacity constraint.
type Classroom struct {
	ID        string    `db:"id" json:"id"`
	RoomCode  string    `db:"room_code" json:"room_code"`
	RoomName  string    `db:"room_name" json:"room_name"`
	RoomType  RoomType  `db:"room_type" json:"room_type"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

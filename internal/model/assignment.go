package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links a mentor to a student. At most one active assignment
// exists per (mentor, student) pair; removal is a hard delete.
type Assignment struct {
	ID         uuid.UUID `json:"id"`
	MentorID   uuid.UUID `json:"mentor_id"`
	StudentID  uuid.UUID `json:"student_id"`
	AssignedBy string    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

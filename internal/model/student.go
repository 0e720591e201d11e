package model

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID        uuid.UUID `json:"id"`
	ChapterID uuid.UUID `json:"chapter_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentOption is the list entry shown when picking a student for a mentor.
type StudentOption struct {
	Student         Student `json:"student"`
	AlreadyAssigned bool    `json:"already_assigned"`
}

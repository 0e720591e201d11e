package model

import (
	"time"

	"github.com/google/uuid"
)

type Mentor struct {
	ID        uuid.UUID  `json:"id"`
	ChapterID uuid.UUID  `json:"chapter_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	EndDate   *time.Time `json:"end_date"` // nil while the mentor is active in the chapter
	CreatedAt time.Time  `json:"created_at"`
}

// Active reports whether the mentor is still active in their chapter.
func (m Mentor) Active() bool {
	return m.EndDate == nil
}

// MentorOption is the list entry shown when picking a mentor for a student.
// Already-assigned mentors are surfaced ahead of the eligible pool.
type MentorOption struct {
	Mentor          Mentor `json:"mentor"`
	AlreadyAssigned bool   `json:"already_assigned"`
}

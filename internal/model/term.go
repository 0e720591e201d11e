package model

import (
	"time"

	"github.com/google/uuid"
)

// Term is a school term; the unit used to generate the weekly session calendar.
type Term struct {
	ID        uuid.UUID `json:"id"`
	Year      int       `json:"year"`
	Label     string    `json:"label"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Contains reports whether d falls inside the term's [start, end] range.
func (t Term) Contains(d time.Time) bool {
	return !d.Before(t.StartDate) && !d.After(t.EndDate)
}

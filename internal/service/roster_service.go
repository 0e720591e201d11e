package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chapterly/mentorhub/internal/model"
)

// RosterService renders the read-only per-term roster grid handed to the
// spreadsheet export layer: one row per active mentor, one occupancy label
// per session date.
type RosterService struct {
	mentors  MentorStore
	sessions SessionStore
}

func NewRosterService(mentors MentorStore, sessions SessionStore) *RosterService {
	return &RosterService{mentors: mentors, sessions: sessions}
}

// ProjectRoster builds the grid for every active mentor in the chapter across
// the term's session dates. Cells read: "" when the mentor holds no session,
// "Available" for an unbooked shell, the student's name for a single booking
// and "<n> Students" for more.
func (s *RosterService) ProjectRoster(ctx context.Context, chapterID uuid.UUID, term model.Term) ([]model.RosterRow, error) {
	dates := DatesForTerm(term.StartDate, term.EndDate)

	mentors, err := s.mentors.ListActiveByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list active mentors: %w", err)
	}

	occupancies, err := s.sessions.Occupancy(ctx, chapterID, DateOnly(term.StartDate), DateOnly(term.EndDate))
	if err != nil {
		return nil, fmt.Errorf("load occupancy: %w", err)
	}

	type cellKey struct {
		mentorID uuid.UUID
		date     string
	}
	byCell := make(map[cellKey]model.SessionOccupancy, len(occupancies))
	for _, occ := range occupancies {
		byCell[cellKey{occ.MentorID, occ.AttendedOn.Format("2006-01-02")}] = occ
	}

	rows := make([]model.RosterRow, 0, len(mentors))
	for _, m := range mentors {
		row := model.RosterRow{
			MentorID:   m.ID,
			MentorName: m.Name,
			Cells:      make([]string, len(dates)),
		}
		for i, d := range dates {
			occ, ok := byCell[cellKey{m.ID, d.Format("2006-01-02")}]
			if !ok {
				continue
			}
			row.Cells[i] = occupancyLabel(occ)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func occupancyLabel(occ model.SessionOccupancy) string {
	switch n := len(occ.StudentNames); n {
	case 0:
		return "Available"
	case 1:
		return occ.StudentNames[0]
	default:
		return fmt.Sprintf("%d Students", n)
	}
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chapterly/mentorhub/internal/model"
)

// Store interfaces are satisfied by the repository package against Postgres
// and by in-memory fakes in tests. Implementations return apperr.ErrNotFound
// for missing rows and apperr.ErrConflict for unique-index violations; the
// conflict detection belongs to the store because read-then-write checks are
// racy across processes.

type TermStore interface {
	List(ctx context.Context) ([]model.Term, error)
}

type MentorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Mentor, error)
	ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Mentor, error)
	ListActiveByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Mentor, error)
}

type StudentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Student, error)
}

type AssignmentStore interface {
	Create(ctx context.Context, a *model.Assignment) error
	Delete(ctx context.Context, mentorID, studentID uuid.UUID) error
	MentorIDsForStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error)
	StudentIDsForMentor(ctx context.Context, mentorID uuid.UUID) ([]uuid.UUID, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *model.Session) error

	// CreateSessionWithBooking atomically inserts a shell and its first
	// booking. A conflict on either unique index rolls back both, so a
	// refused booking never leaves an empty shell holding the mentor's date.
	CreateSessionWithBooking(ctx context.Context, s *model.Session, b *model.StudentSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error)
	SessionByMentorDate(ctx context.Context, chapterID, mentorID uuid.UUID, attendedOn time.Time) (*model.Session, error)
	UpdateSessionMentor(ctx context.Context, id, newMentorID uuid.UUID) error
	UpdateSessionStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error
	SessionsByChapterDate(ctx context.Context, chapterID uuid.UUID, attendedOn time.Time) ([]model.Session, error)

	CreateBooking(ctx context.Context, b *model.StudentSession) error
	GetBooking(ctx context.Context, id uuid.UUID) (*model.StudentSession, error)
	UpdateBooking(ctx context.Context, b *model.StudentSession) error
	BookingsBySession(ctx context.Context, sessionID uuid.UUID) ([]model.StudentSession, error)
	BookingsByChapterDate(ctx context.Context, chapterID uuid.UUID, attendedOn time.Time) ([]model.StudentSession, error)

	// RemoveBookingCascade atomically deletes the booking and, when no
	// sibling bookings remain, the parent session shell. Reports whether the
	// shell was deleted.
	RemoveBookingCascade(ctx context.Context, bookingID uuid.UUID) (bool, error)

	Occupancy(ctx context.Context, chapterID uuid.UUID, from, to time.Time) ([]model.SessionOccupancy, error)
}

type CancelReasonStore interface {
	List(ctx context.Context) ([]model.CancelReason, error)
	GetByID(ctx context.Context, id int64) (*model.CancelReason, error)
}

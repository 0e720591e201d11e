package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusAvailable SessionStatus = "AVAILABLE" // mentor holds the date, no student booked
	SessionStatusBooked    SessionStatus = "BOOKED"
)

// Session is the occurrence shell: one mentor on one calendar date within a
// chapter. Student bookings hang off it as StudentSession rows. AttendedOn is
// stored as UTC midnight.
type Session struct {
	ID         uuid.UUID     `json:"id"`
	ChapterID  uuid.UUID     `json:"chapter_id"`
	MentorID   uuid.UUID     `json:"mentor_id"`
	AttendedOn time.Time     `json:"attended_on"`
	Status     SessionStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

type CancelParty string

const (
	CancelledByMentor  CancelParty = "MENTOR"
	CancelledByStudent CancelParty = "STUDENT"
)

// StudentSession is one student's booking under a session shell, carrying the
// report document and its completion/sign-off stamps. ChapterID and AttendedOn
// are denormalised from the parent so the one-booking-per-student-per-date rule
// can live in a database unique index.
type StudentSession struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	ChapterID  uuid.UUID `json:"chapter_id"`
	StudentID  uuid.UUID `json:"student_id"`
	AttendedOn time.Time `json:"attended_on"`

	Report            *string    `json:"report"`
	ReportFeedback    *string    `json:"report_feedback"`
	CompletedOn       *time.Time `json:"completed_on"`
	SignedOffOn       *time.Time `json:"signed_off_on"`
	SignedOffBy       *string    `json:"signed_off_by"`
	WrittenOnBehalfBy *string    `json:"written_on_behalf_by"`

	IsCancelled             bool         `json:"is_cancelled"`
	CancelledBy             *CancelParty `json:"cancelled_by"`
	CancelledReasonID       *int64       `json:"cancelled_reason_id"`
	CancelledExtendedReason *string      `json:"cancelled_extended_reason"`
	CancelledAt             *time.Time   `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
}

type ReportState string

const (
	ReportStateNone      ReportState = "NONE"
	ReportStateDraft     ReportState = "DRAFT"
	ReportStateCompleted ReportState = "COMPLETED"
	ReportStateSignedOff ReportState = "SIGNED_OFF"
)

// ReportStateOf derives the report state from the completion and sign-off
// stamps. The state is never stored; deriving it keeps a single source of
// truth.
func ReportStateOf(ss StudentSession) ReportState {
	switch {
	case ss.SignedOffOn != nil:
		return ReportStateSignedOff
	case ss.CompletedOn != nil:
		return ReportStateCompleted
	case ss.Report != nil:
		return ReportStateDraft
	default:
		return ReportStateNone
	}
}

// SessionDetail is the read model for the session screen: the shell with its
// bookings preloaded.
type SessionDetail struct {
	Session  Session          `json:"session"`
	Bookings []StudentSession `json:"bookings"`
}

// SessionOccupancy is the read model behind the roster export: one mentor's
// shell on one date with the booked students' display names.
type SessionOccupancy struct {
	MentorID     uuid.UUID `json:"mentor_id"`
	AttendedOn   time.Time `json:"attended_on"`
	StudentNames []string  `json:"student_names"`
}

// RosterRow is one exported roster line: a mentor and one occupancy label per
// session date of the term.
type RosterRow struct {
	MentorID   uuid.UUID `json:"mentor_id"`
	MentorName string    `json:"mentor_name"`
	Cells      []string  `json:"cells"`
}

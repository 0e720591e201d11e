package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
)

// SessionService is the lifecycle engine for session occurrences: booking a
// mentor (and optionally a student) onto a date, reassigning, cancelling,
// restoring and the cascade that removes an emptied shell.
type SessionService struct {
	sessions SessionStore
	reasons  CancelReasonStore
	logger   *zap.Logger
}

func NewSessionService(sessions SessionStore, reasons CancelReasonStore, logger *zap.Logger) *SessionService {
	return &SessionService{sessions: sessions, reasons: reasons, logger: logger}
}

// Create books a mentor onto a date, optionally with a student. When the
// mentor already holds a shell on the date, a new student joins it as a
// sibling booking; a second studentless booking for the same mentor is a
// conflict, as is any second booking for the student that day.
func (s *SessionService) Create(ctx context.Context, chapterID, mentorID uuid.UUID, studentID *uuid.UUID, attendedOn time.Time) (*model.SessionDetail, error) {
	attendedOn = DateOnly(attendedOn)

	sess, err := s.sessions.SessionByMentorDate(ctx, chapterID, mentorID, attendedOn)
	switch {
	case err == nil:
		if studentID == nil {
			return nil, apperr.Conflictf("mentor already has a session on %s", attendedOn.Format("2006-01-02"))
		}
		return s.joinShell(ctx, sess, *studentID)
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return nil, err
	}

	if studentID == nil {
		sess = &model.Session{
			ID:         uuid.New(),
			ChapterID:  chapterID,
			MentorID:   mentorID,
			AttendedOn: attendedOn,
			Status:     model.SessionStatusAvailable,
		}
		if err := s.sessions.CreateSession(ctx, sess); err != nil {
			return nil, err
		}
		s.logBooked(sess, false)
		return &model.SessionDetail{Session: *sess}, nil
	}

	sess = &model.Session{
		ID:         uuid.New(),
		ChapterID:  chapterID,
		MentorID:   mentorID,
		AttendedOn: attendedOn,
		Status:     model.SessionStatusBooked,
	}
	booking := &model.StudentSession{
		ID:         uuid.New(),
		SessionID:  sess.ID,
		ChapterID:  chapterID,
		StudentID:  *studentID,
		AttendedOn: attendedOn,
	}

	// Shell and first booking go in together so a booking conflict cannot
	// strand an empty shell holding the mentor's date.
	createErr := s.sessions.CreateSessionWithBooking(ctx, sess, booking)
	if createErr == nil {
		s.logBooked(sess, true)
		return &model.SessionDetail{Session: *sess, Bookings: []model.StudentSession{*booking}}, nil
	}
	if !errors.Is(createErr, apperr.ErrConflict) {
		return nil, createErr
	}

	// Either another booking won the mentor's shell, or the student already
	// holds a booking that day. Joining the winning shell settles which.
	sess, err = s.sessions.SessionByMentorDate(ctx, chapterID, mentorID, attendedOn)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, createErr
	}
	if err != nil {
		return nil, err
	}
	return s.joinShell(ctx, sess, *studentID)
}

// joinShell books a student onto an existing shell as a sibling booking,
// flipping an available shell to booked.
func (s *SessionService) joinShell(ctx context.Context, sess *model.Session, studentID uuid.UUID) (*model.SessionDetail, error) {
	booking := &model.StudentSession{
		ID:         uuid.New(),
		SessionID:  sess.ID,
		ChapterID:  sess.ChapterID,
		StudentID:  studentID,
		AttendedOn: sess.AttendedOn,
	}
	if err := s.sessions.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	detail := &model.SessionDetail{Session: *sess, Bookings: []model.StudentSession{*booking}}
	if sess.Status == model.SessionStatusAvailable {
		if err := s.sessions.UpdateSessionStatus(ctx, sess.ID, model.SessionStatusBooked); err != nil {
			return nil, err
		}
		detail.Session.Status = model.SessionStatusBooked
	}

	s.logBooked(sess, true)
	return detail, nil
}

func (s *SessionService) logBooked(sess *model.Session, withStudent bool) {
	s.logger.Info("session booked",
		zap.String("session_id", sess.ID.String()),
		zap.String("mentor_id", sess.MentorID.String()),
		zap.Time("attended_on", sess.AttendedOn),
		zap.Bool("with_student", withStudent),
	)
}

// Get loads a session shell with its bookings.
func (s *SessionService) Get(ctx context.Context, sessionID uuid.UUID) (*model.SessionDetail, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.sessions.BookingsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	return &model.SessionDetail{Session: *sess, Bookings: bookings}, nil
}

// GetBooking loads a single student booking.
func (s *SessionService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*model.StudentSession, error) {
	return s.sessions.GetBooking(ctx, bookingID)
}

// ReassignMentor swaps the mentor on an existing shell in place, keeping the
// session identity so bookings and report history stay attached.
func (s *SessionService) ReassignMentor(ctx context.Context, sessionID, newMentorID uuid.UUID) (*model.Session, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.MentorID == newMentorID {
		return sess, nil
	}

	_, err = s.sessions.SessionByMentorDate(ctx, sess.ChapterID, newMentorID, sess.AttendedOn)
	switch {
	case err == nil:
		return nil, apperr.Conflictf("mentor already has a session on %s", sess.AttendedOn.Format("2006-01-02"))
	case errors.Is(err, apperr.ErrNotFound):
		// date is free for the new mentor
	default:
		return nil, err
	}

	if err := s.sessions.UpdateSessionMentor(ctx, sessionID, newMentorID); err != nil {
		return nil, err
	}

	s.logger.Info("session mentor reassigned",
		zap.String("session_id", sessionID.String()),
		zap.String("old_mentor_id", sess.MentorID.String()),
		zap.String("new_mentor_id", newMentorID.String()),
	)

	sess.MentorID = newMentorID
	return sess, nil
}

// Cancel marks a booking cancelled on behalf of the mentor or student side.
// A completed session cannot be cancelled. Cancelling an already-cancelled
// booking is a read-only no-op returning the stored cancellation, so a retry
// or a restore screen's pre-check never mutates timestamps.
func (s *SessionService) Cancel(ctx context.Context, bookingID uuid.UUID, by model.CancelParty, reasonID int64, extendedReason string) (*model.StudentSession, error) {
	b, err := s.sessions.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CompletedOn != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, apperr.ErrAlreadyCompleted)
	}
	if b.IsCancelled {
		return b, nil
	}

	if _, err := s.reasons.GetByID(ctx, reasonID); err != nil {
		return nil, err
	}

	now := nowFunc()
	b.IsCancelled = true
	b.CancelledBy = &by
	b.CancelledReasonID = &reasonID
	b.CancelledAt = &now
	b.CancelledExtendedReason = nil
	if extendedReason != "" {
		b.CancelledExtendedReason = &extendedReason
	}

	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("cancelled_by", string(by)),
		zap.Int64("reason_id", reasonID),
	)

	return b, nil
}

// Restore clears a booking's cancellation, returning it to the active state.
func (s *SessionService) Restore(ctx context.Context, bookingID uuid.UUID) (*model.StudentSession, error) {
	b, err := s.sessions.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsCancelled {
		return b, nil
	}

	b.IsCancelled = false
	b.CancelledBy = nil
	b.CancelledReasonID = nil
	b.CancelledExtendedReason = nil
	b.CancelledAt = nil

	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking restored", zap.String("booking_id", bookingID.String()))

	return b, nil
}

// RemoveStudentBooking unbooks a student. A completed session cannot be
// unbooked. When the last booking under a shell goes, the shell goes with it
// in the same transaction, so no empty mentor shell is left implying
// availability. Reports whether the shell was removed.
func (s *SessionService) RemoveStudentBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	b, err := s.sessions.GetBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if b.CompletedOn != nil {
		return false, fmt.Errorf("remove booking %s: %w", bookingID, apperr.ErrAlreadyCompleted)
	}

	sessionDeleted, err := s.sessions.RemoveBookingCascade(ctx, bookingID)
	if err != nil {
		return false, err
	}

	s.logger.Info("booking removed",
		zap.String("booking_id", bookingID.String()),
		zap.String("session_id", b.SessionID.String()),
		zap.Bool("session_deleted", sessionDeleted),
	)

	return sessionDeleted, nil
}

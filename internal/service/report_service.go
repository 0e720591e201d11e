package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
)

// BehalfAction selects which transition an admin performs when authoring a
// report on a mentor's behalf.
type BehalfAction string

const (
	BehalfDraft   BehalfAction = "draft"
	BehalfSignOff BehalfAction = "signoff"
)

// ReportService governs the report document attached to a student booking:
// draft, completion, admin feedback and sign-off. All writes are
// last-write-wins; concurrent edits on the same booking are not detected.
type ReportService struct {
	sessions SessionStore
	logger   *zap.Logger
}

func NewReportService(sessions SessionStore, logger *zap.Logger) *ReportService {
	return &ReportService{sessions: sessions, logger: logger}
}

// editable loads a booking and refuses report transitions on a cancelled or
// signed-off one. A sign-off freezes the report; RemoveSignOff is the unlock.
func (s *ReportService) editable(ctx context.Context, bookingID uuid.UUID) (*model.StudentSession, error) {
	b, err := s.sessions.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.IsCancelled {
		return nil, apperr.Conflictf("session is cancelled")
	}
	if b.SignedOffOn != nil {
		return nil, fmt.Errorf("edit booking %s: %w", bookingID, apperr.ErrAlreadySignedOff)
	}
	return b, nil
}

// SaveDraft stores the mentor's report text without completing it.
func (s *ReportService) SaveDraft(ctx context.Context, bookingID uuid.UUID, report string) (*model.StudentSession, error) {
	if strings.TrimSpace(report) == "" {
		return nil, apperr.NewValidationError("report cannot be blank",
			apperr.FieldError{Field: "report", Error: "report cannot be blank"})
	}

	b, err := s.editable(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	b.Report = &report
	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("report draft saved", zap.String("booking_id", bookingID.String()))

	return b, nil
}

// MarkCompleted stores the report and stamps it completed. A session that has
// not happened yet cannot be completed.
func (s *ReportService) MarkCompleted(ctx context.Context, bookingID uuid.UUID, report string) (*model.StudentSession, error) {
	if strings.TrimSpace(report) == "" {
		return nil, apperr.NewValidationError("report cannot be blank",
			apperr.FieldError{Field: "report", Error: "report cannot be blank"})
	}

	b, err := s.editable(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	if b.AttendedOn.After(DateOnly(now)) {
		return nil, fmt.Errorf("complete booking %s: %w", bookingID, apperr.ErrFutureSession)
	}

	b.Report = &report
	b.CompletedOn = &now
	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("report completed", zap.String("booking_id", bookingID.String()))

	return b, nil
}

// UnmarkCompleted reverts a completed report to draft. The sign-off has to be
// removed first.
func (s *ReportService) UnmarkCompleted(ctx context.Context, bookingID uuid.UUID) (*model.StudentSession, error) {
	b, err := s.editable(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	b.CompletedOn = nil
	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("report completion removed", zap.String("booking_id", bookingID.String()))

	return b, nil
}

// SignOff records the admin's feedback and approval on a completed report.
func (s *ReportService) SignOff(ctx context.Context, bookingID uuid.UUID, feedback, signedOffBy string) (*model.StudentSession, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, apperr.NewValidationError("feedback cannot be blank",
			apperr.FieldError{Field: "feedback", Error: "feedback cannot be blank"})
	}

	b, err := s.editable(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CompletedOn == nil {
		return nil, fmt.Errorf("sign off booking %s: %w", bookingID, apperr.ErrNotCompleted)
	}

	now := nowFunc()
	b.ReportFeedback = &feedback
	b.SignedOffOn = &now
	b.SignedOffBy = &signedOffBy
	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("report signed off",
		zap.String("booking_id", bookingID.String()),
		zap.String("signed_off_by", signedOffBy),
	)

	return b, nil
}

// RemoveSignOff withdraws a sign-off. Always permitted; it is the correction
// path that reopens a report for editing.
func (s *ReportService) RemoveSignOff(ctx context.Context, bookingID uuid.UUID) (*model.StudentSession, error) {
	b, err := s.sessions.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	b.SignedOffOn = nil
	b.SignedOffBy = nil
	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("report sign-off removed", zap.String("booking_id", bookingID.String()))

	return b, nil
}

// WriteOnBehalf lets an admin author a mentor's report, stamping who really
// wrote it. The draft action saves the text; the signoff action completes the
// report (if needed) and signs it off with the given feedback in one step.
func (s *ReportService) WriteOnBehalf(ctx context.Context, bookingID uuid.UUID, report, feedback, actingAdminID string, action BehalfAction) (*model.StudentSession, error) {
	if strings.TrimSpace(report) == "" {
		return nil, apperr.NewValidationError("report cannot be blank",
			apperr.FieldError{Field: "report", Error: "report cannot be blank"})
	}

	b, err := s.editable(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	b.Report = &report
	b.WrittenOnBehalfBy = &actingAdminID

	switch action {
	case BehalfDraft:
		// draft only; completion stays untouched
	case BehalfSignOff:
		if strings.TrimSpace(feedback) == "" {
			return nil, apperr.NewValidationError("feedback cannot be blank",
				apperr.FieldError{Field: "feedback", Error: "feedback cannot be blank"})
		}
		if b.CompletedOn == nil {
			if b.AttendedOn.After(DateOnly(now)) {
				return nil, fmt.Errorf("complete booking %s: %w", bookingID, apperr.ErrFutureSession)
			}
			b.CompletedOn = &now
		}
		b.ReportFeedback = &feedback
		b.SignedOffOn = &now
		b.SignedOffBy = &actingAdminID
	default:
		return nil, apperr.NewValidationError("unknown action",
			apperr.FieldError{Field: "action", Error: fmt.Sprintf("unknown action %q", action)})
	}

	if err := s.sessions.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("report written on behalf",
		zap.String("booking_id", bookingID.String()),
		zap.String("acting_admin", actingAdminID),
		zap.String("action", string(action)),
	)

	return b, nil
}

package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// requestValidator plugs go-playground/validator into echo's binder.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

type createAssignmentRequest struct {
	MentorID   uuid.UUID `json:"mentor_id" validate:"required"`
	StudentID  uuid.UUID `json:"student_id" validate:"required"`
	AssignedBy string    `json:"assigned_by" validate:"required"`
}

type createSessionRequest struct {
	ChapterID  uuid.UUID  `json:"chapter_id" validate:"required"`
	MentorID   uuid.UUID  `json:"mentor_id" validate:"required"`
	StudentID  *uuid.UUID `json:"student_id"`
	AttendedOn string     `json:"attended_on" validate:"required,datetime=2006-01-02"`
}

type reassignMentorRequest struct {
	MentorID uuid.UUID `json:"mentor_id" validate:"required"`
}

type cancelBookingRequest struct {
	CancelledBy    string `json:"cancelled_by" validate:"required,oneof=MENTOR STUDENT"`
	ReasonID       int64  `json:"reason_id" validate:"required"`
	ExtendedReason string `json:"extended_reason"`
}

type saveDraftRequest struct {
	Report string `json:"report"`
}

type markCompletedRequest struct {
	Report string `json:"report"`
}

type signOffRequest struct {
	Feedback    string `json:"feedback"`
	SignedOffBy string `json:"signed_off_by" validate:"required"`
}

type writeOnBehalfRequest struct {
	Report        string `json:"report"`
	Feedback      string `json:"feedback"`
	ActingAdminID string `json:"acting_admin_id" validate:"required"`
	Action        string `json:"action" validate:"required,oneof=draft signoff"`
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
)

// AssignmentService tracks the mentor/student assignment relation and the
// per-date booking occupancy used to filter out counterparts already in a
// session that day.
type AssignmentService struct {
	assignments AssignmentStore
	mentors     MentorStore
	students    StudentStore
	sessions    SessionStore
	logger      *zap.Logger
}

func NewAssignmentService(
	assignments AssignmentStore,
	mentors MentorStore,
	students StudentStore,
	sessions SessionStore,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		mentors:     mentors,
		students:    students,
		sessions:    sessions,
		logger:      logger,
	}
}

// Assign links a mentor to a student. A mentor with an end date no longer
// takes new students. An existing link surfaces as apperr.ErrConflict from
// the store's unique index.
func (s *AssignmentService) Assign(ctx context.Context, mentorID, studentID uuid.UUID, assignedBy string) (*model.Assignment, error) {
	m, err := s.mentors.GetByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if !m.Active() {
		return nil, apperr.Conflictf("mentor %s is no longer active", mentorID)
	}

	a := &model.Assignment{
		ID:         uuid.New(),
		MentorID:   mentorID,
		StudentID:  studentID,
		AssignedBy: assignedBy,
	}

	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("mentor assigned to student",
		zap.String("mentor_id", mentorID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("assigned_by", assignedBy),
	)

	return a, nil
}

// Unassign removes the mentor/student link. Missing links surface as
// apperr.ErrNotFound.
func (s *AssignmentService) Unassign(ctx context.Context, mentorID, studentID uuid.UUID) error {
	if err := s.assignments.Delete(ctx, mentorID, studentID); err != nil {
		return err
	}

	s.logger.Info("mentor unassigned from student",
		zap.String("mentor_id", mentorID.String()),
		zap.String("student_id", studentID.String()),
	)

	return nil
}

// AvailableMentorsForStudent lists the chapter's mentors for the assignment
// picker: mentors already assigned to the student lead the list, tagged, and
// the eligible pool follows. Both sublists stay alphabetical.
func (s *AssignmentService) AvailableMentorsForStudent(ctx context.Context, chapterID, studentID uuid.UUID) ([]model.MentorOption, error) {
	mentors, err := s.mentors.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	assignedIDs, err := s.assignments.MentorIDsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	assigned := idSet(assignedIDs)

	options := make([]model.MentorOption, 0, len(mentors))
	for _, m := range mentors {
		if _, ok := assigned[m.ID]; ok {
			options = append(options, model.MentorOption{Mentor: m, AlreadyAssigned: true})
		}
	}
	for _, m := range mentors {
		if _, ok := assigned[m.ID]; !ok {
			options = append(options, model.MentorOption{Mentor: m})
		}
	}

	return options, nil
}

// AvailableStudentsForMentor mirrors AvailableMentorsForStudent.
func (s *AssignmentService) AvailableStudentsForMentor(ctx context.Context, chapterID, mentorID uuid.UUID) ([]model.StudentOption, error) {
	students, err := s.students.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	assignedIDs, err := s.assignments.StudentIDsForMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	assigned := idSet(assignedIDs)

	options := make([]model.StudentOption, 0, len(students))
	for _, st := range students {
		if _, ok := assigned[st.ID]; ok {
			options = append(options, model.StudentOption{Student: st, AlreadyAssigned: true})
		}
	}
	for _, st := range students {
		if _, ok := assigned[st.ID]; !ok {
			options = append(options, model.StudentOption{Student: st})
		}
	}

	return options, nil
}

// MentorsBookedOn returns the mentors who already hold a session shell on the
// date; an unbooked "available" shell still reserves the mentor's date.
func (s *AssignmentService) MentorsBookedOn(ctx context.Context, chapterID uuid.UUID, date time.Time) (map[uuid.UUID]struct{}, error) {
	sessions, err := s.sessions.SessionsByChapterDate(ctx, chapterID, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("sessions on date: %w", err)
	}

	booked := make(map[uuid.UUID]struct{}, len(sessions))
	for _, sess := range sessions {
		booked[sess.MentorID] = struct{}{}
	}
	return booked, nil
}

// StudentsBookedOn returns the students who already hold a booking on the
// date. Cancelled bookings still count: the row keeps the date reserved until
// it is removed.
func (s *AssignmentService) StudentsBookedOn(ctx context.Context, chapterID uuid.UUID, date time.Time) (map[uuid.UUID]struct{}, error) {
	bookings, err := s.sessions.BookingsByChapterDate(ctx, chapterID, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("bookings on date: %w", err)
	}

	booked := make(map[uuid.UUID]struct{}, len(bookings))
	for _, b := range bookings {
		booked[b.StudentID] = struct{}{}
	}
	return booked, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

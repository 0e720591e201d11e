package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
)

// In-memory store implementations for the service tests. Uniqueness is
// enforced under a mutex, mirroring the database's unique indexes so the
// exactly-one-success conflict semantics hold under concurrent calls.

type memTermStore struct {
	mu    sync.Mutex
	terms []model.Term
}

func (s *memTermStore) List(context.Context) ([]model.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Term, len(s.terms))
	copy(out, s.terms)
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

type memMentorStore struct {
	mu      sync.Mutex
	mentors []model.Mentor
}

func (s *memMentorStore) GetByID(_ context.Context, id uuid.UUID) (*model.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.mentors {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, apperr.NotFoundf("mentor %s", id)
}

func (s *memMentorStore) ListByChapter(_ context.Context, chapterID uuid.UUID) ([]model.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Mentor
	for _, m := range s.mentors {
		if m.ChapterID == chapterID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memMentorStore) ListActiveByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Mentor, error) {
	all, _ := s.ListByChapter(ctx, chapterID)
	var out []model.Mentor
	for _, m := range all {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out, nil
}

type memStudentStore struct {
	mu       sync.Mutex
	students []model.Student
}

func (s *memStudentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.ID == id {
			cp := st
			return &cp, nil
		}
	}
	return nil, apperr.NotFoundf("student %s", id)
}

func (s *memStudentStore) ListByChapter(_ context.Context, chapterID uuid.UUID) ([]model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Student
	for _, st := range s.students {
		if st.ChapterID == chapterID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memAssignmentStore struct {
	mu          sync.Mutex
	assignments []model.Assignment
}

func (s *memAssignmentStore) Create(_ context.Context, a *model.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.MentorID == a.MentorID && existing.StudentID == a.StudentID {
			return apperr.Conflictf("mentor already assigned to student")
		}
	}
	a.AssignedAt = time.Now()
	s.assignments = append(s.assignments, *a)
	return nil
}

func (s *memAssignmentStore) Delete(_ context.Context, mentorID, studentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assignments {
		if a.MentorID == mentorID && a.StudentID == studentID {
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			return nil
		}
	}
	return apperr.NotFoundf("assignment %s/%s", mentorID, studentID)
}

func (s *memAssignmentStore) MentorIDsForStudent(_ context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for _, a := range s.assignments {
		if a.StudentID == studentID {
			ids = append(ids, a.MentorID)
		}
	}
	return ids, nil
}

func (s *memAssignmentStore) StudentIDsForMentor(_ context.Context, mentorID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for _, a := range s.assignments {
		if a.MentorID == mentorID {
			ids = append(ids, a.StudentID)
		}
	}
	return ids, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.Session
	bookings map[uuid.UUID]model.StudentSession
	students *memStudentStore // for occupancy names
}

func newMemSessionStore(students *memStudentStore) *memSessionStore {
	return &memSessionStore{
		sessions: make(map[uuid.UUID]model.Session),
		bookings: make(map[uuid.UUID]model.StudentSession),
		students: students,
	}
}

func (s *memSessionStore) CreateSession(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.ChapterID == sess.ChapterID &&
			existing.MentorID == sess.MentorID &&
			existing.AttendedOn.Equal(sess.AttendedOn) {
			return apperr.Conflictf("mentor already has a session on %s", sess.AttendedOn.Format("2006-01-02"))
		}
	}
	sess.CreatedAt = time.Now()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *memSessionStore) CreateSessionWithBooking(_ context.Context, sess *model.Session, b *model.StudentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.ChapterID == sess.ChapterID &&
			existing.MentorID == sess.MentorID &&
			existing.AttendedOn.Equal(sess.AttendedOn) {
			return apperr.Conflictf("mentor already has a session on %s", sess.AttendedOn.Format("2006-01-02"))
		}
	}
	for _, existing := range s.bookings {
		if existing.ChapterID == b.ChapterID &&
			existing.StudentID == b.StudentID &&
			existing.AttendedOn.Equal(b.AttendedOn) {
			// Neither row lands: the conflict rolls the shell back too.
			return apperr.Conflictf("student already booked on %s", b.AttendedOn.Format("2006-01-02"))
		}
	}
	now := time.Now()
	sess.CreatedAt = now
	b.CreatedAt = now
	s.sessions[sess.ID] = *sess
	s.bookings[b.ID] = *b
	return nil
}

func (s *memSessionStore) GetSession(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperr.NotFoundf("session %s", id)
	}
	return &sess, nil
}

func (s *memSessionStore) SessionByMentorDate(_ context.Context, chapterID, mentorID uuid.UUID, attendedOn time.Time) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ChapterID == chapterID && sess.MentorID == mentorID && sess.AttendedOn.Equal(attendedOn) {
			cp := sess
			return &cp, nil
		}
	}
	return nil, apperr.NotFoundf("session for mentor %s", mentorID)
}

func (s *memSessionStore) UpdateSessionMentor(_ context.Context, id, newMentorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return apperr.NotFoundf("session %s", id)
	}
	for _, other := range s.sessions {
		if other.ID != id && other.ChapterID == sess.ChapterID &&
			other.MentorID == newMentorID && other.AttendedOn.Equal(sess.AttendedOn) {
			return apperr.Conflictf("mentor already has a session on that date")
		}
	}
	sess.MentorID = newMentorID
	s.sessions[id] = sess
	return nil
}

func (s *memSessionStore) UpdateSessionStatus(_ context.Context, id uuid.UUID, status model.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return apperr.NotFoundf("session %s", id)
	}
	sess.Status = status
	s.sessions[id] = sess
	return nil
}

func (s *memSessionStore) SessionsByChapterDate(_ context.Context, chapterID uuid.UUID, attendedOn time.Time) ([]model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Session
	for _, sess := range s.sessions {
		if sess.ChapterID == chapterID && sess.AttendedOn.Equal(attendedOn) {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *memSessionStore) CreateBooking(_ context.Context, b *model.StudentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.ChapterID == b.ChapterID &&
			existing.StudentID == b.StudentID &&
			existing.AttendedOn.Equal(b.AttendedOn) {
			return apperr.Conflictf("student already booked on %s", b.AttendedOn.Format("2006-01-02"))
		}
	}
	b.CreatedAt = time.Now()
	s.bookings[b.ID] = *b
	return nil
}

func (s *memSessionStore) GetBooking(_ context.Context, id uuid.UUID) (*model.StudentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperr.NotFoundf("booking %s", id)
	}
	return &b, nil
}

func (s *memSessionStore) UpdateBooking(_ context.Context, b *model.StudentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return apperr.NotFoundf("booking %s", b.ID)
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *memSessionStore) BookingsBySession(_ context.Context, sessionID uuid.UUID) ([]model.StudentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StudentSession
	for _, b := range s.bookings {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memSessionStore) BookingsByChapterDate(_ context.Context, chapterID uuid.UUID, attendedOn time.Time) ([]model.StudentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StudentSession
	for _, b := range s.bookings {
		if b.ChapterID == chapterID && b.AttendedOn.Equal(attendedOn) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memSessionStore) RemoveBookingCascade(_ context.Context, bookingID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return false, apperr.NotFoundf("booking %s", bookingID)
	}
	delete(s.bookings, bookingID)

	remaining := 0
	for _, other := range s.bookings {
		if other.SessionID == b.SessionID {
			remaining++
		}
	}
	if remaining == 0 {
		delete(s.sessions, b.SessionID)
		return true, nil
	}
	return false, nil
}

func (s *memSessionStore) Occupancy(_ context.Context, chapterID uuid.UUID, from, to time.Time) ([]model.SessionOccupancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SessionOccupancy
	for _, sess := range s.sessions {
		if sess.ChapterID != chapterID || sess.AttendedOn.Before(from) || sess.AttendedOn.After(to) {
			continue
		}
		occ := model.SessionOccupancy{MentorID: sess.MentorID, AttendedOn: sess.AttendedOn}
		for _, b := range s.bookings {
			if b.SessionID != sess.ID {
				continue
			}
			name := b.StudentID.String()
			if s.students != nil {
				for _, st := range s.students.students {
					if st.ID == b.StudentID {
						name = st.Name
						break
					}
				}
			}
			occ.StudentNames = append(occ.StudentNames, name)
		}
		sort.Strings(occ.StudentNames)
		out = append(out, occ)
	}
	return out, nil
}

type memCancelReasonStore struct {
	reasons []model.CancelReason
}

func (s *memCancelReasonStore) List(context.Context) ([]model.CancelReason, error) {
	return s.reasons, nil
}

func (s *memCancelReasonStore) GetByID(_ context.Context, id int64) (*model.CancelReason, error) {
	for _, r := range s.reasons {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, apperr.NotFoundf("cancel reason %d", id)
}

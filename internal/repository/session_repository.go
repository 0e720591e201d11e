package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
	"github.com/chapterly/mentorhub/internal/repository/base"
)

const bookingColumns = `
	id, session_id, chapter_id, student_id, attended_on,
	report, report_feedback, completed_on, signed_off_on, signed_off_by,
	written_on_behalf_by, is_cancelled, cancelled_by, cancelled_reason_id,
	cancelled_extended_reason, cancelled_at, created_at`

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// CreateSession inserts the mentor/date shell. The unique index on
// (chapter_id, mentor_id, attended_on) turns a concurrent double-submit into
// apperr.ErrConflict.
func (r *SessionRepository) CreateSession(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (id, chapter_id, mentor_id, attended_on, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query, s.ID, s.ChapterID, s.MentorID, s.AttendedOn, s.Status).
		Scan(&s.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflictf("mentor already has a session on %s", s.AttendedOn.Format("2006-01-02"))
		}
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// CreateSessionWithBooking inserts a shell and its first booking in one
// transaction. A conflict on either unique index rolls back both, so a
// refused booking cannot leave an empty shell holding the mentor's date.
func (r *SessionRepository) CreateSessionWithBooking(ctx context.Context, s *model.Session, b *model.StudentSession) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO sessions (id, chapter_id, mentor_id, attended_on, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		s.ID, s.ChapterID, s.MentorID, s.AttendedOn, s.Status,
	).Scan(&s.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflictf("mentor already has a session on %s", s.AttendedOn.Format("2006-01-02"))
		}
		return fmt.Errorf("create session: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO student_sessions (id, session_id, chapter_id, student_id, attended_on)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		b.ID, b.SessionID, b.ChapterID, b.StudentID, b.AttendedOn,
	).Scan(&b.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflictf("student already booked on %s", b.AttendedOn.Format("2006-01-02"))
		}
		return fmt.Errorf("create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	query := `
		SELECT id, chapter_id, mentor_id, attended_on, status, created_at
		FROM sessions
		WHERE id = $1
	`

	var s model.Session
	err := r.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ChapterID, &s.MentorID, &s.AttendedOn, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, apperr.NotFoundf("session %s", id)
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return &s, nil
}

// SessionByMentorDate looks up the shell a mentor holds on a given date.
func (r *SessionRepository) SessionByMentorDate(ctx context.Context, chapterID, mentorID uuid.UUID, attendedOn time.Time) (*model.Session, error) {
	query := `
		SELECT id, chapter_id, mentor_id, attended_on, status, created_at
		FROM sessions
		WHERE chapter_id = $1 AND mentor_id = $2 AND attended_on = $3
	`

	var s model.Session
	err := r.QueryRow(ctx, query, chapterID, mentorID, attendedOn).Scan(
		&s.ID, &s.ChapterID, &s.MentorID, &s.AttendedOn, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, apperr.NotFoundf("session for mentor %s on %s", mentorID, attendedOn.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("get session by mentor and date: %w", err)
	}

	return &s, nil
}

// UpdateSessionMentor swaps the mentor in place, preserving the session id so
// bookings and reports stay attached. The unique index rejects a swap onto a
// mentor who already holds the date.
func (r *SessionRepository) UpdateSessionMentor(ctx context.Context, id, newMentorID uuid.UUID) error {
	query := `UPDATE sessions SET mentor_id = $1 WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, newMentorID, id)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflictf("mentor already has a session on that date")
		}
		return fmt.Errorf("update session mentor: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("session %s", id)
	}

	return nil
}

func (r *SessionRepository) UpdateSessionStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error {
	query := `UPDATE sessions SET status = $1 WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("session %s", id)
	}

	return nil
}

// SessionsByChapterDate lists every mentor shell in the chapter on one date.
func (r *SessionRepository) SessionsByChapterDate(ctx context.Context, chapterID uuid.UUID, attendedOn time.Time) ([]model.Session, error) {
	query := `
		SELECT id, chapter_id, mentor_id, attended_on, status, created_at
		FROM sessions
		WHERE chapter_id = $1 AND attended_on = $2
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, chapterID, attendedOn)
	if err != nil {
		return nil, fmt.Errorf("list sessions by chapter and date: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		err := rows.Scan(&s.ID, &s.ChapterID, &s.MentorID, &s.AttendedOn, &s.Status, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// CreateBooking inserts a student booking under a shell. The unique index on
// (chapter_id, student_id, attended_on) rejects a student already booked that
// day with apperr.ErrConflict.
func (r *SessionRepository) CreateBooking(ctx context.Context, b *model.StudentSession) error {
	query := `
		INSERT INTO student_sessions (id, session_id, chapter_id, student_id, attended_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query, b.ID, b.SessionID, b.ChapterID, b.StudentID, b.AttendedOn).
		Scan(&b.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflictf("student already booked on %s", b.AttendedOn.Format("2006-01-02"))
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetBooking(ctx context.Context, id uuid.UUID) (*model.StudentSession, error) {
	query := `SELECT ` + bookingColumns + ` FROM student_sessions WHERE id = $1`

	b, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, apperr.NotFoundf("booking %s", id)
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return b, nil
}

// UpdateBooking writes the booking's mutable report and cancellation fields.
// Last write wins; there is no version token.
func (r *SessionRepository) UpdateBooking(ctx context.Context, b *model.StudentSession) error {
	query := `
		UPDATE student_sessions
		SET report = $1,
		    report_feedback = $2,
		    completed_on = $3,
		    signed_off_on = $4,
		    signed_off_by = $5,
		    written_on_behalf_by = $6,
		    is_cancelled = $7,
		    cancelled_by = $8,
		    cancelled_reason_id = $9,
		    cancelled_extended_reason = $10,
		    cancelled_at = $11
		WHERE id = $12
	`

	affected, err := r.ExecAffected(ctx, query,
		b.Report,
		b.ReportFeedback,
		b.CompletedOn,
		b.SignedOffOn,
		b.SignedOffBy,
		b.WrittenOnBehalfBy,
		b.IsCancelled,
		cancelPartyString(b.CancelledBy),
		b.CancelledReasonID,
		b.CancelledExtendedReason,
		b.CancelledAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("booking %s", b.ID)
	}

	return nil
}

func (r *SessionRepository) BookingsBySession(ctx context.Context, sessionID uuid.UUID) ([]model.StudentSession, error) {
	query := `SELECT ` + bookingColumns + ` FROM student_sessions WHERE session_id = $1 ORDER BY created_at`

	rows, err := r.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by session: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// BookingsByChapterDate lists every student booking in the chapter on one date.
func (r *SessionRepository) BookingsByChapterDate(ctx context.Context, chapterID uuid.UUID, attendedOn time.Time) ([]model.StudentSession, error) {
	query := `SELECT ` + bookingColumns + ` FROM student_sessions WHERE chapter_id = $1 AND attended_on = $2 ORDER BY created_at`

	rows, err := r.Query(ctx, query, chapterID, attendedOn)
	if err != nil {
		return nil, fmt.Errorf("list bookings by chapter and date: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// RemoveBookingCascade deletes a booking and, when it was the last one under
// its session, the session shell too. The delete, the sibling count and the
// conditional cascade run in one transaction so a crash can neither orphan a
// booking nor leave a half-deleted shell looking available. Returns whether
// the shell was removed.
func (r *SessionRepository) RemoveBookingCascade(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sessionID uuid.UUID
	err = tx.QueryRow(ctx,
		`DELETE FROM student_sessions WHERE id = $1 RETURNING session_id`,
		bookingID,
	).Scan(&sessionID)
	if err != nil {
		if base.IsNotFound(err) {
			return false, apperr.NotFoundf("booking %s", bookingID)
		}
		return false, fmt.Errorf("delete booking: %w", err)
	}

	var remaining int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM student_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&remaining)
	if err != nil {
		return false, fmt.Errorf("count remaining bookings: %w", err)
	}

	parentDeleted := false
	if remaining == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
			return false, fmt.Errorf("delete empty session: %w", err)
		}
		parentDeleted = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return parentDeleted, nil
}

// Occupancy returns, per mentor shell in the date range, the booked students'
// names. Cancelled bookings still occupy their slot on the roster.
func (r *SessionRepository) Occupancy(ctx context.Context, chapterID uuid.UUID, from, to time.Time) ([]model.SessionOccupancy, error) {
	query := `
		SELECT s.mentor_id, s.attended_on, COALESCE(st.name, '')
		FROM sessions s
		LEFT JOIN student_sessions ss ON ss.session_id = s.id
		LEFT JOIN students st ON st.id = ss.student_id
		WHERE s.chapter_id = $1
		  AND s.attended_on >= $2
		  AND s.attended_on <= $3
		ORDER BY s.attended_on, s.mentor_id, st.name
	`

	rows, err := r.Query(ctx, query, chapterID, from, to)
	if err != nil {
		return nil, fmt.Errorf("session occupancy: %w", err)
	}
	defer rows.Close()

	var out []model.SessionOccupancy
	for rows.Next() {
		var mentorID uuid.UUID
		var attendedOn time.Time
		var studentName string
		if err := rows.Scan(&mentorID, &attendedOn, &studentName); err != nil {
			return nil, fmt.Errorf("scan occupancy: %w", err)
		}

		n := len(out)
		if n == 0 || out[n-1].MentorID != mentorID || !out[n-1].AttendedOn.Equal(attendedOn) {
			out = append(out, model.SessionOccupancy{MentorID: mentorID, AttendedOn: attendedOn})
			n++
		}
		if studentName != "" {
			out[n-1].StudentNames = append(out[n-1].StudentNames, studentName)
		}
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*model.StudentSession, error) {
	var b model.StudentSession
	var cancelledBy *string
	err := row.Scan(
		&b.ID, &b.SessionID, &b.ChapterID, &b.StudentID, &b.AttendedOn,
		&b.Report, &b.ReportFeedback, &b.CompletedOn, &b.SignedOffOn, &b.SignedOffBy,
		&b.WrittenOnBehalfBy, &b.IsCancelled, &cancelledBy, &b.CancelledReasonID,
		&b.CancelledExtendedReason, &b.CancelledAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cancelledBy != nil {
		party := model.CancelParty(*cancelledBy)
		b.CancelledBy = &party
	}
	return &b, nil
}

func cancelPartyString(p *model.CancelParty) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func scanBookings(rows pgx.Rows) ([]model.StudentSession, error) {
	var bookings []model.StudentSession
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

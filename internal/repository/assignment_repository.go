package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
	"github.com/chapterly/mentorhub/internal/repository/base"
)

type AssignmentRepository struct {
	*base.Repository
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{Repository: base.NewRepository(pool)}
}

// Create inserts the mentor/student link. The unique index on the pair turns
// a duplicate into apperr.ErrConflict.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	query := `
		INSERT INTO assignments (id, mentor_id, student_id, assigned_by)
		VALUES ($1, $2, $3, $4)
		RETURNING assigned_at
	`

	err := r.QueryRow(ctx, query, a.ID, a.MentorID, a.StudentID, a.AssignedBy).
		Scan(&a.AssignedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflictf("mentor already assigned to student")
		}
		return fmt.Errorf("create assignment: %w", err)
	}

	return nil
}

// Delete removes the mentor/student link (hard delete).
func (r *AssignmentRepository) Delete(ctx context.Context, mentorID, studentID uuid.UUID) error {
	query := `DELETE FROM assignments WHERE mentor_id = $1 AND student_id = $2`

	affected, err := r.ExecAffected(ctx, query, mentorID, studentID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("assignment %s/%s", mentorID, studentID)
	}

	return nil
}

// MentorIDsForStudent returns the ids of mentors currently assigned to the student.
func (r *AssignmentRepository) MentorIDsForStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT mentor_id FROM assignments WHERE student_id = $1`
	return r.scanIDs(ctx, query, studentID, "mentor ids for student")
}

// StudentIDsForMentor returns the ids of students currently assigned to the mentor.
func (r *AssignmentRepository) StudentIDsForMentor(ctx context.Context, mentorID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT student_id FROM assignments WHERE mentor_id = $1`
	return r.scanIDs(ctx, query, mentorID, "student ids for mentor")
}

func (r *AssignmentRepository) scanIDs(ctx context.Context, query string, arg any, op string) ([]uuid.UUID, error) {
	rows, err := r.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

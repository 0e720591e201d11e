package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
	"github.com/chapterly/mentorhub/internal/repository/base"
)

type MentorRepository struct {
	*base.Repository
}

func NewMentorRepository(pool *pgxpool.Pool) *MentorRepository {
	return &MentorRepository{Repository: base.NewRepository(pool)}
}

func (r *MentorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Mentor, error) {
	query := `
		SELECT id, chapter_id, name, email, end_date, created_at
		FROM mentors
		WHERE id = $1
	`

	var m model.Mentor
	err := r.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ChapterID, &m.Name, &m.Email, &m.EndDate, &m.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, apperr.NotFoundf("mentor %s", id)
		}
		return nil, fmt.Errorf("get mentor by id: %w", err)
	}

	return &m, nil
}

// ListByChapter returns every mentor in the chapter, alphabetical by name.
func (r *MentorRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Mentor, error) {
	query := `
		SELECT id, chapter_id, name, email, end_date, created_at
		FROM mentors
		WHERE chapter_id = $1
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list mentors by chapter: %w", err)
	}
	defer rows.Close()

	return scanMentors(rows)
}

// ListActiveByChapter returns the chapter's mentors with no end date,
// alphabetical by name.
func (r *MentorRepository) ListActiveByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Mentor, error) {
	query := `
		SELECT id, chapter_id, name, email, end_date, created_at
		FROM mentors
		WHERE chapter_id = $1 AND end_date IS NULL
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list active mentors by chapter: %w", err)
	}
	defer rows.Close()

	return scanMentors(rows)
}

func scanMentors(rows pgx.Rows) ([]model.Mentor, error) {
	var mentors []model.Mentor
	for rows.Next() {
		var m model.Mentor
		err := rows.Scan(&m.ID, &m.ChapterID, &m.Name, &m.Email, &m.EndDate, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan mentor: %w", err)
		}
		mentors = append(mentors, m)
	}
	return mentors, rows.Err()
}

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

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `
		SELECT id, chapter_id, name, created_at
		FROM students
		WHERE id = $1
	`

	var s model.Student
	err := r.QueryRow(ctx, query, id).Scan(&s.ID, &s.ChapterID, &s.Name, &s.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, apperr.NotFoundf("student %s", id)
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &s, nil
}

// ListByChapter returns every student in the chapter, alphabetical by name.
func (r *StudentRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Student, error) {
	query := `
		SELECT id, chapter_id, name, created_at
		FROM students
		WHERE chapter_id = $1
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list students by chapter: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.ChapterID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

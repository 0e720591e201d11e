package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterly/mentorhub/internal/model"
	"github.com/chapterly/mentorhub/internal/repository/base"
)

type TermRepository struct {
	*base.Repository
}

func NewTermRepository(pool *pgxpool.Pool) *TermRepository {
	return &TermRepository{Repository: base.NewRepository(pool)}
}

// List returns every school term ordered by start date.
func (r *TermRepository) List(ctx context.Context) ([]model.Term, error) {
	query := `
		SELECT id, year, label, start_date, end_date
		FROM terms
		ORDER BY start_date
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var terms []model.Term
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.Year, &t.Label, &t.StartDate, &t.EndDate); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, t)
	}

	return terms, rows.Err()
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
	"github.com/chapterly/mentorhub/internal/repository/base"
)

type CancelReasonRepository struct {
	*base.Repository
}

func NewCancelReasonRepository(pool *pgxpool.Pool) *CancelReasonRepository {
	return &CancelReasonRepository{Repository: base.NewRepository(pool)}
}

func (r *CancelReasonRepository) List(ctx context.Context) ([]model.CancelReason, error) {
	query := `SELECT id, reason FROM cancel_reasons ORDER BY id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cancel reasons: %w", err)
	}
	defer rows.Close()

	var reasons []model.CancelReason
	for rows.Next() {
		var cr model.CancelReason
		if err := rows.Scan(&cr.ID, &cr.Reason); err != nil {
			return nil, fmt.Errorf("scan cancel reason: %w", err)
		}
		reasons = append(reasons, cr)
	}

	return reasons, rows.Err()
}

func (r *CancelReasonRepository) GetByID(ctx context.Context, id int64) (*model.CancelReason, error) {
	query := `SELECT id, reason FROM cancel_reasons WHERE id = $1`

	var cr model.CancelReason
	err := r.QueryRow(ctx, query, id).Scan(&cr.ID, &cr.Reason)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, apperr.NotFoundf("cancel reason %d", id)
		}
		return nil, fmt.Errorf("get cancel reason by id: %w", err)
	}

	return &cr, nil
}

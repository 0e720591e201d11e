package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
)

// TermService resolves the school-term calendar: which term is current, which
// weekly dates it contains and which of them is nearest to today.
type TermService struct {
	terms  TermStore
	logger *zap.Logger
}

func NewTermService(terms TermStore, logger *zap.Logger) *TermService {
	return &TermService{terms: terms, logger: logger}
}

// Terms returns all configured terms ordered by start date. An empty term
// table is a configuration fault; downstream screens dereference the result
// unconditionally.
func (s *TermService) Terms(ctx context.Context) ([]model.Term, error) {
	terms, err := s.terms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load terms: %w", err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("no school terms loaded: %w", apperr.ErrConfiguration)
	}
	return terms, nil
}

// CurrentTerm resolves the term for the given date, falling back to the
// nearest term across holiday gaps.
func (s *TermService) CurrentTerm(ctx context.Context, date time.Time) (model.Term, error) {
	terms, err := s.Terms(ctx)
	if err != nil {
		return model.Term{}, err
	}
	return CurrentTermForDate(terms, date)
}

// ClosestSessionDate returns the term's session date nearest to today.
func (s *TermService) ClosestSessionDate(term model.Term) *time.Time {
	return ClosestSessionDate(DatesForTerm(term.StartDate, term.EndDate), nowFunc())
}

// Years lists the distinct years covered by the configured terms.
func (s *TermService) Years(ctx context.Context) ([]int, error) {
	terms, err := s.Terms(ctx)
	if err != nil {
		return nil, err
	}
	return DistinctYears(terms), nil
}

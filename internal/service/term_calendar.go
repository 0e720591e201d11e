package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// DateOnly truncates t to UTC midnight; session dates are stored this way.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DatesForTerm returns every weekly session date between start and end
// inclusive, anchored at the term's start date.
func DatesForTerm(start, end time.Time) []time.Time {
	start, end = DateOnly(start), DateOnly(end)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d)
	}
	return dates
}

// CurrentTermForDate returns the term containing date. During holiday gaps the
// chronologically nearest term wins; on a tie the upcoming term is preferred
// over the one that already ended.
func CurrentTermForDate(terms []model.Term, date time.Time) (model.Term, error) {
	if len(terms) == 0 {
		return model.Term{}, fmt.Errorf("no school terms loaded: %w", apperr.ErrConfiguration)
	}

	date = DateOnly(date)

	best := -1
	var bestDist time.Duration
	var bestAhead bool
	for i, t := range terms {
		if t.Contains(date) {
			return t, nil
		}

		var dist time.Duration
		var ahead bool
		if date.Before(t.StartDate) {
			dist = t.StartDate.Sub(date)
			ahead = true
		} else {
			dist = date.Sub(t.EndDate)
		}

		if best < 0 || dist < bestDist || (dist == bestDist && ahead && !bestAhead) {
			best, bestDist, bestAhead = i, dist, ahead
		}
	}

	return terms[best], nil
}

// ClosestSessionDate picks the date with minimum absolute distance to now,
// or nil for an empty list. Earlier dates win ties.
func ClosestSessionDate(dates []time.Time, now time.Time) *time.Time {
	if len(dates) == 0 {
		return nil
	}

	now = DateOnly(now)

	best := dates[0]
	bestDist := absDuration(now.Sub(best))
	for _, d := range dates[1:] {
		if dist := absDuration(now.Sub(d)); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return &best
}

// DistinctYears returns the sorted set of years covered by the terms; it
// feeds the year selector.
func DistinctYears(terms []model.Term) []int {
	seen := make(map[int]struct{}, len(terms))
	var years []int
	for _, t := range terms {
		if _, ok := seen[t.Year]; !ok {
			seen[t.Year] = struct{}{}
			years = append(years, t.Year)
		}
	}
	sort.Ints(years)
	return years
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

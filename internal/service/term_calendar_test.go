package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func term(year int, label string, start, end time.Time) model.Term {
	return model.Term{ID: uuid.New(), Year: year, Label: label, StartDate: start, EndDate: end}
}

func TestDatesForTerm(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{name: "single day", start: date(2024, 2, 5), end: date(2024, 2, 5), want: 1},
		{name: "under a week", start: date(2024, 2, 5), end: date(2024, 2, 10), want: 1},
		{name: "exactly two weeks", start: date(2024, 2, 5), end: date(2024, 2, 19), want: 3},
		{name: "term one 2024", start: date(2024, 2, 5), end: date(2024, 4, 12), want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := DatesForTerm(tt.start, tt.end)
			if len(dates) != tt.want {
				t.Fatalf("len(dates) = %d, want %d", len(dates), tt.want)
			}
			if dates[0].Before(tt.start) {
				t.Errorf("first date %v before start %v", dates[0], tt.start)
			}
			if dates[len(dates)-1].After(tt.end) {
				t.Errorf("last date %v after end %v", dates[len(dates)-1], tt.end)
			}
			for i := 1; i < len(dates); i++ {
				if got := dates[i].Sub(dates[i-1]); got != 7*24*time.Hour {
					t.Errorf("gap between %v and %v = %v, want 168h", dates[i-1], dates[i], got)
				}
			}
		})
	}
}

func TestCurrentTermForDate(t *testing.T) {
	term1 := term(2024, "Term 1", date(2024, 2, 5), date(2024, 4, 12))
	term2 := term(2024, "Term 2", date(2024, 4, 29), date(2024, 7, 5))
	terms := []model.Term{term1, term2}

	tests := []struct {
		name string
		date time.Time
		want model.Term
	}{
		{name: "inside first term", date: date(2024, 3, 1), want: term1},
		{name: "inside second term", date: date(2024, 5, 1), want: term2},
		{name: "on a term boundary", date: date(2024, 4, 12), want: term1},
		{name: "gap closer to first", date: date(2024, 4, 14), want: term1},
		{name: "gap closer to second", date: date(2024, 4, 27), want: term2},
		{name: "before all terms", date: date(2024, 1, 1), want: term1},
		{name: "after all terms", date: date(2024, 12, 1), want: term2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CurrentTermForDate(terms, tt.date)
			if err != nil {
				t.Fatalf("CurrentTermForDate() error = %v", err)
			}
			if got.ID != tt.want.ID {
				t.Errorf("CurrentTermForDate() = %s, want %s", got.Label, tt.want.Label)
			}
		})
	}
}

func TestCurrentTermForDate_GapTieBreakPrefersUpcomingTerm(t *testing.T) {
	// 8-day gap: 2024-04-16 is 3 days after term1 ends and 3 days before
	// term2 starts.
	term1 := term(2024, "Term 1", date(2024, 2, 5), date(2024, 4, 13))
	term2 := term(2024, "Term 2", date(2024, 4, 19), date(2024, 7, 5))

	got, err := CurrentTermForDate([]model.Term{term1, term2}, date(2024, 4, 16))
	if err != nil {
		t.Fatalf("CurrentTermForDate() error = %v", err)
	}
	if got.ID != term2.ID {
		t.Errorf("CurrentTermForDate() = %s, want upcoming %s", got.Label, term2.Label)
	}
}

func TestCurrentTermForDate_EmptyTermsIsConfigurationError(t *testing.T) {
	_, err := CurrentTermForDate(nil, date(2024, 3, 1))
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}

func TestClosestSessionDate(t *testing.T) {
	dates := DatesForTerm(date(2024, 2, 5), date(2024, 4, 12))

	got := ClosestSessionDate(dates, date(2024, 3, 1))
	if got == nil {
		t.Fatal("ClosestSessionDate() = nil, want a date")
	}
	// 2024-03-04 is 3 days out, 2024-02-26 is 4.
	if want := date(2024, 3, 4); !got.Equal(want) {
		t.Errorf("ClosestSessionDate() = %v, want %v", got, want)
	}
}

func TestClosestSessionDate_EmptyList(t *testing.T) {
	if got := ClosestSessionDate(nil, date(2024, 3, 1)); got != nil {
		t.Errorf("ClosestSessionDate(nil) = %v, want nil", got)
	}
}

func TestDistinctYears(t *testing.T) {
	terms := []model.Term{
		term(2025, "Term 1", date(2025, 2, 3), date(2025, 4, 11)),
		term(2024, "Term 1", date(2024, 2, 5), date(2024, 4, 12)),
		term(2024, "Term 2", date(2024, 4, 29), date(2024, 7, 5)),
	}

	got := DistinctYears(terms)
	want := []int{2024, 2025}
	if len(got) != len(want) {
		t.Fatalf("DistinctYears() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DistinctYears() = %v, want %v", got, want)
		}
	}
}

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/chapterly/mentorhub/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: apperr.NewValidationError("report cannot be blank"), want: http.StatusBadRequest},
		{name: "not found", err: apperr.NotFoundf("booking x"), want: http.StatusNotFound},
		{name: "conflict", err: apperr.Conflictf("mentor already booked"), want: http.StatusConflict},
		{name: "already completed", err: apperr.ErrAlreadyCompleted, want: http.StatusUnprocessableEntity},
		{name: "already signed off", err: apperr.ErrAlreadySignedOff, want: http.StatusUnprocessableEntity},
		{name: "not completed", err: apperr.ErrNotCompleted, want: http.StatusUnprocessableEntity},
		{name: "future session", err: apperr.ErrFutureSession, want: http.StatusUnprocessableEntity},
		{name: "configuration", err: apperr.ErrConfiguration, want: http.StatusInternalServerError},
		{name: "unexpected", err: errors.New("pool exhausted"), want: http.StatusInternalServerError},
		{name: "wrapped conflict", err: apperr.Conflictf("student already booked on 2024-03-04"), want: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := statusFor(tt.err)
			if got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

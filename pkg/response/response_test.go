package response_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/maxviazov/roster-stats-service/internal/service"
	"github.com/maxviazov/roster-stats-service/pkg/response"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"invalid_argument", fmt.Errorf("%w: actor id must not be blank", service.ErrInvalidArgument), 400, "invalid_argument"},
		{"timeout", context.DeadlineExceeded, 504, "timeout"},
		{"canceled", context.Canceled, 408, "canceled"},
		{"internal", errors.New("boom"), 500, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			if code != tc.wantCode || payload.Error != tc.wantErr {
				t.Fatalf("unexpected mapping: got (%d,%s) want (%d,%s)", code, payload.Error, tc.wantCode, tc.wantErr)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		in   service.Result[int]
		want int
	}{
		{"ok", service.Ok(1), http.StatusCreated},
		{"validation", service.Invalid[int](map[string][]string{"Name": {"Name is required."}}), http.StatusBadRequest},
		{"not found", service.Fail[int]("Player with ID 3 could not be found."), http.StatusNotFound},
		{"mismatch", service.Fail[int](service.MsgIDMismatch), http.StatusBadRequest},
		{"concurrency", service.Fail[int](service.MsgConcurrencyConflict), http.StatusConflict},
		{"related missing", service.Fail[int](service.MsgRelatedMissing), http.StatusConflict},
		{"delete race", service.Fail[int]("Unable to delete statistic with ID 8."), http.StatusConflict},
		{"unexpected", service.Fail[int]("An unexpected error occurred while adding the statistic."), http.StatusInternalServerError},
		{"empty failure", service.Result[int]{}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := response.Status(tc.in, http.StatusCreated); got != tc.want {
				t.Fatalf("status: got %d want %d", got, tc.want)
			}
		})
	}
}

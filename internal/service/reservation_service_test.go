package service

import (
	"errors"
	"testing"

	"github.com/iliyamo/church-agenda/internal/model"
	"github.com/iliyamo/church-agenda/internal/repository"
)

func TestReservationTransitions(t *testing.T) {
	cases := []struct {
		from string
		to   string
		ok   bool
	}{
		{model.StatusPending, model.StatusApproved, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusApproved, model.StatusCancelled, true},

		{model.StatusPending, model.StatusCancelled, false},
		{model.StatusPending, model.StatusPending, false},
		{model.StatusApproved, model.StatusApproved, false},
		{model.StatusApproved, model.StatusRejected, false},
		{model.StatusApproved, model.StatusPending, false},
		{model.StatusRejected, model.StatusApproved, false},
		{model.StatusRejected, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusApproved, false},
		{model.StatusCancelled, model.StatusPending, false},
	}
	for _, tc := range cases {
		err := reservationTransitionError(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("%s -> %s: expected error, got nil", tc.from, tc.to)
			} else if !errors.Is(err, repository.ErrConflict) {
				t.Errorf("%s -> %s: error %v is not ErrConflict", tc.from, tc.to, err)
			}
		}
	}
}

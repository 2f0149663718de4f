package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTuition(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{TuitionStatusOpen, TuitionStatusAssigned, true},
		{TuitionStatusOpen, TuitionStatusClosed, true},
		{TuitionStatusAssigned, TuitionStatusOngoing, true},
		{TuitionStatusOngoing, TuitionStatusCompleted, true},

		{TuitionStatusOpen, TuitionStatusOngoing, false},
		{TuitionStatusOpen, TuitionStatusCompleted, false},
		{TuitionStatusAssigned, TuitionStatusOpen, false},
		{TuitionStatusAssigned, TuitionStatusClosed, false},
		{TuitionStatusAssigned, TuitionStatusCompleted, false},
		{TuitionStatusOngoing, TuitionStatusOpen, false},
		{TuitionStatusOngoing, TuitionStatusClosed, false},
		{TuitionStatusCompleted, TuitionStatusOpen, false},
		{TuitionStatusCompleted, TuitionStatusOngoing, false},
		{TuitionStatusClosed, TuitionStatusOpen, false},
		{TuitionStatusClosed, TuitionStatusAssigned, false},
		{"bogus", TuitionStatusOpen, false},
		{TuitionStatusOpen, "bogus", false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, CanTransitionTuition(tc.from, tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestTutorAverageRating(t *testing.T) {
	tutor := &Tutor{}
	assert.Zero(t, tutor.AverageRating())

	tutor.RatingSum = 14
	tutor.RatingCount = 3
	assert.InDelta(t, 14.0/3.0, tutor.AverageRating(), 1e-9)
}

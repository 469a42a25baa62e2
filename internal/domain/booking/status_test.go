package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

func TestCanTransitionMatrix(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionSetsTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: string(StatusPending)}
	require.NoError(t, Transition(b, StatusConfirmed, now))
	assert.Equal(t, "confirmed", b.Status)
	require.NotNil(t, b.ConfirmedAt)
	assert.Equal(t, now, *b.ConfirmedAt)

	require.NoError(t, Transition(b, StatusCompleted, now))
	assert.Equal(t, "completed", b.Status)
	require.NotNil(t, b.CompletedAt)
}

func TestTransitionRejectsTerminalStates(t *testing.T) {
	now := time.Now()

	b := &models.Booking{Status: string(StatusCompleted)}
	err := Transition(b, StatusCancelled, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	b = &models.Booking{Status: string(StatusCancelled)}
	err = Transition(b, StatusConfirmed, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	b := &models.Booking{Status: string(StatusPending)}
	err := Transition(b, Status("archived"), time.Now())
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	now := time.Now()

	b := &models.Booking{Status: string(StatusPending)}
	require.NoError(t, Cancel(b, now))
	assert.Equal(t, "cancelled", b.Status)
	assert.NotNil(t, b.CancelledAt)

	b = &models.Booking{Status: string(StatusConfirmed)}
	require.NoError(t, Cancel(b, now))
	assert.Equal(t, "cancelled", b.Status)
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusCompleted.Active())
	assert.False(t, StatusCancelled.Active())
}

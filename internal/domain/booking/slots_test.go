package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

func workHour(start, end string) *models.WorkHour {
	return &models.WorkHour{
		BarberID:  1,
		DayOfWeek: 1,
		StartTime: start,
		EndTime:   end,
		Active:    true,
	}
}

func TestGenerateSlotsFullDayGrid(t *testing.T) {
	slots, err := GenerateSlots(workHour("09:00", "12:00"), nil, 30)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[0].EndTime)
	assert.Equal(t, "11:30", slots[5].StartTime)
	assert.Equal(t, "12:00", slots[5].EndTime)

	for _, s := range slots {
		assert.True(t, s.IsAvailable)
	}
}

func TestGenerateSlotsDropsTrailingPartialSlot(t *testing.T) {
	// 09:00-10:00 with 45-minute slots: only 09:00-09:45 fits.
	// The 09:45-10:30 candidate would spill past the window.
	slots, err := GenerateSlots(workHour("09:00", "10:00"), nil, 45)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:45", slots[0].EndTime)
}

func TestGenerateSlotsClosedDay(t *testing.T) {
	slots, err := GenerateSlots(nil, nil, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)

	wh := workHour("09:00", "18:00")
	wh.Active = false
	slots, err = GenerateSlots(wh, nil, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsInvertedWindowIsClosed(t *testing.T) {
	slots, err := GenerateSlots(workHour("18:00", "09:00"), nil, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsInvalidDuration(t *testing.T) {
	_, err := GenerateSlots(workHour("09:00", "18:00"), nil, 0)
	assert.True(t, httperr.IsBusiness(err, "invalid_duration"))

	_, err = GenerateSlots(workHour("09:00", "18:00"), nil, -15)
	assert.True(t, httperr.IsBusiness(err, "invalid_duration"))
}

func TestGenerateSlotsMarksOverlapNotEndpointEquality(t *testing.T) {
	// A 09:15-10:00 occupation must block both the 09:00 and 09:30
	// grid slots, even though neither shares its endpoints.
	occupied := []Interval{{StartMin: 555, EndMin: 600}}

	slots, err := GenerateSlots(workHour("09:00", "11:00"), occupied, 30)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.False(t, slots[0].IsAvailable, "09:00-09:30 touches the occupation")
	assert.False(t, slots[1].IsAvailable, "09:30-10:00 sits inside the occupation")
	assert.True(t, slots[2].IsAvailable, "10:00-10:30 is clear")
	assert.True(t, slots[3].IsAvailable)
}

func TestGenerateSlotsBackToBackBookingsDoNotConflict(t *testing.T) {
	// [09:00,09:30) and a 09:30 slot share only the boundary instant.
	occupied := []Interval{{StartMin: 540, EndMin: 570}}

	slots, err := GenerateSlots(workHour("09:00", "10:00"), occupied, 30)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.False(t, slots[0].IsAvailable)
	assert.True(t, slots[1].IsAvailable, "adjacent slot must stay free")
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	occupied := []Interval{{StartMin: 600, EndMin: 660}}

	first, err := GenerateSlots(workHour("09:00", "17:00"), occupied, 20)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := GenerateSlots(workHour("09:00", "17:00"), occupied, 20)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestIntervalOverlaps(t *testing.T) {
	iv := Interval{StartMin: 540, EndMin: 600}

	assert.True(t, iv.Overlaps(570, 630))
	assert.True(t, iv.Overlaps(500, 550))
	assert.True(t, iv.Overlaps(550, 560))
	assert.False(t, iv.Overlaps(600, 630), "touching at the end is not overlap")
	assert.False(t, iv.Overlaps(500, 540), "touching at the start is not overlap")
}

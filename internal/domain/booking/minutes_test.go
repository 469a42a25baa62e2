package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:50", 590, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:5", 0, true},
		{"09:60", 0, true},
		{"", 0, true},
		{"0900", 0, true},
		{"ab:cd", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseHHMM(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFormatHHMM(t *testing.T) {
	assert.Equal(t, "00:00", FormatHHMM(0))
	assert.Equal(t, "09:05", FormatHHMM(545))
	assert.Equal(t, "23:59", FormatHHMM(1439))
}

func TestAddMinutesRollsOverTheHour(t *testing.T) {
	got, err := AddMinutes("09:50", 40)
	require.NoError(t, err)
	assert.Equal(t, "10:30", got)
}

func TestAddMinutesRejectsDayOverflow(t *testing.T) {
	_, err := AddMinutes("23:30", 40)
	assert.Error(t, err)
}

func TestAddMinutesExactMidnightIsRejected(t *testing.T) {
	// A slot may not end at or past 24:00.
	_, err := AddMinutes("23:30", 30)
	assert.Error(t, err)
}

package core

import (
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceVersions(t *testing.T) {
	tests := []struct {
		name         string
		active       []int
		expected     []int
		wantActive   int
		wantExpected int
		wantErr      bool
		wantCode     errbuilder.ErrCode
	}{
		{
			name:         "promoted",
			active:       []int{5},
			expected:     []int{5},
			wantActive:   5,
			wantExpected: 5,
		},
		{
			name:         "unordered sets",
			active:       []int{9, 3, 11},
			expected:     []int{1, 11, 4, 3, 9},
			wantActive:   11,
			wantExpected: 11,
		},
		{
			name:         "newer version expired before promotion",
			active:       []int{3},
			expected:     []int{3, 4, 5},
			wantActive:   3,
			wantExpected: 5,
		},
		{
			name:     "no active versions",
			active:   nil,
			expected: []int{1},
			wantErr:  true,
			wantCode: errbuilder.CodeNotFound,
		},
		{
			name:     "no expired-inclusive versions",
			active:   []int{1},
			expected: []int{},
			wantErr:  true,
			wantCode: errbuilder.CodeNotFound,
		},
		{
			name:     "expected below active",
			active:   []int{6},
			expected: []int{5},
			wantErr:  true,
			wantCode: errbuilder.CodeFailedPrecondition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active, expected, err := ReduceVersions(tt.active, tt.expected)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errbuilder.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, active)
			assert.Equal(t, tt.wantExpected, expected)
			assert.GreaterOrEqual(t, expected, active)
		})
	}
}

func TestDaysOld(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		timestamp time.Time
		want      int
	}{
		{
			name:      "same day",
			timestamp: time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			want:      0,
		},
		{
			name:      "yesterday late evening",
			timestamp: time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC),
			want:      1,
		},
		{
			name:      "across month boundary",
			timestamp: time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC),
			want:      14,
		},
		{
			name:      "one year",
			timestamp: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			want:      365,
		},
		{
			name:      "future timestamp",
			timestamp: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
			want:      -2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysOld(today, tt.timestamp))
		})
	}
}

func TestDaysOldUsesEachValuesOwnCalendarDate(t *testing.T) {
	zone := time.FixedZone("PDT", -7*60*60)
	today := time.Date(2026, 3, 10, 20, 0, 0, 0, zone)
	timestamp := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysOld(today, timestamp))
}

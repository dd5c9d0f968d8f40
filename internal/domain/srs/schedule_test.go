package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetSchedule(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		preset  SchedulePreset
		level   int
		minutes int
	}{
		{name: "constant is one day at level 0", preset: ScheduleConstant, level: 0, minutes: 1440},
		{name: "constant is one day at level 9", preset: ScheduleConstant, level: 9, minutes: 1440},
		{name: "linear grows by a day per level", preset: ScheduleLinear, level: 3, minutes: 4 * 1440},
		{name: "quadratic squares the level", preset: ScheduleQuadratic, level: 2, minutes: 9 * 1440},
		{name: "exponential doubles per level", preset: ScheduleExponential, level: 4, minutes: 16 * 1440},
		{name: "cram stays in minutes", preset: ScheduleCram, level: 1, minutes: 10},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			schedule, err := PresetSchedule(tc.preset)
			require.NoError(t, err)
			assert.Equal(t, tc.minutes, schedule[tc.level])
		})
	}
}

func TestPresetScheduleErrors(t *testing.T) {
	t.Parallel()

	_, err := PresetSchedule(ScheduleCustom)
	assert.ErrorIs(t, err, ErrCustomNoSchedule)

	_, err = PresetSchedule(SchedulePreset("fibonacci"))
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestExpirationDate(t *testing.T) {
	t.Parallel()

	learnedAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("adds schedule minutes for the pre-raise level", func(t *testing.T) {
		t.Parallel()
		settings := NewSettings()
		settings.SetCustomSchedule([ScheduleLevels]int{60, 120, 180, 240, 300, 360, 420, 480, 540, 600})

		got := settings.ExpirationDate(learnedAt, 0)
		assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), got)

		got = settings.ExpirationDate(learnedAt, 2)
		assert.Equal(t, time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC), got)
	})

	t.Run("clamps levels beyond the schedule to the last entry", func(t *testing.T) {
		t.Parallel()
		settings := NewSettings()
		settings.SetCustomSchedule([ScheduleLevels]int{60, 120, 180, 240, 300, 360, 420, 480, 540, 600})

		assert.Equal(t,
			settings.ExpirationDate(learnedAt, 9),
			settings.ExpirationDate(learnedAt, 25))
	})

	t.Run("fixed time rolls to the next day when already past", func(t *testing.T) {
		t.Parallel()
		settings := NewSettings()
		settings.SetCustomSchedule([ScheduleLevels]int{60, 120, 180, 240, 300, 360, 420, 480, 540, 600})
		settings.FixedExpirationEnabled = true
		settings.FixedExpirationHour = 9
		settings.FixedExpirationMinute = 0

		// Raw expiration is 11:00, which is past 09:00, so the due date
		// becomes 09:00 the following day.
		got := settings.ExpirationDate(learnedAt, 0)
		assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), got)
	})

	t.Run("fixed time later the same day is kept", func(t *testing.T) {
		t.Parallel()
		settings := NewSettings()
		settings.SetCustomSchedule([ScheduleLevels]int{60, 120, 180, 240, 300, 360, 420, 480, 540, 600})
		settings.FixedExpirationEnabled = true
		settings.FixedExpirationHour = 18
		settings.FixedExpirationMinute = 30

		got := settings.ExpirationDate(learnedAt, 0)
		assert.Equal(t, time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC), got)
	})

	t.Run("exact fixed time rolls forward", func(t *testing.T) {
		t.Parallel()
		settings := NewSettings()
		settings.SetCustomSchedule([ScheduleLevels]int{60, 120, 180, 240, 300, 360, 420, 480, 540, 600})
		settings.FixedExpirationEnabled = true
		settings.FixedExpirationHour = 11
		settings.FixedExpirationMinute = 0

		got := settings.ExpirationDate(learnedAt, 0)
		assert.Equal(t, time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC), got)
	})
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(s *Settings) {}},
		{name: "zero amount to test", mutate: func(s *Settings) { s.AmountToTestFront = 0 }, wantErr: true},
		{name: "shuffle ratio above one", mutate: func(s *Settings) { s.ShuffleRatio = 1.5 }, wantErr: true},
		{name: "negative shuffle ratio", mutate: func(s *Settings) { s.ShuffleRatio = -0.1 }, wantErr: true},
		{name: "card limit enabled without value", mutate: func(s *Settings) { s.CardLimitEnabled = true }, wantErr: true},
		{name: "time limit enabled without value", mutate: func(s *Settings) { s.TimeLimitEnabled = true }, wantErr: true},
		{name: "fixed hour out of range", mutate: func(s *Settings) {
			s.FixedExpirationEnabled = true
			s.FixedExpirationHour = 24
		}, wantErr: true},
		{name: "negative schedule entry", mutate: func(s *Settings) { s.Schedule[4] = -1 }, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			settings := NewSettings()
			tc.mutate(settings)
			err := settings.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSidesMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []SidesMode{SidesNormal, SidesFlipped, SidesRandom, SidesBoth} {
		got, err := ParseSidesMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}

	_, err := ParseSidesMode("sideways")
	assert.Error(t, err)
}

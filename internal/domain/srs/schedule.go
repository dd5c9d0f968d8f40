package srs

import "time"

// SchedulePreset names one of the built-in expiration schedules. Presets are
// selected by name rather than index so that persisted settings cannot drift
// when the preset list changes.
type SchedulePreset string

const (
	// ScheduleConstant waits one day on every level.
	ScheduleConstant SchedulePreset = "constant"

	// ScheduleLinear waits level+1 days.
	ScheduleLinear SchedulePreset = "linear"

	// ScheduleQuadratic waits (level+1)^2 days.
	ScheduleQuadratic SchedulePreset = "quadratic"

	// ScheduleExponential waits 2^level days.
	ScheduleExponential SchedulePreset = "exponential"

	// ScheduleCram waits 5*(level+1) minutes, for short-term drilling.
	ScheduleCram SchedulePreset = "cram"

	// ScheduleCustom marks a caller-supplied schedule.
	ScheduleCustom SchedulePreset = "custom"
)

const minutesPerDay = 24 * 60

// PresetSchedule returns the minute schedule for a named preset.
// ScheduleCustom has no built-in schedule and returns ErrCustomNoSchedule.
func PresetSchedule(preset SchedulePreset) ([ScheduleLevels]int, error) {
	var schedule [ScheduleLevels]int

	switch preset {
	case ScheduleConstant:
		for i := range schedule {
			schedule[i] = minutesPerDay
		}
	case ScheduleLinear:
		for i := range schedule {
			schedule[i] = (i + 1) * minutesPerDay
		}
	case ScheduleQuadratic:
		for i := range schedule {
			schedule[i] = (i + 1) * (i + 1) * minutesPerDay
		}
	case ScheduleExponential:
		for i := range schedule {
			schedule[i] = (1 << i) * minutesPerDay
		}
	case ScheduleCram:
		for i := range schedule {
			schedule[i] = (i + 1) * 5
		}
	case ScheduleCustom:
		return schedule, ErrCustomNoSchedule
	default:
		return schedule, ErrUnknownPreset
	}

	return schedule, nil
}

// ExpirationDate computes when a card raised at learnInstant expires.
// preRaiseLevel is the deck level before the raise; levels beyond the
// schedule use its last entry. With a fixed expiration time configured, the
// result snaps forward to the next occurrence of that time of day: if the
// computed instant's time of day is already at or past the fixed time, the
// date rolls to the following day before the time of day is applied.
func (s *Settings) ExpirationDate(learnInstant time.Time, preRaiseLevel int) time.Time {
	level := preRaiseLevel
	if level > ScheduleLevels-1 {
		level = ScheduleLevels - 1
	}
	date := learnInstant.Add(time.Duration(s.Schedule[level]) * time.Minute)

	if !s.FixedExpirationEnabled {
		return date
	}

	hour, minute := date.Hour(), date.Minute()
	if hour > s.FixedExpirationHour ||
		(hour == s.FixedExpirationHour && minute >= s.FixedExpirationMinute) {
		date = date.AddDate(0, 0, 1)
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		s.FixedExpirationHour, s.FixedExpirationMinute, 0, 0, date.Location())
}

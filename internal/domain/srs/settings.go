package srs

import (
	"errors"
	"fmt"
)

// Settings errors.
var (
	ErrUnknownPreset    = errors.New("unknown schedule preset")
	ErrInvalidSettings  = errors.New("invalid learn settings")
	ErrCustomNoSchedule = errors.New("custom preset requires an explicit schedule")
)

// ScheduleLevels is the number of deck levels a schedule covers. Cards on
// higher decks use the last entry.
const ScheduleLevels = 10

// SidesMode selects which card side a session presents.
type SidesMode int

const (
	// SidesNormal always shows the front side.
	SidesNormal SidesMode = iota

	// SidesFlipped always shows the back side.
	SidesFlipped

	// SidesRandom picks the side with a coin flip per card.
	SidesRandom

	// SidesBoth tests both sides independently; a card is learned only
	// once each side reached its amount-to-test.
	SidesBoth
)

// String returns the mode's configuration name.
func (m SidesMode) String() string {
	switch m {
	case SidesNormal:
		return "normal"
	case SidesFlipped:
		return "flipped"
	case SidesRandom:
		return "random"
	case SidesBoth:
		return "both"
	default:
		return fmt.Sprintf("sides(%d)", int(m))
	}
}

// ParseSidesMode converts a configuration name into a SidesMode.
func ParseSidesMode(name string) (SidesMode, error) {
	switch name {
	case "normal":
		return SidesNormal, nil
	case "flipped":
		return SidesFlipped, nil
	case "random":
		return SidesRandom, nil
	case "both":
		return SidesBoth, nil
	default:
		return 0, fmt.Errorf("%w: unknown sides mode %q", ErrInvalidSettings, name)
	}
}

// CategoryOrder selects how categories are ordered when grouping is on.
type CategoryOrder int

const (
	// CategoryOrderFixed keeps the tree's depth-first order.
	CategoryOrderFixed CategoryOrder = iota

	// CategoryOrderRandom permutes the categories once per session.
	CategoryOrderRandom
)

// Settings is the strategy configuration of one learn session. It must not
// change while a session is running.
type Settings struct {
	// AmountToTestFront and AmountToTestBack are the number of correct
	// answers each side needs under both-sides testing.
	AmountToTestFront int
	AmountToTestBack  int

	// Preset names the schedule in use; Schedule holds the minutes until a
	// card raised from deck level i expires.
	Preset   SchedulePreset
	Schedule [ScheduleLevels]int

	// FixedExpirationEnabled snaps every expiration forward to the next
	// occurrence of the configured time of day.
	FixedExpirationEnabled bool
	FixedExpirationHour    int
	FixedExpirationMinute  int

	// CardLimit caps how many cards a session learns; the rest wait in
	// reserve.
	CardLimitEnabled bool
	CardLimit        int

	// TimeLimit caps the session's wall-clock minutes. The limit is
	// enforced by the host via Session.Quit, not by the core.
	TimeLimitEnabled bool
	TimeLimit        int

	// RetestFailedCards keeps failed cards in the session for another try.
	RetestFailedCards bool

	Sides SidesMode

	// GroupByCategory refines the draw order so cards of the same category
	// are shown together; CategoryOrder picks the category sequence.
	GroupByCategory bool
	CategoryOrder   CategoryOrder

	// ShuffleRatio in [0,1] is the fraction of candidate cards drawn at a
	// random deck level instead of their real one.
	ShuffleRatio float64
}

// NewSettings returns settings with the defaults of the original strategy:
// linear schedule, one correct answer per side, no limits, front side only.
func NewSettings() *Settings {
	s := &Settings{
		AmountToTestFront: 1,
		AmountToTestBack:  1,
	}
	// Linear is always a valid preset.
	_ = s.SetSchedulePreset(ScheduleLinear)
	return s
}

// AmountToTest returns the required correct count for one side. front
// selects the front side.
func (s *Settings) AmountToTest(front bool) int {
	if front {
		return s.AmountToTestFront
	}
	return s.AmountToTestBack
}

// SetSchedulePreset installs one of the named preset schedules.
func (s *Settings) SetSchedulePreset(preset SchedulePreset) error {
	schedule, err := PresetSchedule(preset)
	if err != nil {
		return err
	}
	s.Preset = preset
	s.Schedule = schedule
	return nil
}

// SetCustomSchedule installs an arbitrary 10-entry minute schedule.
func (s *Settings) SetCustomSchedule(schedule [ScheduleLevels]int) {
	s.Preset = ScheduleCustom
	s.Schedule = schedule
}

// Validate reports whether the settings are internally consistent.
func (s *Settings) Validate() error {
	if s.AmountToTestFront < 1 || s.AmountToTestBack < 1 {
		return fmt.Errorf("%w: amount to test must be at least 1", ErrInvalidSettings)
	}
	if s.ShuffleRatio < 0 || s.ShuffleRatio > 1 {
		return fmt.Errorf("%w: shuffle ratio %v outside [0,1]", ErrInvalidSettings, s.ShuffleRatio)
	}
	if s.CardLimitEnabled && s.CardLimit < 1 {
		return fmt.Errorf("%w: card limit must be at least 1", ErrInvalidSettings)
	}
	if s.TimeLimitEnabled && s.TimeLimit < 1 {
		return fmt.Errorf("%w: time limit must be at least 1 minute", ErrInvalidSettings)
	}
	if s.FixedExpirationEnabled {
		if s.FixedExpirationHour < 0 || s.FixedExpirationHour > 23 {
			return fmt.Errorf("%w: fixed expiration hour %d outside [0,23]",
				ErrInvalidSettings, s.FixedExpirationHour)
		}
		if s.FixedExpirationMinute < 0 || s.FixedExpirationMinute > 59 {
			return fmt.Errorf("%w: fixed expiration minute %d outside [0,59]",
				ErrInvalidSettings, s.FixedExpirationMinute)
		}
	}
	for i, minutes := range s.Schedule {
		if minutes < 0 {
			return fmt.Errorf("%w: schedule entry %d is negative", ErrInvalidSettings, i)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/phrazzld/leitner/internal/domain/srs"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"     validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// SessionConfig describes the learn strategy in file/env friendly terms.
// It converts into srs.Settings via Settings.
type SessionConfig struct {
	Sides             string `mapstructure:"sides"                validate:"required,oneof=normal flipped random both"`
	AmountToTestFront int    `mapstructure:"amount_to_test_front" validate:"min=1"`
	AmountToTestBack  int    `mapstructure:"amount_to_test_back"  validate:"min=1"`

	// SchedulePreset names one of the built-in schedules; "custom" uses
	// CustomSchedule.
	SchedulePreset string `mapstructure:"schedule_preset" validate:"required,oneof=constant linear quadratic exponential cram custom"`
	CustomSchedule []int  `mapstructure:"custom_schedule" validate:"omitempty,len=10,dive,min=0"`

	// FixedExpiration is a "HH:MM" time of day; empty disables the snap.
	FixedExpiration string `mapstructure:"fixed_expiration" validate:"omitempty"`

	// CardLimit and TimeLimitMinutes of 0 disable the respective limit.
	CardLimit        int `mapstructure:"card_limit"         validate:"min=0"`
	TimeLimitMinutes int `mapstructure:"time_limit_minutes" validate:"min=0"`

	RetestFailedCards bool `mapstructure:"retest_failed_cards"`

	GroupByCategory bool   `mapstructure:"group_by_category"`
	CategoryOrder   string `mapstructure:"category_order" validate:"required,oneof=fixed random"`

	ShuffleRatio float64 `mapstructure:"shuffle_ratio" validate:"gte=0,lte=1"`
}

// Settings converts the session configuration into the strategy object the
// learn session consumes.
func (c *SessionConfig) Settings() (*srs.Settings, error) {
	settings := srs.NewSettings()

	sides, err := srs.ParseSidesMode(c.Sides)
	if err != nil {
		return nil, err
	}
	settings.Sides = sides
	settings.AmountToTestFront = c.AmountToTestFront
	settings.AmountToTestBack = c.AmountToTestBack

	preset := srs.SchedulePreset(c.SchedulePreset)
	if preset == srs.ScheduleCustom {
		if len(c.CustomSchedule) != srs.ScheduleLevels {
			return nil, fmt.Errorf("custom schedule needs %d entries, got %d",
				srs.ScheduleLevels, len(c.CustomSchedule))
		}
		var schedule [srs.ScheduleLevels]int
		copy(schedule[:], c.CustomSchedule)
		settings.SetCustomSchedule(schedule)
	} else if err := settings.SetSchedulePreset(preset); err != nil {
		return nil, fmt.Errorf("applying schedule preset %q: %w", c.SchedulePreset, err)
	}

	if c.FixedExpiration != "" {
		at, err := time.Parse("15:04", c.FixedExpiration)
		if err != nil {
			return nil, fmt.Errorf("parsing fixed expiration %q: %w", c.FixedExpiration, err)
		}
		settings.FixedExpirationEnabled = true
		settings.FixedExpirationHour = at.Hour()
		settings.FixedExpirationMinute = at.Minute()
	}

	if c.CardLimit > 0 {
		settings.CardLimitEnabled = true
		settings.CardLimit = c.CardLimit
	}
	if c.TimeLimitMinutes > 0 {
		settings.TimeLimitEnabled = true
		settings.TimeLimit = c.TimeLimitMinutes
	}

	settings.RetestFailedCards = c.RetestFailedCards
	settings.GroupByCategory = c.GroupByCategory
	if c.CategoryOrder == "random" {
		settings.CategoryOrder = srs.CategoryOrderRandom
	}
	settings.ShuffleRatio = c.ShuffleRatio

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is a single flashcard. The fields relevant to scheduling (deck level,
// expiration, per-side learned amounts) are unexported and change only
// through the owning Category's mutation API, which emits a change event for
// every mutation. Sessions read card state but never write it directly.
type Card struct {
	ID    uuid.UUID
	Front string
	Back  string

	category *Category

	level       int
	dateCreated time.Time
	dateTouched time.Time
	dateExpired time.Time // zero while the card is unlearned

	learnedFront int
	learnedBack  int

	testsTotal int
	testsHit   int
}

// NewCard creates a card with the given sides. The card belongs to no
// category until added to one.
func NewCard(front, back string) (*Card, error) {
	if front == "" {
		return nil, ErrCardFrontEmpty
	}
	if back == "" {
		return nil, ErrCardBackEmpty
	}

	now := time.Now().UTC()
	return &Card{
		ID:          uuid.New(),
		Front:       front,
		Back:        back,
		dateCreated: now,
		dateTouched: now,
	}, nil
}

// Level returns the card's deck level. 0 means the card has never been
// learned or was reset after a failure.
func (c *Card) Level() int {
	return c.level
}

// Category returns the category the card currently belongs to, or nil.
func (c *Card) Category() *Category {
	return c.category
}

// LearnedAmount returns how many times the given side has been answered
// correctly under both-sides testing. front selects the front side.
func (c *Card) LearnedAmount(front bool) int {
	if front {
		return c.learnedFront
	}
	return c.learnedBack
}

// DateCreated returns when the card was created.
func (c *Card) DateCreated() time.Time {
	return c.dateCreated
}

// DateTouched returns when the card was last tested or moved.
func (c *Card) DateTouched() time.Time {
	return c.dateTouched
}

// DateExpired returns when the card's current level expires. The zero time
// means the card is unlearned.
func (c *Card) DateExpired() time.Time {
	return c.dateExpired
}

// IsUnlearned reports whether the card has never been learned (or has been
// reset since).
func (c *Card) IsUnlearned() bool {
	return c.dateExpired.IsZero()
}

// IsExpired reports whether the card was learned but its review is due.
func (c *Card) IsExpired(now time.Time) bool {
	return !c.dateExpired.IsZero() && !c.dateExpired.After(now)
}

// IsLearned reports whether the card is learned and not yet due.
func (c *Card) IsLearned(now time.Time) bool {
	return !c.dateExpired.IsZero() && c.dateExpired.After(now)
}

// TestsTotal returns how many times the card has been checked.
func (c *Card) TestsTotal() int {
	return c.testsTotal
}

// TestsHit returns how many checks were passed.
func (c *Card) TestsHit() int {
	return c.testsHit
}

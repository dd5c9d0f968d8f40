package domain

import (
	"log/slog"
	"time"

	"github.com/phrazzld/leitner/internal/events"
)

// Category is a node in the category tree. Each node owns an ordered list of
// cards and may have child categories. The root node owns the event
// dispatcher: any mutation anywhere in the tree emits its event there, so a
// single registration observes the whole tree.
type Category struct {
	Name string

	parent   *Category
	children []*Category
	cards    []*Card

	dispatcher *events.Dispatcher[*Card] // set on the root only
}

// NewCategory creates a root category. A nil logger falls back to
// slog.Default.
func NewCategory(name string, logger *slog.Logger) (*Category, error) {
	if name == "" {
		return nil, ErrCategoryNameEmpty
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Category{
		Name:       name,
		dispatcher: events.NewDispatcher[*Card](logger),
	}, nil
}

// AddChild creates a new child category under c and returns it.
func (c *Category) AddChild(name string) (*Category, error) {
	if name == "" {
		return nil, ErrCategoryNameEmpty
	}
	child := &Category{Name: name, parent: c}
	c.children = append(c.children, child)
	return child, nil
}

// Parent returns the parent category, or nil for the root.
func (c *Category) Parent() *Category {
	return c.parent
}

// Root returns the root of the tree c belongs to.
func (c *Category) Root() *Category {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Register subscribes handler to all card events of the tree.
func (c *Category) Register(handler events.Handler[*Card]) {
	c.Root().dispatcher.Register(handler)
}

// Unregister removes a previously registered handler.
func (c *Category) Unregister(handler events.Handler[*Card]) {
	c.Root().dispatcher.Unregister(handler)
}

func (c *Category) dispatch(kind events.Kind, card *Card) {
	c.Root().dispatcher.Dispatch(events.Event[*Card]{Kind: kind, Subject: card})
}

// Cards returns a copy of the category's own card list, in presentation
// order.
func (c *Category) Cards() []*Card {
	out := make([]*Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// SubtreeList returns the categories of the subtree rooted at c in
// depth-first order, starting with c itself.
func (c *Category) SubtreeList() []*Category {
	out := []*Category{c}
	for _, child := range c.children {
		out = append(out, child.SubtreeList()...)
	}
	return out
}

// SubtreeCards returns all cards of the subtree rooted at c.
func (c *Category) SubtreeCards() []*Card {
	var out []*Card
	for _, cat := range c.SubtreeList() {
		out = append(out, cat.cards...)
	}
	return out
}

// UnlearnedCards returns the subtree's cards that have never been learned.
func (c *Category) UnlearnedCards() []*Card {
	var out []*Card
	for _, card := range c.SubtreeCards() {
		if card.IsUnlearned() {
			out = append(out, card)
		}
	}
	return out
}

// ExpiredCards returns the subtree's cards whose review is due at now.
func (c *Category) ExpiredCards(now time.Time) []*Card {
	var out []*Card
	for _, card := range c.SubtreeCards() {
		if card.IsExpired(now) {
			out = append(out, card)
		}
	}
	return out
}

// AddCard appends card to this category and emits an added event.
func (c *Category) AddCard(card *Card) {
	if card.category != nil {
		card.category.removeOwnCard(card)
	}
	card.category = c
	c.cards = append(c.cards, card)
	c.dispatch(events.KindAdded, card)
}

// RemoveCard detaches card from its category and emits a removed event.
// Returns ErrCardNotOwned if the card is not part of this tree.
func (c *Category) RemoveCard(card *Card) error {
	if err := c.checkOwned(card); err != nil {
		return err
	}
	card.category.removeOwnCard(card)
	card.category = nil
	c.dispatch(events.KindRemoved, card)
	return nil
}

// RaiseCardLevel moves card one deck up, stamps the touch time, records the
// new expiration and clears per-side learned amounts. Emits one
// deck-changed event.
func (c *Category) RaiseCardLevel(card *Card, at, expiresAt time.Time) error {
	if err := c.checkOwned(card); err != nil {
		return err
	}
	card.level++
	card.dateTouched = at
	card.dateExpired = expiresAt
	card.learnedFront = 0
	card.learnedBack = 0
	card.testsTotal++
	card.testsHit++
	c.dispatch(events.KindDeckChanged, card)
	return nil
}

// ResetCardLevel drops card back to deck 0 after a failure, clearing its
// expiration and learned amounts. Emits one deck-changed event.
func (c *Category) ResetCardLevel(card *Card, at time.Time) error {
	if err := c.checkOwned(card); err != nil {
		return err
	}
	card.level = 0
	card.dateTouched = at
	card.dateExpired = time.Time{}
	card.learnedFront = 0
	card.learnedBack = 0
	card.testsTotal++
	c.dispatch(events.KindDeckChanged, card)
	return nil
}

// ReappendCard moves card to the end of its category's presentation order.
// Emits one deck-changed event.
func (c *Category) ReappendCard(card *Card) error {
	if err := c.checkOwned(card); err != nil {
		return err
	}
	owner := card.category
	owner.removeOwnCard(card)
	owner.cards = append(owner.cards, card)
	c.dispatch(events.KindDeckChanged, card)
	return nil
}

// IncrementLearnedAmount bumps the learned counter of one side under
// both-sides testing. front selects the front side. Emits one deck-changed
// event.
func (c *Category) IncrementLearnedAmount(card *Card, front bool) error {
	if err := c.checkOwned(card); err != nil {
		return err
	}
	if front {
		card.learnedFront++
	} else {
		card.learnedBack++
	}
	card.testsTotal++
	card.testsHit++
	c.dispatch(events.KindDeckChanged, card)
	return nil
}

func (c *Category) checkOwned(card *Card) error {
	if card.category == nil || card.category.Root() != c.Root() {
		return ErrCardNotOwned
	}
	return nil
}

func (c *Category) removeOwnCard(card *Card) {
	for i, have := range c.cards {
		if have == card {
			c.cards = append(c.cards[:i], c.cards[i+1:]...)
			return
		}
	}
}

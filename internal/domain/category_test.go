package domain

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/leitner/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTree(t *testing.T) *Category {
	t.Helper()
	root, err := NewCategory("root", testLogger())
	require.NoError(t, err)
	return root
}

func newCard(t *testing.T, front string) *Card {
	t.Helper()
	card, err := NewCard(front, front+" back")
	require.NoError(t, err)
	return card
}

// eventRecorder captures every dispatched card event.
type eventRecorder struct {
	got []events.Event[*Card]
}

func (r *eventRecorder) HandleEvent(e events.Event[*Card]) {
	r.got = append(r.got, e)
}

func TestNewCategoryValidation(t *testing.T) {
	t.Parallel()

	_, err := NewCategory("", testLogger())
	assert.ErrorIs(t, err, ErrCategoryNameEmpty)
}

func TestNewCardValidation(t *testing.T) {
	t.Parallel()

	_, err := NewCard("", "back")
	assert.ErrorIs(t, err, ErrCardFrontEmpty)

	_, err = NewCard("front", "")
	assert.ErrorIs(t, err, ErrCardBackEmpty)
}

func TestSubtreeListIsDepthFirst(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	a, err := root.AddChild("a")
	require.NoError(t, err)
	aa, err := a.AddChild("aa")
	require.NoError(t, err)
	b, err := root.AddChild("b")
	require.NoError(t, err)

	assert.Equal(t, []*Category{root, a, aa, b}, root.SubtreeList())
	assert.Equal(t, root, aa.Root())
}

func TestMutationsEmitOneEventEach(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	recorder := &eventRecorder{}
	root.Register(recorder)

	card := newCard(t, "q")
	at := time.Now().UTC()

	root.AddCard(card)
	require.NoError(t, root.RaiseCardLevel(card, at, at.Add(time.Hour)))
	require.NoError(t, root.IncrementLearnedAmount(card, true))
	require.NoError(t, root.ReappendCard(card))
	require.NoError(t, root.ResetCardLevel(card, at))
	require.NoError(t, root.RemoveCard(card))

	require.Len(t, recorder.got, 6)
	kinds := make([]events.Kind, len(recorder.got))
	for i, e := range recorder.got {
		kinds[i] = e.Kind
		assert.Same(t, card, e.Subject)
	}
	assert.Equal(t, []events.Kind{
		events.KindAdded,
		events.KindDeckChanged,
		events.KindDeckChanged,
		events.KindDeckChanged,
		events.KindDeckChanged,
		events.KindRemoved,
	}, kinds)
}

func TestChildMutationsReachRootHandlers(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	child, err := root.AddChild("child")
	require.NoError(t, err)

	recorder := &eventRecorder{}
	root.Register(recorder)

	card := newCard(t, "q")
	child.AddCard(card)

	require.Len(t, recorder.got, 1)
	assert.Equal(t, events.KindAdded, recorder.got[0].Kind)
	assert.Same(t, child, card.Category())
}

func TestRaiseCardLevel(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	card := newCard(t, "q")
	root.AddCard(card)

	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	expires := at.Add(24 * time.Hour)
	require.NoError(t, root.IncrementLearnedAmount(card, true))
	require.NoError(t, root.RaiseCardLevel(card, at, expires))

	assert.Equal(t, 1, card.Level())
	assert.Equal(t, at, card.DateTouched())
	assert.Equal(t, expires, card.DateExpired())
	assert.Equal(t, 0, card.LearnedAmount(true), "raise clears side progress")
	assert.True(t, card.IsLearned(at))
	assert.True(t, card.IsExpired(expires))
}

func TestResetCardLevel(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	card := newCard(t, "q")
	root.AddCard(card)

	at := time.Now().UTC()
	require.NoError(t, root.RaiseCardLevel(card, at, at.Add(time.Hour)))
	require.NoError(t, root.ResetCardLevel(card, at))

	assert.Equal(t, 0, card.Level())
	assert.True(t, card.IsUnlearned())
	assert.Equal(t, 2, card.TestsTotal())
	assert.Equal(t, 1, card.TestsHit())
}

func TestReappendMovesCardLast(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	a := newCard(t, "a")
	b := newCard(t, "b")
	root.AddCard(a)
	root.AddCard(b)

	require.NoError(t, root.ReappendCard(a))

	assert.Equal(t, []*Card{b, a}, root.Cards())
}

func TestMutatingUnownedCardFails(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	card := newCard(t, "q")

	assert.ErrorIs(t, root.RaiseCardLevel(card, time.Now(), time.Now()), ErrCardNotOwned)
	assert.ErrorIs(t, root.ResetCardLevel(card, time.Now()), ErrCardNotOwned)
	assert.ErrorIs(t, root.ReappendCard(card), ErrCardNotOwned)
	assert.ErrorIs(t, root.RemoveCard(card), ErrCardNotOwned)
}

func TestUnlearnedAndExpiredQueries(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	root := newTree(t)
	child, err := root.AddChild("child")
	require.NoError(t, err)

	fresh := newCard(t, "fresh")
	root.AddCard(fresh)

	due := newCard(t, "due")
	child.AddCard(due)
	require.NoError(t, root.RaiseCardLevel(due, now.Add(-48*time.Hour), now.Add(-time.Hour)))

	current := newCard(t, "current")
	child.AddCard(current)
	require.NoError(t, root.RaiseCardLevel(current, now, now.Add(24*time.Hour)))

	assert.Equal(t, []*Card{fresh}, root.UnlearnedCards())
	assert.Equal(t, []*Card{due}, root.ExpiredCards(now))
	assert.Len(t, root.SubtreeCards(), 3)
}

// Package learn implements the learn session: a stateful scheduler that,
// given a pool of flashcards and a strategy, decides which card to present
// next, how a card's deck level changes after the user's answer, when its
// next review is due, and when the session ends.
//
// The session is driven by two kinds of input: direct calls (CardChecked,
// CardSkipped, Quit) and the card events its own mutations trigger on the
// category tree. A mutation's event re-enters the session synchronously,
// before the mutating call returns, and that re-entrant delivery is what
// advances the session to the next card.
package learn

// Package domain defines the core entities of the Leitner system: flashcards
// and the category tree that owns them. All card mutations relevant to
// learning (level raise, level reset, reappend, learned-amount increment) go
// through the owning category so that every change emits exactly one typed
// event to handlers registered on the tree's root.
package domain

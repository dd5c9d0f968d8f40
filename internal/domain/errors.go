package domain

import "errors"

// Validation errors shared across domain entities.
var (
	// ErrCardFrontEmpty is returned when a card's front side has no content.
	ErrCardFrontEmpty = errors.New("card front side cannot be empty")

	// ErrCardBackEmpty is returned when a card's back side has no content.
	ErrCardBackEmpty = errors.New("card back side cannot be empty")

	// ErrCategoryNameEmpty is returned when a category name is empty.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")

	// ErrCardNotOwned is returned when a mutation is requested for a card
	// that does not belong to any category of the tree.
	ErrCardNotOwned = errors.New("card does not belong to a category")
)

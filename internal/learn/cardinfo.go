package learn

import (
	"github.com/phrazzld/leitner/internal/domain"
)

// cardInfo wraps one card for the duration of a session. level is the
// card's shadow level: the key used to bucket the card into equivalence
// classes. It normally tracks the card's real deck level but diverges when
// shuffling deliberately assigns the card a different draw position.
// At most one cardInfo exists per card per session.
type cardInfo struct {
	card  *domain.Card
	level int
}

func newCardInfo(card *domain.Card) *cardInfo {
	return &cardInfo{card: card, level: card.Level()}
}

// syncLevel re-reads the card's real level into the shadow level. Used
// after a level mutation so reclassification sees the new key.
func (ci *cardInfo) syncLevel() {
	ci.level = ci.card.Level()
}

// compare orders card wrappers by shadow level, refined by category group
// order when grouping is enabled. Wrappers that compare equal form one
// equivalence class of the draw set.
func (s *Session) compare(a, b *cardInfo) int {
	if a.level != b.level {
		return a.level - b.level
	}
	if s.settings.GroupByCategory {
		return s.categoryPosition(a.card.Category()) - s.categoryPosition(b.card.Category())
	}
	return 0
}

// categoryPosition returns the category's slot in the group order. Unknown
// or missing categories sort last.
func (s *Session) categoryPosition(cat *domain.Category) int {
	if pos, ok := s.categoryOrder[cat]; ok {
		return pos
	}
	return len(s.categoryOrder)
}

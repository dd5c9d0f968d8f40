package learn

import (
	"time"

	"github.com/phrazzld/leitner/internal/domain"
)

// CardObserver is notified once per successful advance with the card to
// present and whether to show it flipped. Observers are called in
// registration order.
type CardObserver interface {
	NextCardFetched(card *domain.Card, flipped bool)
}

// Provider is the session lifecycle sink. SessionEnded is called exactly
// once, when the session transitions to Ended.
type Provider interface {
	SessionEnded(session *Session)
}

// Summary captures the outcome of a session for history recording.
type Summary struct {
	Start     time.Time
	End       time.Time
	Learned   int
	Passed    int
	Failed    int
	Relearned int
	Skipped   int
	Relevant  bool
}

// Summary returns the session's outcome so far. Meaningful once the
// session has ended but safe to call at any time.
func (s *Session) Summary() Summary {
	return Summary{
		Start:     s.start,
		End:       s.end,
		Learned:   len(s.learned),
		Passed:    len(s.PassedCards()),
		Failed:    len(s.FailedCards()),
		Relearned: len(s.RelearnedCards()),
		Skipped:   len(s.skipped),
		Relevant:  s.IsRelevant(),
	}
}

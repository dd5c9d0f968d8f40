package learn

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/srs"
	"github.com/phrazzld/leitner/internal/eqset"
	"github.com/phrazzld/leitner/internal/events"
)

type state int

const (
	stateUnstarted state = iota
	stateRunning
	stateEnded
)

// Config assembles the dependencies of a session. Category and Settings are
// required; everything else has a usable zero value.
type Config struct {
	// Category is the subtree whose cards are learned. The session
	// registers for card events on the tree's root.
	Category *domain.Category

	// Settings is the strategy for this session. It must not be mutated
	// while the session runs.
	Settings *srs.Settings

	// SelectedCards is the explicit candidate list. It is only consulted
	// when both LearnUnlearned and LearnExpired are false.
	SelectedCards []*domain.Card

	// LearnUnlearned adds the subtree's unlearned cards to the candidates.
	LearnUnlearned bool

	// LearnExpired adds the subtree's expired cards to the candidates.
	LearnExpired bool

	// Provider receives the single SessionEnded call. Optional.
	Provider Provider

	// Logger for session debug output. Nil falls back to slog.Default.
	Logger *slog.Logger

	// Rand drives shuffling and side selection. Nil seeds from the clock.
	// Inject a fixed source for reproducible tests.
	Rand *rand.Rand

	// Now supplies the session clock. Nil uses time.Now.
	Now func() time.Time
}

// Session is a single learn session over a fixed candidate pool. Its cards
// are partitioned into an active draw set and a reserve (populated when a
// card limit is in effect), with marker sets tracking which cards were
// learned, failed, skipped or partially learned. A session moves through
// Unstarted, Running and Ended exactly once and is confined to one
// goroutine.
type Session struct {
	category *domain.Category
	root     *domain.Category
	settings *srs.Settings
	provider Provider
	logger   *slog.Logger
	rng      *rand.Rand
	now      func() time.Time

	state   state
	quit    bool
	current *cardInfo

	active  *eqset.Set[*cardInfo]
	reserve *eqset.Set[*cardInfo]

	// checked lists cards in last-seen order, without duplicates.
	checked []*domain.Card

	learned       map[*domain.Card]struct{}
	everFailed    map[*domain.Card]struct{}
	skipped       map[*domain.Card]struct{}
	activePartial map[*domain.Card]struct{}

	infos map[*domain.Card]*cardInfo

	categoryOrder map[*domain.Category]int

	observers []CardObserver

	start time.Time
	end   time.Time
}

// NewSession builds a session over cfg's candidate cards. The candidate set
// is the subtree's unlearned and/or expired cards when either flag is set,
// and cfg.SelectedCards otherwise. A cfg.Settings.ShuffleRatio fraction of
// the candidates is assigned a random shadow level differing from their
// real one, which only has an effect when the candidates span at least two
// distinct levels.
//
// The session registers on the category tree's root immediately so card
// mutations reach it; events are ignored until Start.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Category == nil {
		return nil, ErrNilCategory
	}
	if cfg.Settings == nil {
		return nil, ErrNilSettings
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session settings: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		category:      cfg.Category,
		root:          cfg.Category.Root(),
		settings:      cfg.Settings,
		provider:      cfg.Provider,
		logger:        logger.With("component", "learn_session"),
		rng:           rng,
		now:           now,
		learned:       make(map[*domain.Card]struct{}),
		everFailed:    make(map[*domain.Card]struct{}),
		skipped:       make(map[*domain.Card]struct{}),
		activePartial: make(map[*domain.Card]struct{}),
		infos:         make(map[*domain.Card]*cardInfo),
	}

	if cfg.Settings.GroupByCategory {
		s.categoryOrder = s.buildCategoryOrder()
	}

	s.active = s.fetchCards(cfg.SelectedCards, cfg.LearnUnlearned, cfg.LearnExpired)
	s.reserve = eqset.NewWithRand(s.active.Comparator(), rng)

	s.root.Register(s)

	return s, nil
}

// Start begins the session. With a card limit in effect and more candidates
// than the limit, the whole candidate set becomes the reserve and exactly
// CardLimit cards are carved back out as the active pool, lowest levels
// first. Start then advances to the first card. Calling Start twice returns
// ErrAlreadyStarted.
func (s *Session) Start() error {
	if s.state != stateUnstarted {
		return ErrAlreadyStarted
	}
	s.state = stateRunning
	s.start = s.now()

	if s.settings.CardLimitEnabled && s.active.Size() > s.settings.CardLimit {
		s.reserve = s.active
		s.active = s.reserve.Partition(s.settings.CardLimit)
	}

	s.logger.Debug("session started",
		"active", s.active.Size(),
		"reserve", s.reserve.Size())

	s.advance()
	return nil
}

// End terminates the session. Safe to call in any state; only the first
// call that reaches Ended notifies the provider.
func (s *Session) End() {
	s.finish()
}

// Quit requests termination. The flag is cooperative: it takes effect on
// the next advance attempt, not immediately. Hosts enforcing the time limit
// call this from their timer.
func (s *Session) Quit() {
	s.quit = true
}

// CardChecked applies a pass or fail to the current card. shownFlipped must
// be the orientation the card was presented with.
//
// On a pass under both-sides testing the tested side's learned amount is
// incremented first; the card's level only raises once both sides have
// reached their amount-to-test, otherwise the card stays active and is
// marked partially learned. On a fail the card's level is reset; with
// retesting disabled it also leaves the active pool for good, and if it was
// above level 0 it is recorded as failed.
//
// The card mutation triggered here re-enters the session synchronously and
// advances to the next card; when CardChecked returns, the session already
// presents the following card or has ended.
func (s *Session) CardChecked(passed, shownFlipped bool) error {
	info, err := s.checkCurrent()
	if err != nil {
		return err
	}
	card := info.card

	s.logger.Debug("card checked", "card_id", card.ID, "passed", passed, "flipped", shownFlipped)

	delete(s.skipped, card)
	delete(s.activePartial, card)

	if passed {
		raise := true

		if s.settings.Sides == srs.SidesBoth {
			front := card.LearnedAmount(true)
			back := card.LearnedAmount(false)
			if shownFlipped {
				back++
			} else {
				front++
			}

			if front < s.settings.AmountToTest(true) || back < s.settings.AmountToTest(false) {
				// Partially learned: record the progress, no level change.
				s.activePartial[card] = struct{}{}
				raise = false
				if err := s.category.IncrementLearnedAmount(card, !shownFlipped); err != nil {
					return fmt.Errorf("incrementing learned amount: %w", err)
				}
			}
		}

		if raise {
			if err := s.raiseCardLevel(card); err != nil {
				return err
			}
		}
		return nil
	}

	if !s.settings.RetestFailedCards {
		s.active.Remove(info)
	}
	if card.Level() > 0 {
		s.everFailed[card] = struct{}{}
	}

	// The reset event re-enters the session and advances past this card
	// while its equivalence class is still stale; the draw set tolerates
	// that, and the class is fixed right after.
	if err := s.category.ResetCardLevel(card, s.start); err != nil {
		return fmt.Errorf("resetting card level: %w", err)
	}

	info.syncLevel()
	s.active.ResetEquivalenceClass(info)
	return nil
}

// CardSkipped puts the current card aside. With a non-empty reserve the
// card swaps places with the reserve's next draw, so the active pool keeps
// its size; the skipped card becomes drawable again only once the reserve's
// current pass completes. The card is marked skipped until its next check
// and moves to the end of its category's presentation order, whose change
// event advances the session.
func (s *Session) CardSkipped() error {
	info, err := s.checkCurrent()
	if err != nil {
		return err
	}
	card := info.card

	s.logger.Debug("card skipped", "card_id", card.ID)

	s.skipped[card] = struct{}{}

	if !s.reserve.IsEmpty() {
		delete(s.activePartial, card)

		replacement, derr := s.reserve.LoopIterator().Next()
		if derr != nil {
			panic(fmt.Sprintf("learn: non-empty reserve failed to draw: %v", derr))
		}
		if replacement.card.LearnedAmount(true) > 0 || replacement.card.LearnedAmount(false) > 0 {
			s.activePartial[replacement.card] = struct{}{}
		}

		s.active.Add(replacement)
		s.reserve.Remove(replacement)
		s.reserve.AddExpired(info)
		s.active.Remove(info)
	}

	if err := s.category.ReappendCard(card); err != nil {
		return fmt.Errorf("reappending skipped card: %w", err)
	}
	return nil
}

// HandleEvent routes card events from the category tree into the session.
// Events for cards the session does not know are ignored, as are all events
// outside the Running state.
func (s *Session) HandleEvent(event events.Event[*domain.Card]) {
	if s.state != stateRunning {
		return
	}
	card := event.Subject
	info, known := s.infos[card]
	if !known {
		return
	}

	switch event.Kind {
	case events.KindAdded:
		total := len(s.learned) + s.active.Size()
		if s.settings.CardLimitEnabled && total >= s.settings.CardLimit {
			s.reserve.Add(info)
		} else {
			s.active.Add(info)
		}

	case events.KindRemoved:
		s.active.Remove(info)
		s.reserve.Remove(info)
		delete(s.learned, card)
		delete(s.activePartial, card)
		delete(s.everFailed, card)
		delete(s.skipped, card)
		delete(s.infos, card)
		s.checked = removeCard(s.checked, card)

		if info == s.current {
			s.current = nil
			s.advance()
		}

	case events.KindDeckChanged:
		if info == s.current {
			s.advance()
			return
		}
		// A non-current card changed level through an outside mutation:
		// reclassify eagerly so its draw position cannot go stale.
		info.syncLevel()
		if s.active.Contains(info) {
			s.active.ResetEquivalenceClass(info)
		} else if s.reserve.Contains(info) {
			s.reserve.ResetEquivalenceClass(info)
		}
	}
}

// CurrentCard returns the card being presented. Only valid while the
// session is running.
func (s *Session) CurrentCard() (*domain.Card, error) {
	if s.state != stateRunning {
		return nil, ErrNotRunning
	}
	if s.current == nil {
		return nil, ErrNoCurrentCard
	}
	return s.current.card, nil
}

// CurrentShuffleLevel returns the shadow level the current card is drawn
// at, which differs from its real level for shuffled cards.
func (s *Session) CurrentShuffleLevel() (int, error) {
	if s.state != stateRunning {
		return 0, ErrNotRunning
	}
	if s.current == nil {
		return 0, ErrNoCurrentCard
	}
	return s.current.level, nil
}

// Settings returns the session's strategy configuration.
func (s *Session) Settings() *srs.Settings {
	return s.settings
}

// Category returns the subtree being learned.
func (s *Session) Category() *domain.Category {
	return s.category
}

// StartTime returns when Start was called; zero before that.
func (s *Session) StartTime() time.Time {
	return s.start
}

// EndTime returns when the session ended; zero before that.
func (s *Session) EndTime() time.Time {
	return s.end
}

// CardsLeft returns the cards still eligible to be drawn.
func (s *Session) CardsLeft() []*domain.Card {
	infos := s.active.Elements()
	out := make([]*domain.Card, len(infos))
	for i, info := range infos {
		out[i] = info.card
	}
	return out
}

// ReserveCards returns the cards held back by the card limit.
func (s *Session) ReserveCards() []*domain.Card {
	infos := s.reserve.Elements()
	out := make([]*domain.Card, len(infos))
	for i, info := range infos {
		out[i] = info.card
	}
	return out
}

// LearnedCards returns the cards that completed their pass criteria this
// session.
func (s *Session) LearnedCards() []*domain.Card {
	return cardSetToSlice(s.learned)
}

// SkippedCards returns the cards currently marked skipped.
func (s *Session) SkippedCards() []*domain.Card {
	return cardSetToSlice(s.skipped)
}

// PassedCards returns the cards learned without ever failing.
func (s *Session) PassedCards() []*domain.Card {
	out := make([]*domain.Card, 0, len(s.learned))
	for card := range s.learned {
		if _, failed := s.everFailed[card]; !failed {
			out = append(out, card)
		}
	}
	return out
}

// FailedCards returns the cards that failed and were not learned since.
func (s *Session) FailedCards() []*domain.Card {
	out := make([]*domain.Card, 0, len(s.everFailed))
	for card := range s.everFailed {
		if _, ok := s.learned[card]; !ok {
			out = append(out, card)
		}
	}
	return out
}

// RelearnedCards returns the cards that failed at least once but were
// learned by the end.
func (s *Session) RelearnedCards() []*domain.Card {
	out := make([]*domain.Card, 0, len(s.everFailed))
	for card := range s.everFailed {
		if _, ok := s.learned[card]; ok {
			out = append(out, card)
		}
	}
	return out
}

// PartiallyLearnedCount returns how many active cards have one side's pass
// criteria satisfied but not both.
func (s *Session) PartiallyLearnedCount() int {
	return len(s.activePartial)
}

// CheckedCards returns the presented cards in last-seen order, oldest
// first, without duplicates.
func (s *Session) CheckedCards() []*domain.Card {
	out := make([]*domain.Card, len(s.checked))
	copy(out, s.checked)
	return out
}

// IsRelevant reports whether the session produced any outcome worth
// recording: at least one learned or failed card.
func (s *Session) IsRelevant() bool {
	return len(s.everFailed) > 0 || len(s.learned) > 0
}

// AddObserver registers a presentation observer.
func (s *Session) AddObserver(observer CardObserver) {
	s.observers = append(s.observers, observer)
}

// RemoveObserver drops the first registration of observer.
func (s *Session) RemoveObserver(observer CardObserver) {
	for i, have := range s.observers {
		if have == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// checkCurrent validates the protocol state for CardChecked/CardSkipped and
// asserts the session invariants on the current card.
func (s *Session) checkCurrent() (*cardInfo, error) {
	if s.state != stateRunning {
		return nil, ErrNotRunning
	}
	if s.current == nil {
		return nil, ErrNoCurrentCard
	}

	info := s.current
	if _, ok := s.learned[info.card]; ok {
		panic("learn: current card is already learned")
	}
	if s.reserve.Contains(info) {
		panic("learn: current card found in reserve")
	}
	if !s.active.Contains(info) {
		panic("learn: current card missing from active set")
	}
	return info, nil
}

// shouldQuit evaluates the termination predicates: explicit quit, an empty
// active pool, or the card limit being met by learned cards.
func (s *Session) shouldQuit() bool {
	if s.quit || s.active.IsEmpty() {
		return true
	}
	return s.settings.CardLimitEnabled && len(s.learned) >= s.settings.CardLimit
}

// advance moves to the next card or ends the session. Called from Start and
// re-entrantly from HandleEvent while a CardChecked/CardSkipped mutation is
// still on the stack.
func (s *Session) advance() {
	if s.shouldQuit() {
		s.finish()
		return
	}

	last := s.current
	info, err := s.active.LoopIterator().Next()
	if err != nil {
		panic(fmt.Sprintf("learn: draw from non-empty active set failed: %v", err))
	}

	// Avoid showing the same card twice in a row when another choice
	// exists.
	if s.active.Size() > 1 && info == last {
		info, err = s.active.LoopIterator().Next()
		if err != nil {
			panic(fmt.Sprintf("learn: redraw failed: %v", err))
		}
	}

	s.current = info
	card := info.card

	s.checked = removeCard(s.checked, card)
	s.checked = append(s.checked, card)

	flipped := s.checkIfFlipped(card)

	s.logger.Debug("next card fetched",
		"card_id", card.ID,
		"flipped", flipped,
		"active", s.active.Size())

	for _, observer := range s.observers {
		observer.NextCardFetched(card, flipped)
	}
}

// finish transitions to Ended once: records the end time, detaches from the
// category tree and notifies the provider. Subsequent calls are no-ops.
func (s *Session) finish() {
	if s.state == stateEnded {
		return
	}
	s.state = stateEnded
	s.end = s.now()
	s.root.Unregister(s)

	s.logger.Debug("session ended",
		"learned", len(s.learned),
		"failed", len(s.FailedCards()),
		"relevant", s.IsRelevant())

	if s.provider != nil {
		s.provider.SessionEnded(s)
	}
}

// raiseCardLevel completes a card: it leaves the active pool, joins the
// learned set and gets its next due date from the schedule, computed
// against the level it had before the raise.
func (s *Session) raiseCardLevel(card *domain.Card) error {
	info, ok := s.infos[card]
	if !ok {
		panic("learn: raising level of unknown card")
	}

	s.active.Remove(info)
	s.learned[card] = struct{}{}

	expiration := s.settings.ExpirationDate(s.start, card.Level())
	if err := s.category.RaiseCardLevel(card, s.start, expiration); err != nil {
		return fmt.Errorf("raising card level: %w", err)
	}
	return nil
}

// checkIfFlipped decides the presentation orientation for card under the
// session's sides mode. In both-sides mode the flipped side is chosen
// proportionally to how much of each side remains to learn.
func (s *Session) checkIfFlipped(card *domain.Card) bool {
	switch s.settings.Sides {
	case srs.SidesRandom:
		return s.rng.Intn(2) == 1
	case srs.SidesBoth:
		needFront := s.settings.AmountToTest(true) - card.LearnedAmount(true)
		needBack := s.settings.AmountToTest(false) - card.LearnedAmount(false)
		if needFront < 0 {
			needFront = 0
		}
		if needBack < 0 {
			needBack = 0
		}
		if needFront+needBack == 0 {
			return false
		}
		return s.rng.Intn(needFront+needBack) < needBack
	default:
		return s.settings.Sides == srs.SidesFlipped
	}
}

// fetchCards assembles the candidate pool: unlearned and/or expired cards
// of the subtree when either flag is set, the explicit selection otherwise.
// Each card is wrapped exactly once, then a ShuffleRatio share of the
// wrappers is moved to a random shadow level different from its real one.
func (s *Session) fetchCards(selected []*domain.Card, learnUnlearned, learnExpired bool) *eqset.Set[*cardInfo] {
	var cards []*domain.Card
	if learnUnlearned {
		cards = append(cards, s.category.UnlearnedCards()...)
	}
	if learnExpired {
		cards = append(cards, s.category.ExpiredCards(s.now())...)
	}
	if !learnUnlearned && !learnExpired {
		cards = append(cards, selected...)
	}

	var levels []int
	infos := make([]*cardInfo, 0, len(cards))
	for _, card := range cards {
		if _, dup := s.infos[card]; dup {
			continue
		}
		info := newCardInfo(card)
		infos = append(infos, info)
		s.infos[card] = info

		if !containsInt(levels, card.Level()) {
			levels = append(levels, card.Level())
		}
	}

	// Shuffling only means something when there is more than one level to
	// shuffle between.
	shuffleCount := int(s.settings.ShuffleRatio * float64(len(infos)))
	if len(levels) > 1 {
		remaining := make([]*cardInfo, len(infos))
		copy(remaining, infos)

		for i := 0; i < shuffleCount; i++ {
			idx := s.rng.Intn(len(remaining))
			info := remaining[idx]
			remaining = append(remaining[:idx], remaining[idx+1:]...)

			info.level = s.randomOtherLevel(levels, info.level)
		}
	}

	set := eqset.NewWithRand(s.compare, s.rng)
	for _, info := range infos {
		set.Add(info)
	}
	return set
}

// randomOtherLevel picks uniformly among the distinct candidate levels,
// excluding own.
func (s *Session) randomOtherLevel(levels []int, own int) int {
	pick := s.rng.Intn(len(levels) - 1)
	for _, level := range levels {
		if level == own {
			continue
		}
		if pick == 0 {
			return level
		}
		pick--
	}
	// own was not among levels; the last candidate wins.
	return levels[len(levels)-1]
}

// buildCategoryOrder maps each category of the subtree to its presentation
// slot, optionally permuted. Cards from categories outside the map sort
// last.
func (s *Session) buildCategoryOrder() map[*domain.Category]int {
	categories := s.category.SubtreeList()

	if s.settings.CategoryOrder == srs.CategoryOrderRandom {
		s.rng.Shuffle(len(categories), func(i, j int) {
			categories[i], categories[j] = categories[j], categories[i]
		})
	}

	order := make(map[*domain.Category]int, len(categories))
	for i, cat := range categories {
		order[cat] = i
	}
	return order
}

func cardSetToSlice(set map[*domain.Card]struct{}) []*domain.Card {
	out := make([]*domain.Card, 0, len(set))
	for card := range set {
		out = append(out, card)
	}
	return out
}

func removeCard(cards []*domain.Card, card *domain.Card) []*domain.Card {
	for i, have := range cards {
		if have == card {
			return append(cards[:i], cards[i+1:]...)
		}
	}
	return cards
}

func containsInt(values []int, v int) bool {
	for _, have := range values {
		if have == v {
			return true
		}
	}
	return false
}

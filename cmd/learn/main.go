// Command learn runs one interactive learn session over a YAML deck file.
//
// Usage:
//
//	learn -deck deck.yaml [-config leitner.yaml] [-unlearned] [-expired]
//
// Answers are read from stdin: y (pass), n (fail), s (skip), q (quit).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/phrazzld/leitner/internal/config"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/learn"
	"github.com/phrazzld/leitner/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		deckPath   = flag.String("deck", "", "path to the YAML deck file (required)")
		configPath = flag.String("config", "", "path to the config file (optional)")
		unlearned  = flag.Bool("unlearned", false, "learn all unlearned cards of the deck")
		expired    = flag.Bool("expired", false, "learn all expired cards of the deck")
	)
	flag.Parse()

	if *deckPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -deck flag")
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.Setup(cfg.Log)
	slog.Info("configuration loaded", "log_level", cfg.Log.Level, "sides", cfg.Session.Sides)

	settings, err := cfg.Session.Settings()
	if err != nil {
		return fmt.Errorf("building session settings: %w", err)
	}

	deck, err := loadDeck(*deckPath, log)
	if err != nil {
		return err
	}

	// Without a selection flag the whole deck is the candidate list.
	selected := deck.SubtreeCards()
	if *unlearned || *expired {
		selected = nil
	}

	ui := &consoleUI{out: os.Stdout}
	session, err := learn.NewSession(learn.Config{
		Category:       deck,
		Settings:       settings,
		SelectedCards:  selected,
		LearnUnlearned: *unlearned,
		LearnExpired:   *expired,
		Provider:       ui,
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	session.AddObserver(ui)

	if settings.TimeLimitEnabled {
		timer := time.AfterFunc(time.Duration(settings.TimeLimit)*time.Minute, session.Quit)
		defer timer.Stop()
	}

	if err := session.Start(); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for !ui.done && scanner.Scan() {
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "y":
			err = session.CardChecked(true, ui.flipped)
		case "n":
			err = session.CardChecked(false, ui.flipped)
		case "s":
			err = session.CardSkipped()
		case "q":
			session.Quit()
			session.End()
		default:
			fmt.Fprintln(ui.out, "answer y (pass), n (fail), s (skip) or q (quit)")
			continue
		}
		if err != nil {
			return fmt.Errorf("applying answer: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if !ui.done {
		session.End()
	}
	printSummary(ui.out, session.Summary())
	return nil
}

// consoleUI is both the card observer (prompting) and the provider
// (noticing the end of the session).
type consoleUI struct {
	out     *os.File
	flipped bool
	done    bool
}

func (ui *consoleUI) NextCardFetched(card *domain.Card, flipped bool) {
	ui.flipped = flipped
	side := card.Front
	if flipped {
		side = card.Back
	}
	fmt.Fprintf(ui.out, "\n[deck %d] %s\n> ", card.Level(), side)
}

func (ui *consoleUI) SessionEnded(*learn.Session) {
	ui.done = true
}

func printSummary(out *os.File, s learn.Summary) {
	fmt.Fprintf(out, "\nsession finished in %s\n", s.End.Sub(s.Start).Round(time.Second))
	fmt.Fprintf(out, "  learned:   %d (passed %d, relearned %d)\n", s.Learned, s.Passed, s.Relearned)
	fmt.Fprintf(out, "  failed:    %d\n", s.Failed)
	fmt.Fprintf(out, "  skipped:   %d\n", s.Skipped)
	if !s.Relevant {
		fmt.Fprintln(out, "  nothing to record")
	}
}

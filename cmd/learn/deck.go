package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/phrazzld/leitner/internal/domain"
)

// deckFile is the on-disk shape of a deck: a named root category with cards
// and arbitrarily nested sub-categories.
type deckFile struct {
	Name       string         `mapstructure:"name"`
	Cards      []deckCard     `mapstructure:"cards"`
	Categories []deckCategory `mapstructure:"categories"`
}

type deckCategory struct {
	Name       string         `mapstructure:"name"`
	Cards      []deckCard     `mapstructure:"cards"`
	Categories []deckCategory `mapstructure:"categories"`
}

type deckCard struct {
	Front string `mapstructure:"front"`
	Back  string `mapstructure:"back"`
}

// loadDeck reads a YAML deck file and builds the category tree.
func loadDeck(path string, logger *slog.Logger) (*domain.Category, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}

	var deck deckFile
	if err := v.Unmarshal(&deck); err != nil {
		return nil, fmt.Errorf("unmarshaling deck file: %w", err)
	}

	name := deck.Name
	if name == "" {
		name = "deck"
	}
	root, err := domain.NewCategory(name, logger)
	if err != nil {
		return nil, err
	}

	if err := populateCategory(root, deck.Cards, deck.Categories); err != nil {
		return nil, err
	}
	return root, nil
}

func populateCategory(cat *domain.Category, cards []deckCard, children []deckCategory) error {
	for _, dc := range cards {
		card, err := domain.NewCard(dc.Front, dc.Back)
		if err != nil {
			return fmt.Errorf("card %q: %w", dc.Front, err)
		}
		cat.AddCard(card)
	}
	for _, child := range children {
		sub, err := cat.AddChild(child.Name)
		if err != nil {
			return fmt.Errorf("category %q: %w", child.Name, err)
		}
		if err := populateCategory(sub, child.Cards, child.Categories); err != nil {
			return err
		}
	}
	return nil
}

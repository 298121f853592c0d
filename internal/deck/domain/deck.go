// Package domain defines the deck, card, preset, and statblock records and
// the structural validation rules shared by storage and transport.
package domain

import (
	"strings"
	"time"

	"github.com/statdeck/statdeck/internal/platform/errors"
	"github.com/statdeck/statdeck/internal/platform/id"
)

// Theme identifies a visual deck theme.
type Theme string

const (
	ThemeClassic   Theme = "classic"
	ThemeParchment Theme = "parchment"
	ThemeMidnight  Theme = "midnight"
	ThemeBlueprint Theme = "blueprint"
)

// Themes lists every valid theme.
func Themes() []Theme {
	return []Theme{ThemeClassic, ThemeParchment, ThemeMidnight, ThemeBlueprint}
}

// CardSize identifies the printable card size variant.
type CardSize string

const (
	SizePoker  CardSize = "poker"
	SizeBridge CardSize = "bridge"
	SizeTarot  CardSize = "tarot"
)

// CardSizes lists every valid card size.
func CardSizes() []CardSize {
	return []CardSize{SizePoker, SizeBridge, SizeTarot}
}

// DeckMeta holds deck-level display metadata.
type DeckMeta struct {
	Name              string    `json:"name"`
	Theme             Theme     `json:"theme"`
	CardSize          CardSize  `json:"cardSize"`
	StatblockConfigID string    `json:"statblockConfigId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	LastEdited        time.Time `json:"lastEdited"`
}

// Touch advances LastEdited. The timestamp never moves backwards, so a clock
// skew between two writes cannot make the deck appear older than it was.
func (m *DeckMeta) Touch(now time.Time) {
	now = now.UTC()
	if now.After(m.LastEdited) {
		m.LastEdited = now
	}
}

// Deck is a named collection of printable reference cards. A deck exclusively
// owns its cards; no card exists outside exactly one deck.
type Deck struct {
	ID    string   `json:"id"`
	Meta  DeckMeta `json:"meta"`
	Cards []Card   `json:"cards"`
}

// ErrEmptyDeckName indicates a missing deck name.
var ErrEmptyDeckName = errors.New(errors.CodeValidationFailed, "deck name is required")

// NewDeckInput describes the metadata needed to create a deck.
type NewDeckInput struct {
	Name     string
	Theme    Theme
	CardSize CardSize
}

// NewDeck creates an empty deck with a generated ID and timestamps. A zero
// theme or card size falls back to the defaults.
func NewDeck(input NewDeckInput, now func() time.Time, idGenerator func() (string, error)) (Deck, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Deck{}, ErrEmptyDeckName
	}
	if input.Theme == "" {
		input.Theme = ThemeClassic
	}
	if input.CardSize == "" {
		input.CardSize = SizePoker
	}

	deckID, err := idGenerator()
	if err != nil {
		return Deck{}, errors.Wrap(errors.CodeUnknown, "generate deck id", err)
	}

	createdAt := now().UTC()
	return Deck{
		ID: deckID,
		Meta: DeckMeta{
			Name:       input.Name,
			Theme:      input.Theme,
			CardSize:   input.CardSize,
			CreatedAt:  createdAt,
			LastEdited: createdAt,
		},
	}, nil
}

// Clone returns a deep copy of the deck. Card slices and their stat and
// mechanic slices are copied so the result shares no memory with the source.
func (d Deck) Clone() Deck {
	cloned := d
	if d.Cards != nil {
		cloned.Cards = make([]Card, len(d.Cards))
		for i, card := range d.Cards {
			cloned.Cards[i] = card.Clone()
		}
	}
	return cloned
}

// CardIndex returns the position of the card with the given ID, or -1.
func (d Deck) CardIndex(cardID string) int {
	for i, card := range d.Cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}

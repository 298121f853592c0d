package domain

import (
	"strings"
	"time"

	"github.com/statdeck/statdeck/internal/platform/errors"
	"github.com/statdeck/statdeck/internal/platform/id"
)

// StatDefinition names one front-of-card stat a preset seeds onto new cards.
type StatDefinition struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GamePreset is a named bundle of default stat definitions and mechanic
// defaults used to seed new decks. Official presets are seeded once and never
// deleted by normal flows.
type GamePreset struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	IsOfficial bool             `json:"isOfficial"`
	Stats      []StatDefinition `json:"stats,omitempty"`
	Mechanics  []Mechanic       `json:"mechanics,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// ErrEmptyPresetName indicates a missing preset name.
var ErrEmptyPresetName = errors.New(errors.CodeValidationFailed, "preset name is required")

// NewGamePreset creates a user preset with a generated ID.
func NewGamePreset(name string, stats []StatDefinition, mechanics []Mechanic, now func() time.Time, idGenerator func() (string, error)) (GamePreset, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return GamePreset{}, ErrEmptyPresetName
	}

	presetID, err := idGenerator()
	if err != nil {
		return GamePreset{}, errors.Wrap(errors.CodeUnknown, "generate preset id", err)
	}

	return GamePreset{
		ID:        presetID,
		Name:      name,
		Stats:     append([]StatDefinition(nil), stats...),
		Mechanics: cloneMechanics(mechanics),
		CreatedAt: now().UTC(),
	}, nil
}

package domain

import (
	"strings"
	"time"

	"github.com/statdeck/statdeck/internal/platform/errors"
	"github.com/statdeck/statdeck/internal/platform/id"
)

// VocabularyEntry is the display mapping for one mechanic-type key.
type VocabularyEntry struct {
	Label        string `json:"label"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Tracked      bool   `json:"tracked,omitempty"`
}

// Vocabulary maps mechanic-type keys to user-facing display labels. The UI
// renders mechanics by label, so two non-empty labels must not collide
// case-insensitively.
type Vocabulary map[MechanicType]VocabularyEntry

// Clone returns a copy of the vocabulary.
func (v Vocabulary) Clone() Vocabulary {
	if v == nil {
		return nil
	}
	cloned := make(Vocabulary, len(v))
	for key, entry := range v {
		cloned[key] = entry
	}
	return cloned
}

// StatblockConfig is a persisted, customizable vocabulary. Configs are
// created from an official base, customized, and referenced by ID from a
// deck's metadata when non-default.
type StatblockConfig struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsOfficial bool       `json:"isOfficial"`
	BaseID     string     `json:"baseId,omitempty"`
	Vocabulary Vocabulary `json:"vocabulary"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ErrEmptyConfigName indicates a missing statblock config name.
var ErrEmptyConfigName = errors.New(errors.CodeValidationFailed, "statblock config name is required")

// CustomizeConfig derives a user config from a base config, carrying the base
// vocabulary forward under a new identity.
func CustomizeConfig(base StatblockConfig, name string, now func() time.Time, idGenerator func() (string, error)) (StatblockConfig, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return StatblockConfig{}, ErrEmptyConfigName
	}

	configID, err := idGenerator()
	if err != nil {
		return StatblockConfig{}, errors.Wrap(errors.CodeUnknown, "generate config id", err)
	}

	return StatblockConfig{
		ID:         configID,
		Name:       name,
		BaseID:     base.ID,
		Vocabulary: base.Vocabulary.Clone(),
		CreatedAt:  now().UTC(),
	}, nil
}

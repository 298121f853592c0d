package domain

import (
	"fmt"
	"strings"
)

// Structural bounds. Card and attribute counts are capped so a printed card
// cannot overflow its face.
const (
	MaxDeckNameLength     = 60
	MaxCardsPerDeck       = 9
	MaxCardNameLength     = 60
	MaxCardRoleLength     = 80
	MaxDescriptionLength  = 600
	MaxStatsPerCard       = 8
	MaxMechanicsPerCard   = 12
	MaxMechanicNameLength = 40
	MaxLabelLength        = 40
)

// Violation describes one failed structural rule.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// DeckRules tunes deck validation per operation.
type DeckRules struct {
	// AllowEmpty permits a deck with zero cards, e.g. a theme change on a
	// freshly created deck.
	AllowEmpty bool
}

// ValidateDeck checks the deck's structure. An empty result means valid.
func ValidateDeck(deck Deck, rules DeckRules) []Violation {
	var violations []Violation

	if strings.TrimSpace(deck.ID) == "" {
		violations = append(violations, Violation{Field: "id", Message: "deck id is required"})
	}
	if strings.TrimSpace(deck.Meta.Name) == "" {
		violations = append(violations, Violation{Field: "meta.name", Message: "deck name is required"})
	} else if len(deck.Meta.Name) > MaxDeckNameLength {
		violations = append(violations, Violation{Field: "meta.name", Message: fmt.Sprintf("deck name exceeds %d characters", MaxDeckNameLength)})
	}
	if !validTheme(deck.Meta.Theme) {
		violations = append(violations, Violation{Field: "meta.theme", Message: fmt.Sprintf("unknown theme %q", deck.Meta.Theme)})
	}
	if !validCardSize(deck.Meta.CardSize) {
		violations = append(violations, Violation{Field: "meta.cardSize", Message: fmt.Sprintf("unknown card size %q", deck.Meta.CardSize)})
	}

	if len(deck.Cards) == 0 && !rules.AllowEmpty {
		violations = append(violations, Violation{Field: "cards", Message: "deck has no cards"})
	}
	if len(deck.Cards) > MaxCardsPerDeck {
		violations = append(violations, Violation{Field: "cards", Message: fmt.Sprintf("deck exceeds %d cards", MaxCardsPerDeck)})
	}

	seen := make(map[string]bool, len(deck.Cards))
	for i, card := range deck.Cards {
		prefix := fmt.Sprintf("cards[%d].", i)
		if card.ID != "" && seen[card.ID] {
			violations = append(violations, Violation{Field: prefix + "id", Message: "duplicate card id"})
		}
		seen[card.ID] = true
		for _, v := range ValidateCard(card) {
			violations = append(violations, Violation{Field: prefix + v.Field, Message: v.Message})
		}
	}

	return violations
}

// ValidateCard checks one card's structure.
func ValidateCard(card Card) []Violation {
	var violations []Violation

	if strings.TrimSpace(card.ID) == "" {
		violations = append(violations, Violation{Field: "id", Message: "card id is required"})
	}
	if strings.TrimSpace(card.Name) == "" {
		violations = append(violations, Violation{Field: "name", Message: "card name is required"})
	} else if len(card.Name) > MaxCardNameLength {
		violations = append(violations, Violation{Field: "name", Message: fmt.Sprintf("card name exceeds %d characters", MaxCardNameLength)})
	}
	if len(card.Role) > MaxCardRoleLength {
		violations = append(violations, Violation{Field: "role", Message: fmt.Sprintf("role exceeds %d characters", MaxCardRoleLength)})
	}
	if len(card.Description) > MaxDescriptionLength {
		violations = append(violations, Violation{Field: "description", Message: fmt.Sprintf("description exceeds %d characters", MaxDescriptionLength)})
	}

	if card.Image.URL != "" && card.Image.Handle != "" {
		violations = append(violations, Violation{Field: "image", Message: "card image must be a URL or a local blob, not both"})
	}
	switch card.Image.Kind {
	case "", ImageDurable, ImageLocal:
	default:
		violations = append(violations, Violation{Field: "image.kind", Message: fmt.Sprintf("unknown image kind %q", card.Image.Kind)})
	}

	if len(card.Stats) > MaxStatsPerCard {
		violations = append(violations, Violation{Field: "stats", Message: fmt.Sprintf("card exceeds %d stats", MaxStatsPerCard)})
	}
	if len(card.Mechanics) > MaxMechanicsPerCard {
		violations = append(violations, Violation{Field: "mechanics", Message: fmt.Sprintf("card exceeds %d mechanics", MaxMechanicsPerCard)})
	}
	for i, mechanic := range card.Mechanics {
		prefix := fmt.Sprintf("mechanics[%d].", i)
		if strings.TrimSpace(mechanic.Name) == "" {
			violations = append(violations, Violation{Field: prefix + "name", Message: "mechanic name is required"})
		} else if len(mechanic.Name) > MaxMechanicNameLength {
			violations = append(violations, Violation{Field: prefix + "name", Message: fmt.Sprintf("mechanic name exceeds %d characters", MaxMechanicNameLength)})
		}
		if !validMechanicType(mechanic.Type) {
			violations = append(violations, Violation{Field: prefix + "type", Message: fmt.Sprintf("unknown mechanic type %q", mechanic.Type)})
		}
	}

	return violations
}

// ValidateVocabulary checks a statblock vocabulary. Label collisions are
// compared case-insensitively; empty labels are exempt.
func ValidateVocabulary(vocabulary Vocabulary) []Violation {
	var violations []Violation

	if len(vocabulary) == 0 {
		violations = append(violations, Violation{Field: "vocabulary", Message: "vocabulary has no entries"})
		return violations
	}

	labels := make(map[string]MechanicType, len(vocabulary))
	for _, key := range MechanicTypes() {
		entry, ok := vocabulary[key]
		if !ok {
			continue
		}
		if len(entry.Label) > MaxLabelLength {
			violations = append(violations, Violation{Field: string(key), Message: fmt.Sprintf("label exceeds %d characters", MaxLabelLength)})
		}
		folded := strings.ToLower(strings.TrimSpace(entry.Label))
		if folded == "" {
			continue
		}
		if other, dup := labels[folded]; dup {
			violations = append(violations, Violation{
				Field:   string(key),
				Message: fmt.Sprintf("label %q collides with %q", entry.Label, other),
			})
			continue
		}
		labels[folded] = key
	}

	for key := range vocabulary {
		if !validMechanicType(key) {
			violations = append(violations, Violation{Field: string(key), Message: fmt.Sprintf("unknown mechanic type %q", key)})
		}
	}

	return violations
}

// ValidateConfig checks a statblock config record.
func ValidateConfig(config StatblockConfig) []Violation {
	var violations []Violation
	if strings.TrimSpace(config.ID) == "" {
		violations = append(violations, Violation{Field: "id", Message: "config id is required"})
	}
	if strings.TrimSpace(config.Name) == "" {
		violations = append(violations, Violation{Field: "name", Message: "config name is required"})
	}
	return append(violations, ValidateVocabulary(config.Vocabulary)...)
}

// ValidatePreset checks a game preset record.
func ValidatePreset(preset GamePreset) []Violation {
	var violations []Violation
	if strings.TrimSpace(preset.ID) == "" {
		violations = append(violations, Violation{Field: "id", Message: "preset id is required"})
	}
	if strings.TrimSpace(preset.Name) == "" {
		violations = append(violations, Violation{Field: "name", Message: "preset name is required"})
	}
	if len(preset.Stats) > MaxStatsPerCard {
		violations = append(violations, Violation{Field: "stats", Message: fmt.Sprintf("preset exceeds %d stats", MaxStatsPerCard)})
	}
	if len(preset.Mechanics) > MaxMechanicsPerCard {
		violations = append(violations, Violation{Field: "mechanics", Message: fmt.Sprintf("preset exceeds %d mechanics", MaxMechanicsPerCard)})
	}
	return violations
}

func validTheme(theme Theme) bool {
	for _, known := range Themes() {
		if theme == known {
			return true
		}
	}
	return false
}

func validCardSize(size CardSize) bool {
	for _, known := range CardSizes() {
		if size == known {
			return true
		}
	}
	return false
}

func validMechanicType(mechanicType MechanicType) bool {
	for _, known := range MechanicTypes() {
		if mechanicType == known {
			return true
		}
	}
	return false
}

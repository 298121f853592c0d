package domain

import (
	"strings"
	"testing"
)

func validDeck() Deck {
	return Deck{
		ID: "deck-1",
		Meta: DeckMeta{
			Name:     "Tales of the Uncanny",
			Theme:    ThemeClassic,
			CardSize: SizePoker,
		},
		Cards: []Card{{ID: "card-1", Name: "Warden"}},
	}
}

func TestValidateDeckAcceptsValidDeck(t *testing.T) {
	if violations := ValidateDeck(validDeck(), DeckRules{}); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}

func TestValidateDeckRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Deck)
		rules  DeckRules
		field  string
	}{
		{
			name:   "missing id",
			mutate: func(d *Deck) { d.ID = "" },
			field:  "id",
		},
		{
			name:   "blank name",
			mutate: func(d *Deck) { d.Meta.Name = "  " },
			field:  "meta.name",
		},
		{
			name:   "name too long",
			mutate: func(d *Deck) { d.Meta.Name = strings.Repeat("x", MaxDeckNameLength+1) },
			field:  "meta.name",
		},
		{
			name:   "unknown theme",
			mutate: func(d *Deck) { d.Meta.Theme = "neon" },
			field:  "meta.theme",
		},
		{
			name:   "unknown card size",
			mutate: func(d *Deck) { d.Meta.CardSize = "jumbo" },
			field:  "meta.cardSize",
		},
		{
			name:   "empty deck disallowed",
			mutate: func(d *Deck) { d.Cards = nil },
			field:  "cards",
		},
		{
			name: "too many cards",
			mutate: func(d *Deck) {
				d.Cards = nil
				for i := 0; i <= MaxCardsPerDeck; i++ {
					d.Cards = append(d.Cards, Card{ID: string(rune('a' + i)), Name: "Card"})
				}
			},
			field: "cards",
		},
		{
			name: "duplicate card ids",
			mutate: func(d *Deck) {
				d.Cards = []Card{{ID: "card-1", Name: "A"}, {ID: "card-1", Name: "B"}}
			},
			field: "cards[1].id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deck := validDeck()
			tc.mutate(&deck)
			violations := ValidateDeck(deck, tc.rules)
			if len(violations) == 0 {
				t.Fatal("expected violations")
			}
			found := false
			for _, v := range violations {
				if v.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected violation on %q, got %v", tc.field, violations)
			}
		})
	}
}

func TestValidateDeckAllowEmpty(t *testing.T) {
	deck := validDeck()
	deck.Cards = nil
	if violations := ValidateDeck(deck, DeckRules{AllowEmpty: true}); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}

func TestValidateCardRules(t *testing.T) {
	card := Card{ID: "card-1", Name: "Warden"}
	if violations := ValidateCard(card); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}

	card.Image = ImageRef{Kind: ImageDurable, URL: "https://example.com/a.png", Handle: "blob-1"}
	violations := ValidateCard(card)
	if len(violations) != 1 || violations[0].Field != "image" {
		t.Fatalf("expected single image violation, got %v", violations)
	}

	card = Card{ID: "card-1", Name: "Warden", Mechanics: []Mechanic{{Type: "mystery", Name: ""}}}
	violations = ValidateCard(card)
	if len(violations) != 2 {
		t.Fatalf("expected name and type violations, got %v", violations)
	}

	card = Card{ID: "card-1", Name: "Warden"}
	for i := 0; i <= MaxMechanicsPerCard; i++ {
		card.Mechanics = append(card.Mechanics, Mechanic{Type: MechanicTrait, Name: "Trait"})
	}
	violations = ValidateCard(card)
	if len(violations) == 0 {
		t.Fatal("expected mechanics bound violation")
	}
}

func TestValidateVocabularyCollisions(t *testing.T) {
	colliding := Vocabulary{
		MechanicHealth: {Label: "Power"},
		MechanicAttack: {Label: "POWER"},
	}
	if violations := ValidateVocabulary(colliding); len(violations) == 0 {
		t.Fatal("expected case-insensitive collision to fail")
	}

	exempt := Vocabulary{
		MechanicHealth: {Label: "Power"},
		MechanicAttack: {Label: ""},
	}
	if violations := ValidateVocabulary(exempt); len(violations) != 0 {
		t.Fatalf("empty labels must be exempt, got %v", violations)
	}

	if violations := ValidateVocabulary(Vocabulary{}); len(violations) == 0 {
		t.Fatal("expected empty vocabulary to fail")
	}

	unknownKey := Vocabulary{"aura": {Label: "Aura"}}
	if violations := ValidateVocabulary(unknownKey); len(violations) == 0 {
		t.Fatal("expected unknown mechanic type to fail")
	}
}

func TestValidateConfig(t *testing.T) {
	config := StatblockConfig{
		ID:         "config-1",
		Name:       "House Rules",
		Vocabulary: Vocabulary{MechanicHealth: {Label: "Vitality"}},
	}
	if violations := ValidateConfig(config); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}

	config.Name = ""
	if violations := ValidateConfig(config); len(violations) == 0 {
		t.Fatal("expected name violation")
	}
}

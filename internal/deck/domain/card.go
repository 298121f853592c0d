package domain

import (
	"net/url"
	"strings"

	"github.com/statdeck/statdeck/internal/platform/errors"
	"github.com/statdeck/statdeck/internal/platform/id"
)

// ImageKind discriminates the two image representations a card may carry.
type ImageKind string

const (
	// ImageDurable is an absolute network URL that resolves on any machine.
	ImageDurable ImageKind = "durable"
	// ImageLocal is an opaque handle to a locally stored binary blob. It
	// cannot resolve on a recipient's machine and blocks sharing.
	ImageLocal ImageKind = "local"
)

// ImageRef is a tagged union: a card image is either a durable URL or a local
// blob handle, never both. The zero value means no image.
type ImageRef struct {
	Kind   ImageKind `json:"kind,omitempty"`
	URL    string    `json:"url,omitempty"`
	Handle string    `json:"handle,omitempty"`
}

// DurableImage returns an ImageRef pointing at a network URL.
func DurableImage(rawURL string) ImageRef {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ImageRef{}
	}
	return ImageRef{Kind: ImageDurable, URL: rawURL}
}

// LocalImage returns an ImageRef holding a local blob handle.
func LocalImage(handle string) ImageRef {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ImageRef{}
	}
	return ImageRef{Kind: ImageLocal, Handle: handle}
}

// IsZero reports whether the card has no image.
func (r ImageRef) IsZero() bool {
	return r.Kind == "" && r.URL == "" && r.Handle == ""
}

// IsDurable reports whether the reference survives transport to another
// machine: an absolute http(s) URL with a host.
func (r ImageRef) IsDurable() bool {
	if r.Kind != ImageDurable {
		return false
	}
	parsed, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// StatValue is a free-form front-of-card attribute, keyed by a stat
// definition ID from the deck's game preset.
type StatValue struct {
	StatID string `json:"statId"`
	Value  string `json:"value"`
}

// MechanicType is one of the fixed mechanic-type keys a statblock vocabulary
// maps to display labels.
type MechanicType string

const (
	MechanicHealth   MechanicType = "health"
	MechanicAttack   MechanicType = "attack"
	MechanicDefense  MechanicType = "defense"
	MechanicSpeed    MechanicType = "speed"
	MechanicResource MechanicType = "resource"
	MechanicTrait    MechanicType = "trait"
)

// MechanicTypes lists every valid mechanic-type key, in display order.
func MechanicTypes() []MechanicType {
	return []MechanicType{
		MechanicHealth,
		MechanicAttack,
		MechanicDefense,
		MechanicSpeed,
		MechanicResource,
		MechanicTrait,
	}
}

// Mechanic is a typed back-of-card attribute. Tracked mechanics render as
// checkbox rows that deplete during play.
type Mechanic struct {
	Type    MechanicType `json:"type"`
	Name    string       `json:"name"`
	Value   string       `json:"value,omitempty"`
	Tracked bool         `json:"tracked,omitempty"`
}

// Card is a single printable reference card.
type Card struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Role        string      `json:"role,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       ImageRef    `json:"image,omitzero"`
	Stats       []StatValue `json:"stats,omitempty"`
	Mechanics   []Mechanic  `json:"mechanics,omitempty"`
}

// ErrEmptyCardName indicates a missing card name.
var ErrEmptyCardName = errors.New(errors.CodeValidationFailed, "card name is required")

// NewCardInput describes the fields needed to create a card.
type NewCardInput struct {
	Name        string
	Role        string
	Description string
}

// NewCard creates a card with a generated ID. When a preset is supplied the
// card is seeded with the preset's stat definitions and mechanic defaults.
func NewCard(input NewCardInput, preset *GamePreset, idGenerator func() (string, error)) (Card, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Card{}, ErrEmptyCardName
	}

	cardID, err := idGenerator()
	if err != nil {
		return Card{}, errors.Wrap(errors.CodeUnknown, "generate card id", err)
	}

	card := Card{
		ID:          cardID,
		Name:        input.Name,
		Role:        strings.TrimSpace(input.Role),
		Description: strings.TrimSpace(input.Description),
	}
	if preset != nil {
		for _, def := range preset.Stats {
			card.Stats = append(card.Stats, StatValue{StatID: def.ID})
		}
		card.Mechanics = cloneMechanics(preset.Mechanics)
	}
	return card, nil
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	cloned := c
	if c.Stats != nil {
		cloned.Stats = make([]StatValue, len(c.Stats))
		copy(cloned.Stats, c.Stats)
	}
	cloned.Mechanics = cloneMechanics(c.Mechanics)
	return cloned
}

// Remint returns a copy of the card carrying a freshly generated ID.
func (c Card) Remint(idGenerator func() (string, error)) (Card, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	cardID, err := idGenerator()
	if err != nil {
		return Card{}, errors.Wrap(errors.CodeUnknown, "generate card id", err)
	}
	cloned := c.Clone()
	cloned.ID = cardID
	return cloned, nil
}

func cloneMechanics(mechanics []Mechanic) []Mechanic {
	if mechanics == nil {
		return nil
	}
	cloned := make([]Mechanic, len(mechanics))
	copy(cloned, mechanics)
	return cloned
}

package canon

import (
	"context"
	"fmt"
	"strings"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/notify"
	"github.com/statdeck/statdeck/internal/platform/errors"
)

// TargetNewDeck directs CopyCards to allocate a fresh deck for the copies.
const TargetNewDeck = "new"

// MetaUpdate carries deck-level field changes. Nil pointers leave the field
// unchanged.
type MetaUpdate struct {
	Name              *string
	Theme             *domain.Theme
	CardSize          *domain.CardSize
	StatblockConfigID *string

	// SuccessMessage, when non-empty, is delivered on successful commit.
	SuccessMessage string
}

// CardUpdate carries card-level field changes. Nil pointers leave the field
// unchanged; non-nil slices replace the whole collection.
type CardUpdate struct {
	Name        *string
	Role        *string
	Description *string

	// ImageURL and ImageHandle set the card image. A card holds at most
	// one representation; when both are supplied the durable URL wins.
	ImageURL    *string
	ImageHandle *string
	ClearImage  bool

	Stats     []domain.StatValue
	Mechanics []domain.Mechanic

	SuccessMessage string
}

func (u CardUpdate) busyFields() []string {
	var fields []string
	if u.Name != nil || u.Role != nil || u.Description != nil {
		fields = append(fields, FieldCardIdentity)
	}
	if u.ImageURL != nil || u.ImageHandle != nil || u.ClearImage {
		fields = append(fields, FieldCardImage)
	}
	if u.Stats != nil {
		fields = append(fields, FieldCardStats)
	}
	if u.Mechanics != nil {
		fields = append(fields, FieldCardMechanics)
	}
	if len(fields) == 0 {
		fields = []string{FieldCardIdentity}
	}
	return fields
}

func (u CardUpdate) apply(card *domain.Card) {
	if u.Name != nil {
		card.Name = strings.TrimSpace(*u.Name)
	}
	if u.Role != nil {
		card.Role = strings.TrimSpace(*u.Role)
	}
	if u.Description != nil {
		card.Description = strings.TrimSpace(*u.Description)
	}

	if u.ClearImage {
		card.Image = domain.ImageRef{}
	}
	switch {
	case u.ImageURL != nil && strings.TrimSpace(*u.ImageURL) != "":
		card.Image = domain.DurableImage(*u.ImageURL)
	case u.ImageHandle != nil && strings.TrimSpace(*u.ImageHandle) != "":
		card.Image = domain.LocalImage(*u.ImageHandle)
	}

	// Replacement collections are deep-cloned so the canonical deck never
	// aliases a slice the caller still holds.
	if u.Stats != nil {
		card.Stats = make([]domain.StatValue, len(u.Stats))
		copy(card.Stats, u.Stats)
	}
	if u.Mechanics != nil {
		card.Mechanics = make([]domain.Mechanic, len(u.Mechanics))
		copy(card.Mechanics, u.Mechanics)
	}
}

func notifyCopied(count int, deckName string) notify.Notification {
	noun := "cards"
	if count == 1 {
		noun = "card"
	}
	return notify.Info(fmt.Sprintf("Copied %d %s to %q", count, noun, deckName))
}

func cardNotFound(cardID string) error {
	return errors.WithMetadata(errors.CodeNotFound, "card not found", map[string]string{"cardId": cardID})
}

// UpdateDeckMeta merges deck-level changes into the canonical deck.
func (c *Controller) UpdateDeckMeta(ctx context.Context, update MetaUpdate) error {
	return c.commit(ctx, []string{FieldDeckMeta}, update.SuccessMessage, func(next *domain.Deck) error {
		if update.Name != nil {
			next.Meta.Name = strings.TrimSpace(*update.Name)
		}
		if update.Theme != nil {
			next.Meta.Theme = *update.Theme
		}
		if update.CardSize != nil {
			next.Meta.CardSize = *update.CardSize
		}
		if update.StatblockConfigID != nil {
			next.Meta.StatblockConfigID = strings.TrimSpace(*update.StatblockConfigID)
		}
		return nil
	})
}

// UpdateCard merges changes into one card of the canonical deck.
func (c *Controller) UpdateCard(ctx context.Context, cardID string, update CardUpdate) error {
	return c.commit(ctx, update.busyFields(), update.SuccessMessage, func(next *domain.Deck) error {
		index := next.CardIndex(cardID)
		if index < 0 {
			return cardNotFound(cardID)
		}
		update.apply(&next.Cards[index])
		return nil
	})
}

// UpdateCards merges a batch of card changes in one durable write.
func (c *Controller) UpdateCards(ctx context.Context, updates map[string]CardUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	fieldSet := make(map[string]bool)
	for _, update := range updates {
		for _, field := range update.busyFields() {
			fieldSet[field] = true
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for field := range fieldSet {
		fields = append(fields, field)
	}

	return c.commit(ctx, fields, "", func(next *domain.Deck) error {
		for cardID, update := range updates {
			index := next.CardIndex(cardID)
			if index < 0 {
				return cardNotFound(cardID)
			}
			update.apply(&next.Cards[index])
		}
		return nil
	})
}

// AddCard appends a new card to the canonical deck, seeded from the preset
// when one is given, and returns the new card's ID.
func (c *Controller) AddCard(ctx context.Context, input domain.NewCardInput, preset *domain.GamePreset) (string, error) {
	var cardID string
	err := c.commit(ctx, []string{FieldDeckCards}, "", func(next *domain.Deck) error {
		card, err := domain.NewCard(input, preset, c.newID)
		if err != nil {
			return err
		}
		cardID = card.ID
		next.Cards = append(next.Cards, card)
		return nil
	})
	if err != nil {
		return "", err
	}
	return cardID, nil
}

// DeleteCards removes the named cards from the canonical deck. An empty ID
// list is a no-op with no storage interaction.
func (c *Controller) DeleteCards(ctx context.Context, cardIDs []string) error {
	if len(cardIDs) == 0 {
		return nil
	}

	return c.commit(ctx, []string{FieldDeckCards}, "", func(next *domain.Deck) error {
		doomed := make(map[string]bool, len(cardIDs))
		for _, cardID := range cardIDs {
			if next.CardIndex(cardID) < 0 {
				return cardNotFound(cardID)
			}
			doomed[cardID] = true
		}

		kept := next.Cards[:0]
		for _, card := range next.Cards {
			if !doomed[card.ID] {
				kept = append(kept, card)
			}
		}
		next.Cards = kept
		return nil
	})
}

// CopyCards duplicates the named cards into the target deck. Every copy gets
// a fresh card ID; TargetNewDeck allocates a new deck (named newDeckName)
// with a fresh deck ID. The new or updated target deck's ID is returned.
func (c *Controller) CopyCards(ctx context.Context, cardIDs []string, targetDeckID, newDeckName string) (string, error) {
	if len(cardIDs) == 0 {
		return "", nil
	}

	release := c.markBusy([]string{FieldDeckCards})
	defer release()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deck == nil {
		return "", c.fail(ctx, ErrNoActiveDeck)
	}

	copies := make([]domain.Card, 0, len(cardIDs))
	for _, cardID := range cardIDs {
		index := c.deck.CardIndex(cardID)
		if index < 0 {
			return "", c.fail(ctx, cardNotFound(cardID))
		}
		reminted, err := c.deck.Cards[index].Remint(c.newID)
		if err != nil {
			return "", c.fail(ctx, err)
		}
		copies = append(copies, reminted)
	}

	now := c.clock()

	switch {
	case targetDeckID == TargetNewDeck:
		if strings.TrimSpace(newDeckName) == "" {
			newDeckName = c.deck.Meta.Name + " (copy)"
		}
		target, err := domain.NewDeck(domain.NewDeckInput{
			Name:     newDeckName,
			Theme:    c.deck.Meta.Theme,
			CardSize: c.deck.Meta.CardSize,
		}, c.clock, c.newID)
		if err != nil {
			return "", c.fail(ctx, err)
		}
		target.Cards = copies
		if err := c.store.PutDeck(ctx, target); err != nil {
			return "", c.fail(ctx, err)
		}
		c.notify(ctx, notifyCopied(len(copies), target.Meta.Name))
		return target.ID, nil

	case targetDeckID == c.deck.ID:
		next := c.deck.Clone()
		next.Cards = append(next.Cards, copies...)
		next.Meta.Touch(now)
		if err := c.store.PutDeck(ctx, next); err != nil {
			return "", c.fail(ctx, err)
		}
		c.deck = &next
		c.notify(ctx, notifyCopied(len(copies), next.Meta.Name))
		return next.ID, nil

	default:
		target, err := c.store.GetDeck(ctx, targetDeckID)
		if err != nil {
			return "", c.fail(ctx, err)
		}
		target.Cards = append(target.Cards, copies...)
		target.Meta.Touch(now)
		if err := c.store.PutDeck(ctx, target); err != nil {
			return "", c.fail(ctx, err)
		}
		c.notify(ctx, notifyCopied(len(copies), target.Meta.Name))
		return target.ID, nil
	}
}

// Package share governs receipt of an externally supplied deck. A received
// deck is held in preview; nothing is durably written until the recipient
// explicitly imports it, and importing never reuses the sender's record IDs.
package share

import (
	"context"
	"time"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/notify"
	"github.com/statdeck/statdeck/internal/deck/storage"
	"github.com/statdeck/statdeck/internal/deck/transport"
	"github.com/statdeck/statdeck/internal/platform/errors"
	"github.com/statdeck/statdeck/internal/platform/id"
)

// State is the receipt lifecycle position.
type State string

const (
	// StatePreviewing holds a decoded deck with zero persistent side
	// effects.
	StatePreviewing State = "previewing"
	// StateImported means exactly one new deck record was written.
	StateImported State = "imported"
	// StateCancelled means the receipt was discarded untouched.
	StateCancelled State = "cancelled"
)

// ErrReceiptSettled indicates Import or Cancel was called after the receipt
// already left the preview state.
var ErrReceiptSettled = errors.New(errors.CodeDecodeError, "shared deck receipt is already settled")

// Receipt tracks one received transport string from preview to import or
// cancellation. Both exits are terminal; receiving the same transport string
// again starts a fresh receipt in preview.
type Receipt struct {
	state    State
	deck     domain.Deck
	deckID   string
	store    storage.DeckStore
	notifier notify.Notifier
	clock    func() time.Time
	newID    func() (string, error)
}

// Receive decodes a transport string into a previewing receipt. Decode
// failure produces no receipt and no side effects.
func Receive(transportString string, store storage.DeckStore, notifier notify.Notifier) (*Receipt, error) {
	deck, err := transport.Decode(transportString)
	if err != nil {
		if notifier != nil {
			notifier.Notify(context.Background(), notify.Error(err.Error()))
		}
		return nil, err
	}

	return &Receipt{
		state:    StatePreviewing,
		deck:     deck,
		store:    store,
		notifier: notifier,
		clock:    time.Now,
		newID:    id.NewID,
	}, nil
}

// State reports the receipt's current state.
func (r *Receipt) State() State {
	return r.state
}

// Preview returns a copy of the decoded deck for display. The copy is safe
// to hold; it never aliases the receipt's own value.
func (r *Receipt) Preview() domain.Deck {
	return r.deck.Clone()
}

// ImportedDeckID returns the ID of the imported deck record, once imported.
func (r *Receipt) ImportedDeckID() string {
	return r.deckID
}

// Import validates the previewed deck again, mints fresh IDs for the deck
// and every card, and writes exactly one new deck record. On failure the
// receipt stays in preview and the error is surfaced.
func (r *Receipt) Import(ctx context.Context) (string, error) {
	if r.state != StatePreviewing {
		return "", ErrReceiptSettled
	}

	imported := r.deck.Clone()

	// Validation ran at decode time; run it again so a receipt built from
	// an older decode can never slip an invalid deck into storage.
	if violations := domain.ValidateDeck(imported, domain.DeckRules{AllowEmpty: true}); len(violations) > 0 {
		return "", r.fail(ctx, storage.NewValidationError("shared deck", violations))
	}

	deckID, err := r.newID()
	if err != nil {
		return "", r.fail(ctx, errors.Wrap(errors.CodeUnknown, "generate deck id", err))
	}
	imported.ID = deckID
	for i := range imported.Cards {
		cardID, err := r.newID()
		if err != nil {
			return "", r.fail(ctx, errors.Wrap(errors.CodeUnknown, "generate card id", err))
		}
		imported.Cards[i].ID = cardID
	}

	now := r.clock().UTC()
	imported.Meta.CreatedAt = now
	imported.Meta.LastEdited = now

	if err := r.store.PutDeck(ctx, imported); err != nil {
		return "", r.fail(ctx, err)
	}

	r.state = StateImported
	r.deckID = imported.ID
	r.notify(ctx, notify.Info("Deck \""+imported.Meta.Name+"\" imported"))
	return imported.ID, nil
}

// Cancel discards the receipt. Pure navigation: zero storage interaction.
func (r *Receipt) Cancel() error {
	if r.state != StatePreviewing {
		return ErrReceiptSettled
	}
	r.state = StateCancelled
	return nil
}

func (r *Receipt) notify(ctx context.Context, notification notify.Notification) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(ctx, notification)
}

func (r *Receipt) fail(ctx context.Context, err error) error {
	r.notify(ctx, notify.Error(err.Error()))
	return err
}

// Package canon holds the single in-memory copy of the deck the user is
// editing. Every mutation follows the same path: mark the touched fields
// busy, compute the full next deck value, write it durably, and only then
// replace the canonical in-memory value with exactly what was written. A
// failed write leaves the canonical deck untouched.
package canon

import (
	"context"
	"sync"
	"time"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/notify"
	"github.com/statdeck/statdeck/internal/deck/storage"
	"github.com/statdeck/statdeck/internal/platform/errors"
	"github.com/statdeck/statdeck/internal/platform/id"
)

// Busy-field names. The UI gates interaction per field group, not per deck.
const (
	FieldDeckLoad      = "deck-load"
	FieldDeckMeta      = "deck-meta"
	FieldDeckCards     = "deck-cards"
	FieldCardIdentity  = "card-identity"
	FieldCardImage     = "card-image"
	FieldCardStats     = "card-stats"
	FieldCardMechanics = "card-mechanics"
)

// ErrNoActiveDeck indicates an operation was attempted with no deck loaded.
var ErrNoActiveDeck = errors.New(errors.CodeNoActiveDeck, "no active deck")

// Controller is the canonical state coordinator. Cross-process writers are
// not supported; within one process the controller serializes mutations, so
// when two calls race the last one to run wins.
type Controller struct {
	mu sync.Mutex
	// deck is the last value known to be durably written. nil means no
	// deck is loaded.
	deck *domain.Deck

	busyMu sync.RWMutex
	busy   map[string]int

	store    storage.DeckStore
	notifier notify.Notifier
	clock    func() time.Time
	newID    func() (string, error)
}

// NewController creates a coordinator over the given store. The notifier may
// be nil, in which case notifications are dropped.
func NewController(store storage.DeckStore, notifier notify.Notifier) *Controller {
	return &Controller{
		busy:     make(map[string]int),
		store:    store,
		notifier: notifier,
		clock:    time.Now,
		newID:    id.NewID,
	}
}

// CurrentDeck returns a deep copy of the canonical deck, and whether one is
// loaded. Callers may hold or mutate the copy freely.
func (c *Controller) CurrentDeck() (domain.Deck, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deck == nil {
		return domain.Deck{}, false
	}
	return c.deck.Clone(), true
}

// IsFieldLoading reports whether a mutation touching the named field is in
// flight. Advisory only; it gates UI interaction, it is not a lock.
func (c *Controller) IsFieldLoading(field string) bool {
	c.busyMu.RLock()
	defer c.busyMu.RUnlock()
	return c.busy[field] > 0
}

// markBusy raises the named fields and returns the matching release. The
// release runs on every exit path, success or failure.
func (c *Controller) markBusy(fields []string) func() {
	c.busyMu.Lock()
	for _, field := range fields {
		c.busy[field]++
	}
	c.busyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.busyMu.Lock()
			for _, field := range fields {
				if c.busy[field] > 0 {
					c.busy[field]--
				}
			}
			c.busyMu.Unlock()
		})
	}
}

func (c *Controller) notify(ctx context.Context, notification notify.Notification) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, notification)
}

// fail reports an operation failure without touching canonical state.
func (c *Controller) fail(ctx context.Context, err error) error {
	c.notify(ctx, notify.Error(err.Error()))
	return err
}

// commit runs one canonical update. compute receives a deep copy of the
// current deck and returns the full next value; the next value only becomes
// canonical after the durable write succeeds.
func (c *Controller) commit(ctx context.Context, fields []string, success string, compute func(next *domain.Deck) error) error {
	release := c.markBusy(fields)
	defer release()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deck == nil {
		return c.fail(ctx, ErrNoActiveDeck)
	}

	next := c.deck.Clone()
	if err := compute(&next); err != nil {
		return c.fail(ctx, err)
	}
	next.Meta.Touch(c.clock())

	if err := c.store.PutDeck(ctx, next); err != nil {
		return c.fail(ctx, err)
	}

	c.deck = &next
	if success != "" {
		c.notify(ctx, notify.Info(success))
	}
	return nil
}

// SelectDeck loads a stored deck into canonical state.
func (c *Controller) SelectDeck(ctx context.Context, deckID string) error {
	release := c.markBusy([]string{FieldDeckLoad})
	defer release()

	deck, err := c.store.GetDeck(ctx, deckID)
	if err != nil {
		return c.fail(ctx, err)
	}

	c.mu.Lock()
	c.deck = &deck
	c.mu.Unlock()
	return nil
}

// CreateDeck creates, persists, and selects a new empty deck.
func (c *Controller) CreateDeck(ctx context.Context, input domain.NewDeckInput) (domain.Deck, error) {
	release := c.markBusy([]string{FieldDeckLoad})
	defer release()

	deck, err := domain.NewDeck(input, c.clock, c.newID)
	if err != nil {
		return domain.Deck{}, c.fail(ctx, err)
	}
	if err := c.store.PutDeck(ctx, deck); err != nil {
		return domain.Deck{}, c.fail(ctx, err)
	}

	c.mu.Lock()
	c.deck = &deck
	c.mu.Unlock()

	c.notify(ctx, notify.Info("Deck \""+deck.Meta.Name+"\" created"))
	return deck.Clone(), nil
}

// Unload clears the canonical deck without touching storage.
func (c *Controller) Unload() {
	c.mu.Lock()
	c.deck = nil
	c.mu.Unlock()
}

// DeleteDeck removes a deck from storage. Deleting the canonical deck also
// unloads it.
func (c *Controller) DeleteDeck(ctx context.Context, deckID string) error {
	release := c.markBusy([]string{FieldDeckLoad})
	defer release()

	if err := c.store.DeleteDeck(ctx, deckID); err != nil {
		return c.fail(ctx, err)
	}

	c.mu.Lock()
	if c.deck != nil && c.deck.ID == deckID {
		c.deck = nil
	}
	c.mu.Unlock()

	c.notify(ctx, notify.Info("Deck deleted"))
	return nil
}

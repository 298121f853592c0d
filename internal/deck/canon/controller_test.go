package canon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/notify"
	"github.com/statdeck/statdeck/internal/deck/storage"
)

type fakeDeckStore struct {
	mu       sync.Mutex
	decks    map[string]domain.Deck
	putCount int

	failPut  error
	blockPut chan struct{}
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{decks: make(map[string]domain.Deck)}
}

func (f *fakeDeckStore) PutDeck(_ context.Context, deck domain.Deck) error {
	if f.blockPut != nil {
		<-f.blockPut
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return f.failPut
	}
	f.putCount++
	f.decks[deck.ID] = deck.Clone()
	return nil
}

func (f *fakeDeckStore) GetDeck(_ context.Context, id string) (domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deck, ok := f.decks[id]
	if !ok {
		return domain.Deck{}, storage.ErrNotFound
	}
	return deck.Clone(), nil
}

func (f *fakeDeckStore) ListDecks(context.Context) ([]domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var decks []domain.Deck
	for _, deck := range f.decks {
		decks = append(decks, deck.Clone())
	}
	return decks, nil
}

func (f *fakeDeckStore) DeleteDeck(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.decks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.decks, id)
	return nil
}

func (f *fakeDeckStore) ClearDecks(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decks = make(map[string]domain.Deck)
	return nil
}

func (f *fakeDeckStore) stored(t *testing.T, id string) domain.Deck {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	deck, ok := f.decks[id]
	if !ok {
		t.Fatalf("deck %s not in store", id)
	}
	return deck.Clone()
}

func (f *fakeDeckStore) puts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCount
}

type recorder struct {
	mu            sync.Mutex
	notifications []notify.Notification
}

func (r *recorder) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) last(t *testing.T) notify.Notification {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		t.Fatal("expected a notification")
	}
	return r.notifications[len(r.notifications)-1]
}

func newTestController(t *testing.T) (*Controller, *fakeDeckStore, *recorder) {
	t.Helper()
	store := newFakeDeckStore()
	rec := &recorder{}
	controller := NewController(store, rec)
	controller.clock = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	seq := 0
	controller.newID = func() (string, error) {
		seq++
		return fmt.Sprintf("id-%d", seq), nil
	}
	return controller, store, rec
}

func loadDeckWithCards(t *testing.T, controller *Controller, cards ...string) domain.Deck {
	t.Helper()
	_, err := controller.CreateDeck(context.Background(), domain.NewDeckInput{Name: "Tales of the Uncanny"})
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	for _, name := range cards {
		if _, err := controller.AddCard(context.Background(), domain.NewCardInput{Name: name}, nil); err != nil {
			t.Fatalf("add card %s: %v", name, err)
		}
	}
	current, _ := controller.CurrentDeck()
	return current
}

func TestCreateDeckBecomesCanonical(t *testing.T) {
	controller, store, _ := newTestController(t)

	deck, err := controller.CreateDeck(context.Background(), domain.NewDeckInput{Name: "Tales of the Uncanny"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	current, ok := controller.CurrentDeck()
	if !ok || current.ID != deck.ID {
		t.Fatalf("expected canonical deck %s, got %+v", deck.ID, current)
	}
	stored := store.stored(t, deck.ID)
	if stored.Meta.Name != "Tales of the Uncanny" {
		t.Fatalf("unexpected stored deck %+v", stored)
	}
}

func TestUpdateDeckMetaCommitsWrittenValue(t *testing.T) {
	controller, store, rec := newTestController(t)
	deck := loadDeckWithCards(t, controller)

	name := "Renamed"
	theme := domain.ThemeMidnight
	err := controller.UpdateDeckMeta(context.Background(), MetaUpdate{
		Name:           &name,
		Theme:          &theme,
		SuccessMessage: "Deck updated",
	})
	if err != nil {
		t.Fatalf("update meta: %v", err)
	}

	current, _ := controller.CurrentDeck()
	stored := store.stored(t, deck.ID)
	if current.Meta.Name != "Renamed" || stored.Meta.Name != "Renamed" {
		t.Fatalf("expected rename in canon and store, got %q/%q", current.Meta.Name, stored.Meta.Name)
	}
	if current.Meta.Theme != domain.ThemeMidnight {
		t.Fatalf("expected theme change, got %q", current.Meta.Theme)
	}
	if rec.last(t).Message != "Deck updated" {
		t.Fatalf("expected requested success notification, got %+v", rec.last(t))
	}
}

func TestFailedWriteLeavesCanonicalUntouched(t *testing.T) {
	controller, store, rec := newTestController(t)
	loadDeckWithCards(t, controller, "Warden")
	before, _ := controller.CurrentDeck()

	store.failPut = errors.New("disk full")
	name := "Should Not Stick"
	err := controller.UpdateCard(context.Background(), before.Cards[0].ID, CardUpdate{Name: &name})
	if err == nil {
		t.Fatal("expected error")
	}

	after, _ := controller.CurrentDeck()
	if after.Cards[0].Name != "Warden" {
		t.Fatalf("canonical deck mutated on failed write: %+v", after.Cards[0])
	}
	if rec.last(t).Severity != notify.SeverityError {
		t.Fatalf("expected error notification, got %+v", rec.last(t))
	}
	if controller.IsFieldLoading(FieldCardIdentity) {
		t.Fatal("busy flag must clear on failure")
	}
}

func TestBusyFieldDuringInFlightOperation(t *testing.T) {
	controller, store, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller, "Warden")

	store.blockPut = make(chan struct{})
	done := make(chan error, 1)
	mechanics := []domain.Mechanic{{Type: domain.MechanicHealth, Name: "HP", Value: "10"}}
	go func() {
		done <- controller.UpdateCard(context.Background(), deck.Cards[0].ID, CardUpdate{Mechanics: mechanics})
	}()

	waitFor(t, func() bool { return controller.IsFieldLoading(FieldCardMechanics) })
	if controller.IsFieldLoading(FieldCardImage) {
		t.Fatal("untouched field must not be busy")
	}

	close(store.blockPut)
	if err := <-done; err != nil {
		t.Fatalf("update: %v", err)
	}
	if controller.IsFieldLoading(FieldCardMechanics) {
		t.Fatal("busy flag must clear after settle")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestUpdateCardImageURLWinsOverBlob(t *testing.T) {
	controller, _, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller, "Warden")
	cardID := deck.Cards[0].ID

	imageURL := "https://example.com/warden.png"
	handle := "blob-1"
	err := controller.UpdateCard(context.Background(), cardID, CardUpdate{
		ImageURL:    &imageURL,
		ImageHandle: &handle,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	current, _ := controller.CurrentDeck()
	image := current.Cards[0].Image
	if image.Kind != domain.ImageDurable || image.URL != imageURL || image.Handle != "" {
		t.Fatalf("expected durable image to win, got %+v", image)
	}

	// Blob alone replaces the URL, and clears it.
	err = controller.UpdateCard(context.Background(), cardID, CardUpdate{ImageHandle: &handle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	current, _ = controller.CurrentDeck()
	image = current.Cards[0].Image
	if image.Kind != domain.ImageLocal || image.Handle != "blob-1" || image.URL != "" {
		t.Fatalf("expected local image, got %+v", image)
	}
}

func TestUpdateCardDeepClonesCollections(t *testing.T) {
	controller, _, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller, "Warden")

	stats := []domain.StatValue{{StatID: "str", Value: "4"}}
	if err := controller.UpdateCard(context.Background(), deck.Cards[0].ID, CardUpdate{Stats: stats}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stats[0].Value = "mutated"
	current, _ := controller.CurrentDeck()
	if current.Cards[0].Stats[0].Value != "4" {
		t.Fatal("canonical deck aliases the caller's stats slice")
	}
}

func TestUpdateCardsBatchIsOneWrite(t *testing.T) {
	controller, store, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller, "Warden", "Scout")
	before := store.puts()

	roleA := "Guardian"
	roleB := "Pathfinder"
	err := controller.UpdateCards(context.Background(), map[string]CardUpdate{
		deck.Cards[0].ID: {Role: &roleA},
		deck.Cards[1].ID: {Role: &roleB},
	})
	if err != nil {
		t.Fatalf("batch update: %v", err)
	}
	if store.puts() != before+1 {
		t.Fatalf("expected one durable write, got %d", store.puts()-before)
	}

	current, _ := controller.CurrentDeck()
	if current.Cards[0].Role != "Guardian" || current.Cards[1].Role != "Pathfinder" {
		t.Fatalf("unexpected roles %+v", current.Cards)
	}
}

func TestDeleteCardsEmptyListIsNoOp(t *testing.T) {
	controller, store, _ := newTestController(t)
	loadDeckWithCards(t, controller, "Warden")
	before, _ := controller.CurrentDeck()
	puts := store.puts()

	if err := controller.DeleteCards(context.Background(), nil); err != nil {
		t.Fatalf("delete: %v", err)
	}

	after, _ := controller.CurrentDeck()
	if store.puts() != puts {
		t.Fatal("empty delete must not touch storage")
	}
	if !before.Meta.LastEdited.Equal(after.Meta.LastEdited) || len(after.Cards) != len(before.Cards) {
		t.Fatal("empty delete must leave the deck unchanged")
	}
}

func TestDeleteCardsMissingIDWritesNothing(t *testing.T) {
	controller, store, _ := newTestController(t)
	loadDeckWithCards(t, controller, "Warden")
	puts := store.puts()

	err := controller.DeleteCards(context.Background(), []string{"missing"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if store.puts() != puts {
		t.Fatal("failed delete must not write")
	}
}

func TestCopyCardsToNewDeckMintsFreshIDs(t *testing.T) {
	controller, store, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller, "Warden", "Scout")

	newDeckID, err := controller.CopyCards(context.Background(), []string{deck.Cards[0].ID, deck.Cards[1].ID}, TargetNewDeck, "Spinoff")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if newDeckID == deck.ID {
		t.Fatal("new deck must not reuse the source deck id")
	}

	target := store.stored(t, newDeckID)
	if target.Meta.Name != "Spinoff" || len(target.Cards) != 2 {
		t.Fatalf("unexpected target deck %+v", target)
	}
	sourceIDs := map[string]bool{deck.Cards[0].ID: true, deck.Cards[1].ID: true}
	for _, card := range target.Cards {
		if sourceIDs[card.ID] {
			t.Fatalf("copied card reused source id %s", card.ID)
		}
	}
}

func TestCopyCardsIntoCurrentDeck(t *testing.T) {
	controller, _, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller, "Warden")

	if _, err := controller.CopyCards(context.Background(), []string{deck.Cards[0].ID}, deck.ID, ""); err != nil {
		t.Fatalf("copy: %v", err)
	}

	current, _ := controller.CurrentDeck()
	if len(current.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(current.Cards))
	}
	if current.Cards[1].ID == current.Cards[0].ID {
		t.Fatal("duplicate must carry a fresh id")
	}
	if current.Cards[1].Name != "Warden" {
		t.Fatalf("duplicate lost its fields: %+v", current.Cards[1])
	}
}

func TestOperationsWithoutActiveDeck(t *testing.T) {
	controller, _, rec := newTestController(t)

	name := "x"
	err := controller.UpdateDeckMeta(context.Background(), MetaUpdate{Name: &name})
	if !errors.Is(err, ErrNoActiveDeck) {
		t.Fatalf("expected ErrNoActiveDeck, got %v", err)
	}
	if rec.last(t).Severity != notify.SeverityError {
		t.Fatalf("expected error notification, got %+v", rec.last(t))
	}
}

func TestSelectDeckLoadsFromStore(t *testing.T) {
	controller, _, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller, "Warden")
	controller.Unload()

	if _, ok := controller.CurrentDeck(); ok {
		t.Fatal("expected no canonical deck after unload")
	}
	if err := controller.SelectDeck(context.Background(), deck.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	current, ok := controller.CurrentDeck()
	if !ok || current.ID != deck.ID {
		t.Fatalf("expected deck %s selected, got %+v", deck.ID, current)
	}
}

func TestDeleteDeckUnloadsCanonical(t *testing.T) {
	controller, store, _ := newTestController(t)
	deck := loadDeckWithCards(t, controller)

	if err := controller.DeleteDeck(context.Background(), deck.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := controller.CurrentDeck(); ok {
		t.Fatal("expected canonical deck cleared")
	}
	if _, err := store.GetDeck(context.Background(), deck.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected record removed, got %v", err)
	}
}

func TestLastEditedAdvancesOnEveryMutation(t *testing.T) {
	controller, _, _ := newTestController(t)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	controller.clock = func() time.Time { return current }

	deck := loadDeckWithCards(t, controller, "Warden")
	first := deck.Meta.LastEdited

	current = current.Add(time.Minute)
	name := "Renamed"
	if err := controller.UpdateDeckMeta(context.Background(), MetaUpdate{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := controller.CurrentDeck()
	if !after.Meta.LastEdited.After(first) {
		t.Fatalf("expected LastEdited to advance past %v, got %v", first, after.Meta.LastEdited)
	}

	// A clock that jumps backwards must not rewind the deck.
	current = current.Add(-time.Hour)
	role := "Guardian"
	if err := controller.UpdateCard(context.Background(), after.Cards[0].ID, CardUpdate{Role: &role}); err != nil {
		t.Fatalf("update card: %v", err)
	}
	final, _ := controller.CurrentDeck()
	if final.Meta.LastEdited.Before(after.Meta.LastEdited) {
		t.Fatalf("LastEdited went backwards: %v -> %v", after.Meta.LastEdited, final.Meta.LastEdited)
	}
}

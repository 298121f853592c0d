package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/statdeck/statdeck/internal/deck/domain"
	apperrors "github.com/statdeck/statdeck/internal/platform/errors"
)

func shareableDeck(cardCount int) domain.Deck {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deck := domain.Deck{
		ID: "deck-1",
		Meta: domain.DeckMeta{
			Name:       "Tales of the Uncanny",
			Theme:      domain.ThemeParchment,
			CardSize:   domain.SizeTarot,
			CreatedAt:  created,
			LastEdited: created.Add(time.Hour),
		},
	}
	for i := 0; i < cardCount; i++ {
		deck.Cards = append(deck.Cards, domain.Card{
			ID:          fmt.Sprintf("card-%d", i+1),
			Name:        fmt.Sprintf("Entity %d", i+1),
			Role:        "Wanderer",
			Description: "Seen only at dusk.",
			Image:       domain.DurableImage(fmt.Sprintf("https://img.example.com/%d.png", i+1)),
			Stats:       []domain.StatValue{{StatID: "str", Value: "4"}},
			Mechanics:   []domain.Mechanic{{Type: domain.MechanicHealth, Name: "HP", Value: "10", Tracked: true}},
		})
	}
	return deck
}

func TestRoundTripPreservesEverything(t *testing.T) {
	deck := shareableDeck(3)

	encoded, err := Encode(deck)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !reflect.DeepEqual(deck, decoded) {
		t.Fatalf("round trip lost data:\n want %+v\n got  %+v", deck, decoded)
	}
	if decoded.Meta.Name != "Tales of the Uncanny" || len(decoded.Cards) != 3 {
		t.Fatalf("unexpected deck %q with %d cards", decoded.Meta.Name, len(decoded.Cards))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	deck := shareableDeck(2)
	first, err := Encode(deck)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := Encode(deck)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if first != second {
		t.Fatal("encoding the same deck twice produced different envelopes")
	}
}

func TestURLFormsRoundTrip(t *testing.T) {
	deck := shareableDeck(1)
	origin := "https://statdeck.example.com"

	for _, form := range []Form{FormQuery, FormFragment} {
		shareURL, err := EncodeURL(origin, deck, form)
		if err != nil {
			t.Fatalf("encode form %d: %v", form, err)
		}
		if !strings.HasPrefix(shareURL, origin) {
			t.Fatalf("expected origin prefix, got %q", shareURL)
		}
		decoded, err := Decode(shareURL)
		if err != nil {
			t.Fatalf("decode form %d: %v", form, err)
		}
		if !reflect.DeepEqual(deck, decoded) {
			t.Fatalf("form %d round trip lost data", form)
		}
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not a deck at all",
		"{not json",
		`{"id":""}`,
		"https://statdeck.example.com/?deck=%7Bbroken",
		"https://statdeck.example.com/#data=",
		"https://statdeck.example.com/?other=1",
	}
	for _, transport := range cases {
		if _, err := Decode(transport); !errors.Is(err, ErrDecode) {
			t.Fatalf("expected DECODE_ERROR for %q, got %v", transport, err)
		}
	}
}

func TestDecodeRejectsStructurallyInvalidDeck(t *testing.T) {
	deck := shareableDeck(1)
	deck.Meta.Theme = "neon"
	payload, err := Encode(deck)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(payload); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected DECODE_ERROR, got %v", err)
	}
}

func TestMeasureSizeMonotonic(t *testing.T) {
	previous := 0
	for cards := 0; cards <= 5; cards++ {
		size, err := MeasureSize(shareableDeck(cards))
		if err != nil {
			t.Fatalf("measure: %v", err)
		}
		if size <= previous {
			t.Fatalf("size must grow as cards are appended: %d then %d", previous, size)
		}
		previous = size
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		size int
		want RiskLevel
	}{
		{0, RiskOK},
		{24999, RiskOK},
		{25001, RiskWarning},
		{30000, RiskWarning},
		{30001, RiskError},
	}
	for _, tc := range tests {
		if got := Classify(tc.size); got != tc.want {
			t.Fatalf("classify(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestClassifierUsesSmallestTargetLimit(t *testing.T) {
	classifier := NewClassifier(LimitTable{"kiosk": 10000, "desktop": 50000})
	if got := classifier.Classify(10500); got != RiskWarning {
		t.Fatalf("expected the kiosk limit to trigger warning, got %q", got)
	}
	if got := classifier.Classify(9999); got != RiskOK {
		t.Fatalf("expected ok below the kiosk limit, got %q", got)
	}
}

func TestDetectMigrationNeeded(t *testing.T) {
	deck := shareableDeck(3)
	deck.Cards[0].Image = domain.LocalImage("blob-1")
	deck.Cards[1].Image = domain.ImageRef{}

	report := DetectMigrationNeeded(deck)
	if report.BlobCount != 1 {
		t.Fatalf("expected 1 blob, got %d", report.BlobCount)
	}
	if report.MissingImageCount != 1 {
		t.Fatalf("expected 1 missing image, got %d", report.MissingImageCount)
	}
	if !report.NeedsMigration() {
		t.Fatal("deck with local blobs must need migration")
	}
}

func TestDetectMigrationCountsBareFilenames(t *testing.T) {
	deck := shareableDeck(1)
	deck.Cards[0].Image = domain.ImageRef{Kind: domain.ImageDurable, URL: "portrait.png"}

	report := DetectMigrationNeeded(deck)
	if report.BlobCount != 1 {
		t.Fatalf("a bare filename is not durable; got %d blobs", report.BlobCount)
	}
}

func TestEnsureShareable(t *testing.T) {
	if err := EnsureShareable(shareableDeck(2)); err != nil {
		t.Fatalf("durable deck must be shareable: %v", err)
	}

	blocked := shareableDeck(2)
	blocked.Cards[0].Image = domain.LocalImage("blob-1")
	err := EnsureShareable(blocked)
	if !errors.Is(err, apperrors.New(apperrors.CodeDeckNotShareable, "")) {
		t.Fatalf("expected DECK_NOT_SHAREABLE, got %v", err)
	}
}

func TestExportFileRoundTrip(t *testing.T) {
	deck := shareableDeck(2)
	contents, filename, err := ExportFile(deck)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filename != "tales-of-the-uncanny.json" {
		t.Fatalf("unexpected filename %q", filename)
	}

	imported, err := ImportFile(contents)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(deck, imported) {
		t.Fatal("file round trip lost data")
	}
}

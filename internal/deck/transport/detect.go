package transport

import (
	"fmt"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/platform/errors"
)

// MigrationReport counts image references that cannot survive transport.
type MigrationReport struct {
	// BlobCount is the number of cards whose image reference is locally
	// scoped and would not resolve on a recipient's machine.
	BlobCount int
	// MissingImageCount is the number of cards with no image at all.
	MissingImageCount int
}

// NeedsMigration reports whether the deck must be migrated before sharing.
func (r MigrationReport) NeedsMigration() bool {
	return r.BlobCount > 0
}

// DetectMigrationNeeded inspects every card image. Only an absolute network
// URL counts as durable; any other non-empty reference must be migrated
// before the deck can be shared.
func DetectMigrationNeeded(deck domain.Deck) MigrationReport {
	var report MigrationReport
	for _, card := range deck.Cards {
		switch {
		case card.Image.IsZero():
			report.MissingImageCount++
		case !card.Image.IsDurable():
			report.BlobCount++
		}
	}
	return report
}

// EnsureShareable returns a DECK_NOT_SHAREABLE error when the deck still
// carries locally scoped images.
func EnsureShareable(deck domain.Deck) error {
	report := DetectMigrationNeeded(deck)
	if !report.NeedsMigration() {
		return nil
	}
	return errors.WithMetadata(
		errors.CodeDeckNotShareable,
		fmt.Sprintf("%d card image(s) are stored locally and will not load for recipients", report.BlobCount),
		map[string]string{"blobCount": fmt.Sprintf("%d", report.BlobCount)},
	)
}

package transport

import (
	"strings"

	"github.com/statdeck/statdeck/internal/deck/domain"
)

// ExportFile returns the standalone .json file contents for a deck, along
// with a filename derived from the deck name.
func ExportFile(deck domain.Deck) ([]byte, string, error) {
	payload, err := Encode(deck)
	if err != nil {
		return nil, "", err
	}
	return []byte(payload), exportFilename(deck.Meta.Name), nil
}

// ImportFile decodes a previously exported .json file through the same
// validate-before-use path as URLs.
func ImportFile(contents []byte) (domain.Deck, error) {
	return Decode(string(contents))
}

func exportFilename(deckName string) string {
	name := strings.TrimSpace(strings.ToLower(deckName))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "deck"
	}
	return slug + ".json"
}

// Package transport converts decks to and from their share representation: a
// JSON envelope embedded in a URL or saved as a standalone file. The package
// is a pure transform; clipboard writes and file downloads live with the
// caller.
package transport

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/platform/errors"
)

// Form selects how an encoded deck is embedded in a URL.
type Form int

const (
	// FormQuery embeds the deck as ?deck=<payload>.
	FormQuery Form = iota
	// FormFragment embeds the deck as #data=<payload>.
	FormFragment
)

const (
	queryParam     = "deck"
	fragmentPrefix = "data="
)

// ErrDecode is the sentinel for malformed transport input.
var ErrDecode = errors.New(errors.CodeDecodeError, "shared deck could not be decoded")

// Encode serializes the deck to its canonical JSON envelope. The output is a
// pure function of the deck value.
func Encode(deck domain.Deck) (string, error) {
	payload, err := json.Marshal(deck)
	if err != nil {
		return "", errors.Wrap(errors.CodeDecodeError, "encode deck", err)
	}
	return string(payload), nil
}

// EncodeURL embeds the deck's JSON envelope into a share URL on the given
// origin.
func EncodeURL(origin string, deck domain.Deck, form Form) (string, error) {
	payload, err := Encode(deck)
	if err != nil {
		return "", err
	}

	base, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", errors.Wrap(errors.CodeDecodeError, "parse share origin", err)
	}

	switch form {
	case FormFragment:
		base.Fragment = fragmentPrefix + url.QueryEscape(payload)
	default:
		values := base.Query()
		values.Set(queryParam, payload)
		base.RawQuery = values.Encode()
	}
	return base.String(), nil
}

// Decode parses a transport string back into a deck. It accepts raw JSON,
// the query form, and the fragment form, and never returns a partially
// populated deck: any parse or validation failure yields ErrDecode.
func Decode(transport string) (domain.Deck, error) {
	payload, ok := extractPayload(transport)
	if !ok {
		return domain.Deck{}, ErrDecode
	}

	var deck domain.Deck
	if err := json.Unmarshal([]byte(payload), &deck); err != nil {
		return domain.Deck{}, errors.Wrap(errors.CodeDecodeError, "shared deck could not be decoded", err)
	}

	if violations := domain.ValidateDeck(deck, domain.DeckRules{AllowEmpty: true}); len(violations) > 0 {
		return domain.Deck{}, errors.WithMetadata(
			errors.CodeDecodeError,
			"shared deck is not valid: "+violations[0].String(),
			violationMetadata(violations),
		)
	}
	return deck, nil
}

func violationMetadata(violations []domain.Violation) map[string]string {
	metadata := make(map[string]string, len(violations))
	for _, v := range violations {
		metadata[v.Field] = v.Message
	}
	return metadata
}

// extractPayload pulls the JSON envelope out of a transport string without
// ever panicking on malformed input.
func extractPayload(transport string) (string, bool) {
	transport = strings.TrimSpace(transport)
	if transport == "" {
		return "", false
	}

	// Raw JSON, e.g. the contents of an exported file.
	if strings.HasPrefix(transport, "{") {
		return transport, true
	}

	parsed, err := url.Parse(transport)
	if err != nil {
		return "", false
	}

	if payload := parsed.Query().Get(queryParam); payload != "" {
		return payload, true
	}

	fragment := parsed.Fragment
	if strings.HasPrefix(fragment, fragmentPrefix) {
		payload, err := url.QueryUnescape(strings.TrimPrefix(fragment, fragmentPrefix))
		if err != nil {
			return "", false
		}
		if payload != "" {
			return payload, true
		}
	}
	return "", false
}

// MeasureSize reports the exact UTF-8 byte length of the deck's encoded
// envelope, independent of any displaying browser.
func MeasureSize(deck domain.Deck) (int, error) {
	payload, err := Encode(deck)
	if err != nil {
		return 0, err
	}
	return len(payload), nil
}

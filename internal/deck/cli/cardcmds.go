package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/statdeck/statdeck/internal/deck/canon"
	"github.com/statdeck/statdeck/internal/deck/domain"
)

func (a *App) runCard(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("card action is required (add, edit, copy, delete)")
	}

	action, rest := args[0], args[1:]
	switch action {
	case "add":
		return a.runCardAdd(ctx, rest)
	case "edit":
		return a.runCardEdit(ctx, rest)
	case "copy":
		return a.runCardCopy(ctx, rest)
	case "delete":
		return a.runCardDelete(ctx, rest)
	default:
		return fmt.Errorf("unknown card action %q", action)
	}
}

func splitIDs(value string) []string {
	var ids []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func (a *App) runCardAdd(ctx context.Context, args []string) error {
	fs := a.flagSet("card add")
	deckID := fs.String("deck", "", "deck id (required)")
	name := fs.String("name", "", "card name (required)")
	role := fs.String("role", "", "card role line")
	description := fs.String("desc", "", "card description")
	presetID := fs.String("preset", "", "seed stats and mechanics from this game preset")
	imageURL := fs.String("image-url", "", "durable image URL")
	imageFile := fs.String("image-file", "", "local image file to ingest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var preset *domain.GamePreset
	if *presetID != "" {
		found, err := a.store.GetPreset(ctx, *presetID)
		if err != nil {
			return err
		}
		preset = &found
	}

	if err := a.controller.SelectDeck(ctx, *deckID); err != nil {
		return err
	}
	cardID, err := a.controller.AddCard(ctx, domain.NewCardInput{
		Name:        *name,
		Role:        *role,
		Description: *description,
	}, preset)
	if err != nil {
		return err
	}

	update, err := a.imageUpdate(*imageURL, *imageFile, false)
	if err != nil {
		return err
	}
	if update != nil {
		if err := a.controller.UpdateCard(ctx, cardID, *update); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "added card %s\n", cardID)
	return nil
}

// imageUpdate builds a card update for the image flags. An ingested file
// becomes a local blob handle; a URL stays durable as given.
func (a *App) imageUpdate(imageURL, imageFile string, clear bool) (*canon.CardUpdate, error) {
	update := &canon.CardUpdate{ClearImage: clear}
	touched := clear

	if imageURL != "" {
		update.ImageURL = &imageURL
		touched = true
	}
	if imageFile != "" {
		handle, err := a.blobs.Ingest(imageFile)
		if err != nil {
			return nil, err
		}
		update.ImageHandle = &handle
		touched = true
	}
	if !touched {
		return nil, nil
	}
	return update, nil
}

func (a *App) runCardEdit(ctx context.Context, args []string) error {
	fs := a.flagSet("card edit")
	deckID := fs.String("deck", "", "deck id (required)")
	cardID := fs.String("card", "", "card id (required)")
	name := fs.String("name", "", "new card name")
	role := fs.String("role", "", "new role line")
	description := fs.String("desc", "", "new description")
	imageURL := fs.String("image-url", "", "durable image URL")
	imageFile := fs.String("image-file", "", "local image file to ingest")
	clearImage := fs.Bool("clear-image", false, "remove the card image")
	if err := fs.Parse(args); err != nil {
		return err
	}

	update, err := a.imageUpdate(*imageURL, *imageFile, *clearImage)
	if err != nil {
		return err
	}
	if update == nil {
		update = &canon.CardUpdate{}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.Name = name
		case "role":
			update.Role = role
		case "desc":
			update.Description = description
		}
	})
	update.SuccessMessage = "Card updated"

	if err := a.controller.SelectDeck(ctx, *deckID); err != nil {
		return err
	}
	return a.controller.UpdateCard(ctx, *cardID, *update)
}

func (a *App) runCardCopy(ctx context.Context, args []string) error {
	fs := a.flagSet("card copy")
	deckID := fs.String("deck", "", "source deck id (required)")
	cards := fs.String("cards", "", "comma-separated card ids (required)")
	target := fs.String("to", canon.TargetNewDeck, "target deck id, or \"new\" for a fresh deck")
	newName := fs.String("new-name", "", "name for the new deck when -to=new")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.controller.SelectDeck(ctx, *deckID); err != nil {
		return err
	}
	targetID, err := a.controller.CopyCards(ctx, splitIDs(*cards), *target, *newName)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "copied into deck %s\n", targetID)
	return nil
}

func (a *App) runCardDelete(ctx context.Context, args []string) error {
	fs := a.flagSet("card delete")
	deckID := fs.String("deck", "", "deck id (required)")
	cards := fs.String("cards", "", "comma-separated card ids (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.controller.SelectDeck(ctx, *deckID); err != nil {
		return err
	}
	return a.controller.DeleteCards(ctx, splitIDs(*cards))
}

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/statdeck/statdeck/internal/deck/canon"
	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/seed"
)

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) runNew(ctx context.Context, args []string) error {
	fs := a.flagSet("new")
	name := fs.String("name", "", "deck name (required)")
	theme := fs.String("theme", "", "visual theme")
	size := fs.String("size", "", "card size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, err := a.controller.CreateDeck(ctx, domain.NewDeckInput{
		Name:     *name,
		Theme:    domain.Theme(*theme),
		CardSize: domain.CardSize(*size),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created deck %s (%s)\n", deck.ID, deck.Meta.Name)
	return nil
}

func (a *App) runList(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	decks, err := a.store.ListDecks(ctx)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Fprintln(a.out, "no decks")
		return nil
	}
	for _, deck := range decks {
		fmt.Fprintf(a.out, "%s  %-24s  %d cards  edited %s\n",
			deck.ID, deck.Meta.Name, len(deck.Cards),
			deck.Meta.LastEdited.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *App) runShow(ctx context.Context, args []string) error {
	fs := a.flagSet("show")
	deckID := fs.String("deck", "", "deck id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, err := a.store.GetDeck(ctx, *deckID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", deck.Meta.Name)
	fmt.Fprintf(a.out, "  id: %s  theme: %s  size: %s\n", deck.ID, deck.Meta.Theme, deck.Meta.CardSize)
	if deck.Meta.StatblockConfigID != "" {
		fmt.Fprintf(a.out, "  statblock config: %s\n", deck.Meta.StatblockConfigID)
	}
	for _, card := range deck.Cards {
		fmt.Fprintf(a.out, "  card %s  %s", card.ID, card.Name)
		if card.Role != "" {
			fmt.Fprintf(a.out, " (%s)", card.Role)
		}
		fmt.Fprintln(a.out)
		switch card.Image.Kind {
		case domain.ImageDurable:
			fmt.Fprintf(a.out, "    image: %s\n", card.Image.URL)
		case domain.ImageLocal:
			fmt.Fprintf(a.out, "    image: local blob %s\n", card.Image.Handle)
		}
		for _, stat := range card.Stats {
			fmt.Fprintf(a.out, "    stat %s = %s\n", stat.StatID, stat.Value)
		}
		for _, mechanic := range card.Mechanics {
			fmt.Fprintf(a.out, "    %s %s = %s\n", mechanic.Type, mechanic.Name, mechanic.Value)
		}
	}
	return nil
}

func (a *App) runSet(ctx context.Context, args []string) error {
	fs := a.flagSet("set")
	deckID := fs.String("deck", "", "deck id (required)")
	name := fs.String("name", "", "new deck name")
	theme := fs.String("theme", "", "new theme")
	size := fs.String("size", "", "new card size")
	configID := fs.String("config", "", "statblock config id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update canon.MetaUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.Name = name
		case "theme":
			value := domain.Theme(*theme)
			update.Theme = &value
		case "size":
			value := domain.CardSize(*size)
			update.CardSize = &value
		case "config":
			update.StatblockConfigID = configID
		}
	})
	update.SuccessMessage = "Deck updated"

	if err := a.controller.SelectDeck(ctx, *deckID); err != nil {
		return err
	}
	return a.controller.UpdateDeckMeta(ctx, update)
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	deckID := fs.String("deck", "", "deck id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.controller.DeleteDeck(ctx, *deckID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted deck %s\n", *deckID)
	return nil
}

func (a *App) runSeed(ctx context.Context, args []string) error {
	fs := a.flagSet("seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := seed.Run(ctx, a.store)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "seeded %d presets, %d statblock configs\n",
		result.PresetsCreated, result.ConfigsCreated)
	return nil
}

func (a *App) runPresets(ctx context.Context, args []string) error {
	fs := a.flagSet("presets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	presets, err := a.store.ListPresets(ctx)
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		fmt.Fprintln(a.out, "no presets (run: statdeck seed)")
		return nil
	}
	for _, preset := range presets {
		marker := " "
		if preset.IsOfficial {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %-20s  %d stats, %d mechanics\n",
			marker, preset.ID, preset.Name, len(preset.Stats), len(preset.Mechanics))
	}
	return nil
}

func (a *App) runConfigs(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "customize" {
		return a.runConfigCustomize(ctx, args[1:])
	}

	fs := a.flagSet("configs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	configs, err := a.store.ListConfigs(ctx)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		fmt.Fprintln(a.out, "no statblock configs (run: statdeck seed)")
		return nil
	}
	for _, cfg := range configs {
		marker := " "
		if cfg.IsOfficial {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s\n", marker, cfg.ID, cfg.Name)
	}
	return nil
}

func (a *App) runConfigCustomize(ctx context.Context, args []string) error {
	fs := a.flagSet("configs customize")
	baseID := fs.String("base", "", "config id to copy from (required)")
	name := fs.String("name", "", "name for the customized config (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base, err := a.store.GetConfig(ctx, *baseID)
	if err != nil {
		return err
	}
	custom, err := domain.CustomizeConfig(base, *name, nil, nil)
	if err != nil {
		return err
	}
	if err := a.store.PutConfig(ctx, custom); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created config %s (%s) from %s\n", custom.ID, custom.Name, base.Name)
	return nil
}

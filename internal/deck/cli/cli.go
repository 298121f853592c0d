// Package cli implements the statdeck command surface. The binary's main
// stays thin; every command here takes its arguments and an output writer
// so tests can drive the full flow without a process boundary.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/statdeck/statdeck/internal/deck/canon"
	"github.com/statdeck/statdeck/internal/deck/image"
	"github.com/statdeck/statdeck/internal/deck/notify"
	"github.com/statdeck/statdeck/internal/deck/storage"
	"github.com/statdeck/statdeck/internal/deck/storage/bolt"
	"github.com/statdeck/statdeck/internal/deck/storage/sqlite"
	"github.com/statdeck/statdeck/internal/deck/transport"
	"github.com/statdeck/statdeck/internal/platform/config"
)

// App wires configuration, storage, and the deck controller for one CLI
// invocation.
type App struct {
	cfg        config.Config
	store      storage.Store
	blobs      *image.BlobStore
	controller *canon.Controller
	notifier   *notify.Broadcaster
	out        io.Writer
}

// New opens the configured storage engine and builds the command wiring.
func New(cfg config.Config, out io.Writer) (*App, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := image.NewBlobStore(filepath.Join(filepath.Dir(cfg.StoragePath), "blobs"))
	if err != nil {
		store.Close()
		return nil, err
	}

	notifier := &notify.Broadcaster{}
	notifier.Subscribe(notify.Func(func(_ context.Context, n notify.Notification) {
		fmt.Fprintf(out, "[%s] %s\n", n.Severity, n.Message)
	}))

	return &App{
		cfg:        cfg,
		store:      store,
		blobs:      blobs,
		controller: canon.NewController(store, notifier),
		notifier:   notifier,
		out:        out,
	}, nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StorageEngine {
	case config.EngineSQLite:
		return sqlite.Open(cfg.StoragePath)
	case config.EngineBolt:
		return bolt.Open(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.StorageEngine)
	}
}

// Close releases the storage handle.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

// classifier builds the share size classifier from configured URL limits,
// falling back to the built-in browser table.
func (a *App) classifier() transport.Classifier {
	if len(a.cfg.URLLimits) == 0 {
		return transport.NewClassifier(nil)
	}
	limits := make(transport.LimitTable, len(a.cfg.URLLimits))
	for target, limit := range a.cfg.URLLimits {
		limits[target] = limit
	}
	return transport.NewClassifier(limits)
}

// Run dispatches a subcommand. The first argument selects the command; the
// rest are its flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("command is required")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "new":
		return a.runNew(ctx, rest)
	case "list":
		return a.runList(ctx, rest)
	case "show":
		return a.runShow(ctx, rest)
	case "set":
		return a.runSet(ctx, rest)
	case "delete":
		return a.runDelete(ctx, rest)
	case "card":
		return a.runCard(ctx, rest)
	case "share":
		return a.runShare(ctx, rest)
	case "export":
		return a.runExport(ctx, rest)
	case "preview":
		return a.runPreview(ctx, rest)
	case "import":
		return a.runImport(ctx, rest)
	case "seed":
		return a.runSeed(ctx, rest)
	case "presets":
		return a.runPresets(ctx, rest)
	case "configs":
		return a.runConfigs(ctx, rest)
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.out, strings.TrimLeft(`
Usage: statdeck <command> [flags]

Decks:
  new      create a deck
  list     list stored decks
  show     print a deck and its cards
  set      update deck name, theme, card size, or statblock config
  delete   delete a stored deck

Cards:
  card add|edit|copy|delete   manage cards in a deck

Sharing:
  share    print the share URL with its size classification
  export   write a deck to a JSON file
  preview  preview a shared deck without importing it
  import   import a shared deck as a new local deck

Library:
  seed     install the official presets and statblock configs
  presets  list game presets
  configs  list or customize statblock configs
`, "\n"))
}

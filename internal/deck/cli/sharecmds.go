package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/statdeck/statdeck/internal/deck/image"
	"github.com/statdeck/statdeck/internal/deck/share"
	"github.com/statdeck/statdeck/internal/deck/transport"
)

func (a *App) runShare(ctx context.Context, args []string) error {
	fs := a.flagSet("share")
	deckID := fs.String("deck", "", "deck id (required)")
	fragment := fs.Bool("fragment", false, "embed the deck in the URL fragment instead of the query")
	copyURL := fs.Bool("copy", false, "copy the share URL to the clipboard")
	qrPath := fs.String("qr", "", "write a QR code PNG of the share URL to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, err := a.store.GetDeck(ctx, *deckID)
	if err != nil {
		return err
	}
	if err := transport.EnsureShareable(deck); err != nil {
		return err
	}

	form := transport.FormQuery
	if *fragment {
		form = transport.FormFragment
	}
	shareURL, err := transport.EncodeURL(a.cfg.ShareOrigin, deck, form)
	if err != nil {
		return err
	}

	size, err := transport.MeasureSize(deck)
	if err != nil {
		return err
	}
	risk := a.classifier().Classify(size)

	fmt.Fprintln(a.out, shareURL)
	fmt.Fprintf(a.out, "payload: %d bytes (%s)\n", size, risk)
	switch risk {
	case transport.RiskWarning:
		fmt.Fprintln(a.out, "warning: the URL may exceed some browser limits; consider a file export")
	case transport.RiskError:
		fmt.Fprintln(a.out, "error: the URL is too large for reliable sharing; use a file export")
	}

	if *copyURL {
		if err := clipboard.WriteAll(shareURL); err != nil {
			fmt.Fprintf(a.out, "clipboard unavailable: %v\n", err)
		} else {
			fmt.Fprintln(a.out, "copied to clipboard")
		}
	}

	if *qrPath != "" {
		png, err := image.ShareQR(shareURL, 0)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*qrPath, png, 0o600); err != nil {
			return fmt.Errorf("write qr file: %w", err)
		}
		fmt.Fprintf(a.out, "qr code written to %s\n", *qrPath)
	}
	return nil
}

func (a *App) runExport(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	deckID := fs.String("deck", "", "deck id (required)")
	dir := fs.String("dir", ".", "directory to write the export into")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, err := a.store.GetDeck(ctx, *deckID)
	if err != nil {
		return err
	}
	if err := transport.EnsureShareable(deck); err != nil {
		return err
	}
	contents, filename, err := transport.ExportFile(deck)
	if err != nil {
		return err
	}

	path := filepath.Join(*dir, filename)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(a.out, "exported to %s\n", path)
	return nil
}

// receiveArgs reads the shared payload for preview/import: a URL or raw
// JSON via -url, or a file produced by export via -file.
func receiveArgs(url, file string) (string, error) {
	if url != "" {
		return url, nil
	}
	if file != "" {
		contents, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read share file: %w", err)
		}
		return string(contents), nil
	}
	return "", fmt.Errorf("one of -url or -file is required")
}

func (a *App) runPreview(ctx context.Context, args []string) error {
	fs := a.flagSet("preview")
	url := fs.String("url", "", "share URL or raw deck payload")
	file := fs.String("file", "", "exported deck file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payload, err := receiveArgs(*url, *file)
	if err != nil {
		return err
	}
	receipt, err := share.Receive(payload, a.store, a.notifier)
	if err != nil {
		return err
	}

	deck := receipt.Preview()
	fmt.Fprintf(a.out, "%s  %d cards  theme %s\n", deck.Meta.Name, len(deck.Cards), deck.Meta.Theme)
	for _, card := range deck.Cards {
		fmt.Fprintf(a.out, "  %s", card.Name)
		if card.Role != "" {
			fmt.Fprintf(a.out, " (%s)", card.Role)
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprintln(a.out, "preview only; run: statdeck import to keep it")
	return receipt.Cancel()
}

func (a *App) runImport(ctx context.Context, args []string) error {
	fs := a.flagSet("import")
	url := fs.String("url", "", "share URL or raw deck payload")
	file := fs.String("file", "", "exported deck file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payload, err := receiveArgs(*url, *file)
	if err != nil {
		return err
	}
	receipt, err := share.Receive(payload, a.store, a.notifier)
	if err != nil {
		return err
	}

	deckID, err := receipt.Import(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported deck %s\n", deckID)
	return nil
}

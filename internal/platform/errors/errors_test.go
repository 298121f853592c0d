package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	base := New(CodeNotFound, "record not found")
	wrapped := fmt.Errorf("load deck: %w", Wrap(CodeNotFound, "deck missing", stderrors.New("no row")))

	if !stderrors.Is(wrapped, base) {
		t.Fatalf("expected wrapped error to match by code")
	}
	if stderrors.Is(wrapped, New(CodeStorageWriteFailed, "write failed")) {
		t.Fatalf("expected no match across distinct codes")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeStorageWriteFailed, "persist deck", cause)

	if !stderrors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if err.Error() != "persist deck" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeValidationFailed, "deck invalid", map[string]string{"field": "name"})
	if err.Metadata["field"] != "name" {
		t.Fatalf("expected metadata to be preserved")
	}
}

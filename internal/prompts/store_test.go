package prompts

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewStoreEmbeddedDefaults(t *testing.T) {
	store, err := NewStore("", discardLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	for _, name := range []string{"document_analyzer", "splitter", "classifier", "risk_detector"} {
		if _, err := store.Get(name); err != nil {
			t.Errorf("Get(%q) error = %v", name, err)
		}
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store, err := NewStore("", discardLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := store.Get("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nonexistent) error = %v, want ErrNotFound", err)
	}
}

func TestStoreRender(t *testing.T) {
	store, err := NewStore("", discardLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	rendered, err := store.Render("classifier", map[string]string{
		"clause_id":   "clause_3",
		"clause_text": "Each party shall keep the terms confidential.",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(rendered, "clause_3") {
		t.Error("rendered prompt missing clause id substitution")
	}
	if !strings.Contains(rendered, "Each party shall keep the terms confidential.") {
		t.Error("rendered prompt missing clause text substitution")
	}
	if strings.Contains(rendered, "{clause_id}") || strings.Contains(rendered, "{clause_text}") {
		t.Error("rendered prompt contains unsubstituted placeholders")
	}
}

func TestStoreRenderMissingValue(t *testing.T) {
	store, err := NewStore("", discardLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := store.Render("classifier", map[string]string{"clause_id": "clause_1"}); !errors.Is(err, ErrUnresolved) {
		t.Errorf("Render() error = %v, want ErrUnresolved", err)
	}
}

func TestStoreDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	override := "Custom splitter instructions for {document_text}"
	if err := os.WriteFile(filepath.Join(dir, "splitter.txt"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	store, err := NewStore(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	tmpl, err := store.Get("splitter")
	if err != nil {
		t.Fatalf("Get(splitter) error = %v", err)
	}
	if tmpl != override {
		t.Errorf("Get(splitter) = %q, want override content", tmpl)
	}

	// Non-overridden templates keep their embedded content.
	classifier, err := store.Get("classifier")
	if err != nil {
		t.Fatalf("Get(classifier) error = %v", err)
	}
	if !strings.Contains(classifier, "Miscellaneous") {
		t.Error("embedded classifier template lost after override load")
	}
}

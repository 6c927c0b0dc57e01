package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("panel.current_id", map[string]any{"ID": 518})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Current Chess960 ID: 518" {
		t.Fatalf("got=%q", got)
	}
	for _, key := range []string{"panel.load", "panel.random", "panel.input_placeholder", "help.keys", "cli.usage"} {
		if _, err := c.Render(key, nil); err != nil {
			t.Fatalf("%s: %v", key, err)
		}
	}
}

func TestMissingKeyAndData(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("nope.key", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := c.Render("panel.current_id", map[string]any{}); err == nil {
		t.Fatalf("expected error for missing template data")
	}
	if got := c.Text("nope.key", nil); got != "nope.key" {
		t.Fatalf("Text fallback=%q", got)
	}
	var nilCat *Catalog
	if got := nilCat.Text("panel.load", nil); got != "panel.load" {
		t.Fatalf("nil catalog fallback=%q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("panel:\n  load: \"Open\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("panel.load", nil); got != "Open" {
		t.Fatalf("override not applied: %q", got)
	}
	if got := c.Text("panel.random", nil); got != "Random Position" {
		t.Fatalf("default lost: %q", got)
	}
}

func TestOverrideDuplicateKey(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("panel:\n  load: \"x\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	_, err := New(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestOverrideRejectsNonString(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("panel:\n  load: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected error for non-string leaf")
	}
}

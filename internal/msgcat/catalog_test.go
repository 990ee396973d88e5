package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedMessagesRender(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("fog.move.illegal", map[string]any{"Move": "e2e5"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "e2e5") {
		t.Fatalf("rendered text missing move: %q", out)
	}
	if _, err := c.Render("fog.move.illegal", map[string]any{}); err == nil {
		t.Fatalf("missing template field must be an error")
	}
	if got := c.Text("fog.nope", nil); got != "fog.nope" {
		t.Fatalf("Text fallback = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("fog:\n  start: \"GO {{.White}}\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("fog.start", map[string]string{"White": "w", "Black": "b"})
	if err != nil || out != "GO w" {
		t.Fatalf("override not applied: %q %v", out, err)
	}
	if !c.Has("fog.help") {
		t.Fatalf("embedded keys must survive overrides")
	}
}

func TestOverrideDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yml", "b.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fog:\n  start: x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestNonStringLeafRejected(t *testing.T) {
	if _, err := parseYAMLToFlat([]byte("fog:\n  limit: 3\n")); err == nil {
		t.Fatalf("expected error for integer leaf")
	}
}

package selector

import (
	"os"
	"path/filepath"
	"testing"
)

func TestForWindow(t *testing.T) {
	dsl, err := ForWindow("Untitled - Notepad", "Notepad")
	if err != nil {
		t.Fatalf("ForWindow failed: %v", err)
	}
	if dsl != "Window>title~Untitled - Notepad;class~Notepad" {
		t.Fatalf("got %q", dsl)
	}

	titleOnly, err := ForWindow("Calculator", "")
	if err != nil {
		t.Fatalf("ForWindow failed: %v", err)
	}
	if titleOnly != "Window>title~Calculator" {
		t.Fatalf("got %q", titleOnly)
	}

	if _, err := ForWindow("", ""); err == nil {
		t.Fatalf("empty window should be rejected")
	}
}

func TestForWindowEscapesTitle(t *testing.T) {
	dsl, err := ForWindow("a>b;c", "")
	if err != nil {
		t.Fatalf("ForWindow failed: %v", err)
	}
	sel, err := Parse(dsl)
	if err != nil {
		t.Fatalf("generated selector does not parse: %v", err)
	}
	if got := sel.Path[0].Criteria[0].Value; got != "a>b;c" {
		t.Fatalf("round-tripped value %q", got)
	}
}

func TestForControl(t *testing.T) {
	win, _ := ForWindow("Save Dialog", "#32770")

	first, err := ForControl(win, "Button", "Save", 0)
	if err != nil {
		t.Fatalf("ForControl failed: %v", err)
	}
	if first != win+">Control>class~Button;text~Save" {
		t.Fatalf("got %q", first)
	}

	second, err := ForControl(win, "Button", "Cancel", 1)
	if err != nil {
		t.Fatalf("ForControl failed: %v", err)
	}
	if second != win+">Control>class~Button;text~Cancel;index~1" {
		t.Fatalf("got %q", second)
	}

	if _, err := ForControl(win, "", "", 0); err == nil {
		t.Fatalf("empty control should be rejected")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "save.sel")

	dsl := "Window>title~Save Dialog>Control>class~Button;text~Save"
	sel, err := Parse(dsl)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := sel.ToFile(path); err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}

	loaded, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if loaded.DSL() != dsl {
		t.Fatalf("loaded %q, want %q", loaded.DSL(), dsl)
	}
	if len(loaded.Path) != 2 {
		t.Fatalf("loaded %d levels", len(loaded.Path))
	}
}

func TestFromFileFirstLineOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.sel")
	content := "Window>title~First\nWindow>title~Second\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sel, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if sel.Path[0].Criteria[0].Value != "First" {
		t.Fatalf("got %q", sel.Path[0].Criteria[0].Value)
	}
}

func TestFromFileErrors(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.sel")); err == nil {
		t.Fatalf("missing file should fail")
	}

	empty := filepath.Join(t.TempDir(), "empty.sel")
	if err := os.WriteFile(empty, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := FromFile(empty); err == nil {
		t.Fatalf("empty file should fail")
	}
}

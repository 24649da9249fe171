package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestStringParam(t *testing.T) {
	params := map[string]interface{}{"title": "Notepad", "count": 3.0}
	if got := StringParam(params, "title", ""); got != "Notepad" {
		t.Fatalf("got %q", got)
	}
	if got := StringParam(params, "missing", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
	if got := StringParam(params, "count", "fallback"); got != "fallback" {
		t.Fatalf("wrong type should fall back, got %q", got)
	}
}

func TestIntParam(t *testing.T) {
	params := map[string]interface{}{"x": 42.0, "label": "nope"}
	if got := IntParam(params, "x", 0); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := IntParam(params, "missing", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	if got := IntParam(params, "label", 7); got != 7 {
		t.Fatalf("wrong type should fall back, got %d", got)
	}
}

func TestBoolParam(t *testing.T) {
	params := map[string]interface{}{"double": true}
	if !BoolParam(params, "double", false) {
		t.Fatalf("got false")
	}
	if BoolParam(params, "missing", false) {
		t.Fatalf("got true")
	}
	if !BoolParam(params, "missing", true) {
		t.Fatalf("default not honored")
	}
}

func TestSelectorFromFlags(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	addElementFlags(c)

	sel, err := selectorFromFlags(c)
	if err != nil || sel != nil {
		t.Fatalf("no flags should yield nil selector, got %v, %v", sel, err)
	}

	c.Flags().Set("selector", "Window>title~Notepad")
	sel, err = selectorFromFlags(c)
	if err != nil {
		t.Fatalf("selectorFromFlags failed: %v", err)
	}
	if sel == nil || sel.Path[0].Kind != "Window" {
		t.Fatalf("unexpected selector: %+v", sel)
	}
}

func TestSelectorFromFlagsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "win.sel")
	if err := os.WriteFile(path, []byte("Window>class~Notepad\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := &cobra.Command{Use: "test"}
	addElementFlags(c)
	c.Flags().Set("selector-file", path)

	sel, err := selectorFromFlags(c)
	if err != nil {
		t.Fatalf("selectorFromFlags failed: %v", err)
	}
	if sel.Path[0].Criteria[0].Attribute != "class" {
		t.Fatalf("unexpected selector: %+v", sel)
	}
}

func TestElementTargetGiven(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	addElementFlags(c)
	if elementTargetGiven(c) {
		t.Fatalf("no flags set, should be false")
	}
	c.Flags().Set("name", "OK")
	if !elementTargetGiven(c) {
		t.Fatalf("name set, should be true")
	}
}

func TestResultText(t *testing.T) {
	out := resultText(ActionResult{OK: true, Action: "click", Target: "OK"})
	for _, want := range []string{"ok: true", "action: click", "target: OK"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

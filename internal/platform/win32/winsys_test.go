//go:build windows

package win32

import (
	"errors"
	"testing"

	"uiauto/internal/platform"
)

// The runtime caps the number of registered syscall callbacks well below
// 4000, so this passes only when every Enumerate call reuses one callback.
func TestEnumerateRepeatedly(t *testing.T) {
	ws := windowSystem{}
	for i := 0; i < 4000; i++ {
		if err := ws.Enumerate(func(platform.WindowRef) error { return nil }); err != nil {
			t.Fatalf("Enumerate failed on pass %d: %v", i, err)
		}
	}
}

func TestEnumerateStopsOnVisitError(t *testing.T) {
	ws := windowSystem{}
	stop := errors.New("stop")
	visited := 0
	err := ws.Enumerate(func(platform.WindowRef) error {
		visited++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("visit error not propagated, got %v", err)
	}
	if visited != 1 {
		t.Fatalf("enumeration continued after the error, visited %d", visited)
	}
}

//go:build windows

package win32

import (
	"fmt"
	"unsafe"
)

const (
	inputMouse = 0

	mouseEventLeftDown = 0x0002
	mouseEventLeftUp   = 0x0004
)

// mouseInput is the Win32 MOUSEINPUT layout inside the 64-bit INPUT union.
type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uintptr
}

// inputEvent is the 64-bit INPUT layout for mouse events.
type inputEvent struct {
	inputType uint32
	_         uint32
	mi        mouseInput
}

// inputInjector implements platform.Input with hardware-level injection:
// the events land on whatever is under the cursor.
type inputInjector struct{}

func (inputInjector) MovePointer(x, y int) error {
	ok, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ok == 0 {
		return fmt.Errorf("SetCursorPos: %w", err)
	}
	return nil
}

func (inputInjector) PointerDown() error { return sendMouse(mouseEventLeftDown) }
func (inputInjector) PointerUp() error   { return sendMouse(mouseEventLeftUp) }

func sendMouse(flags uint32) error {
	ev := inputEvent{inputType: inputMouse, mi: mouseInput{dwFlags: flags}}
	n, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&ev)), unsafe.Sizeof(ev))
	if n == 0 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}

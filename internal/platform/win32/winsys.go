//go:build windows

package win32

import (
	"fmt"
	"sync"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	"uiauto/internal/model"
	"uiauto/internal/platform"
)

// windowSystem implements platform.WindowSystem over user32.
type windowSystem struct{}

func (windowSystem) FindByTitle(title string) (platform.WindowRef, error) {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("transcode title: %w", err)
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(p)))
	return platform.WindowRef(hwnd), nil
}

func (windowSystem) FindByClass(class string) (platform.WindowRef, error) {
	p, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0, fmt.Errorf("transcode class: %w", err)
	}
	hwnd, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(p)), 0)
	return platform.WindowRef(hwnd), nil
}

func (windowSystem) Foreground() (platform.WindowRef, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return platform.WindowRef(hwnd), nil
}

// Callbacks registered with the runtime are never released and their total
// is capped, so enumeration shares one callback and swaps the visit
// function under enumMu.
var (
	enumMu    sync.Mutex
	enumVisit func(hwnd uintptr) uintptr
)

var enumCallback = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
	return enumVisit(hwnd)
})

func (windowSystem) Enumerate(visit func(platform.WindowRef) error) error {
	enumMu.Lock()
	defer enumMu.Unlock()
	var visitErr error
	enumVisit = func(hwnd uintptr) uintptr {
		if err := visit(platform.WindowRef(hwnd)); err != nil {
			visitErr = err
			return 0
		}
		return 1
	}
	defer func() { enumVisit = nil }()
	procEnumWindows.Call(enumCallback, 0)
	return visitErr
}

func (windowSystem) IsVisible(ref platform.WindowRef) bool {
	r, _, _ := procIsWindowVisible.Call(uintptr(ref))
	return r != 0
}

func (windowSystem) IsMinimized(ref platform.WindowRef) bool {
	r, _, _ := procIsIconic.Call(uintptr(ref))
	return r != 0
}

func (windowSystem) IsMaximized(ref platform.WindowRef) bool {
	r, _, _ := procIsZoomed.Call(uintptr(ref))
	return r != 0
}

func (windowSystem) Rect(ref platform.WindowRef) (model.Rect, error) {
	var r rect
	ok, _, err := procGetWindowRect.Call(uintptr(ref), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return model.Rect{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return model.Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}, nil
}

func (windowSystem) Title(ref platform.WindowRef) (string, error) {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(ref), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n]), nil
}

func (windowSystem) ClassName(ref platform.WindowRef) (string, error) {
	buf := make([]uint16, 256)
	n, _, err := procGetClassNameW.Call(uintptr(ref), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return "", fmt.Errorf("GetClassName: %w", err)
	}
	return windows.UTF16ToString(buf[:n]), nil
}

func (windowSystem) PID(ref platform.WindowRef) (int, error) {
	var pid uint32
	tid, _, err := procGetWindowThreadProcessId.Call(uintptr(ref), uintptr(unsafe.Pointer(&pid)))
	if tid == 0 {
		return 0, fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}
	return int(pid), nil
}

func (windowSystem) SetForeground(ref platform.WindowRef) error {
	ok, _, err := procSetForegroundWindow.Call(uintptr(ref))
	if ok == 0 {
		return fmt.Errorf("SetForegroundWindow: %w", err)
	}
	return nil
}

func (windowSystem) Show(ref platform.WindowRef, cmd platform.ShowCmd) error {
	var sw uintptr
	switch cmd {
	case platform.ShowMaximize:
		sw = swMaximize
	case platform.ShowMinimize:
		sw = swMinimize
	case platform.ShowRestore:
		sw = swRestore
	default:
		sw = swShowNormal
	}
	// ShowWindow's return value is the previous visibility state, not an
	// error signal; a zero means the window was hidden before.
	procShowWindow.Call(uintptr(ref), sw)
	return nil
}

func (windowSystem) Move(ref platform.WindowRef, x, y int) error {
	ok, _, err := procSetWindowPos.Call(uintptr(ref), 0,
		uintptr(x), uintptr(y), 0, 0, swpNoSize|swpNoZOrder)
	if ok == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

func (windowSystem) Resize(ref platform.WindowRef, width, height int) error {
	ok, _, err := procSetWindowPos.Call(uintptr(ref), 0,
		0, 0, uintptr(width), uintptr(height), swpNoMove|swpNoZOrder)
	if ok == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

func (windowSystem) Post(ref platform.WindowRef, msg platform.Message) error {
	lparam := makeLParam(msg.X, msg.Y)
	switch msg.Kind {
	case platform.MsgLeftDown:
		return post(ref, wmLButtonDown, mkLButton, lparam)
	case platform.MsgLeftUp:
		return post(ref, wmLButtonUp, 0, lparam)
	case platform.MsgLeftDouble:
		return post(ref, wmLButtonDbled, mkLButton, lparam)
	case platform.MsgRightDown:
		return post(ref, wmRButtonDown, mkRButton, lparam)
	case platform.MsgRightUp:
		return post(ref, wmRButtonUp, 0, lparam)
	case platform.MsgChar:
		// Characters outside the BMP post as a surrogate pair.
		for _, unit := range utf16.Encode([]rune{msg.Char}) {
			if err := post(ref, wmChar, uintptr(unit), 0); err != nil {
				return err
			}
		}
		return nil
	case platform.MsgKeyDown:
		return post(ref, wmKeyDown, uintptr(msg.Key), 0)
	case platform.MsgKeyUp:
		return post(ref, wmKeyUp, uintptr(msg.Key), 0)
	case platform.MsgClose:
		return post(ref, wmClose, 0, 0)
	default:
		return fmt.Errorf("unknown message kind %d", msg.Kind)
	}
}

func post(ref platform.WindowRef, msg, wparam, lparam uintptr) error {
	ok, _, err := procPostMessageW.Call(uintptr(ref), msg, wparam, lparam)
	if ok == 0 {
		return fmt.Errorf("PostMessage 0x%04X: %w", msg, err)
	}
	return nil
}

func makeLParam(x, y int) uintptr {
	return uintptr(uint32(y)<<16 | uint32(x)&0xFFFF)
}

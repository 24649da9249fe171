//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	clsidCUIAutomation            = mustGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation              = mustGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")
	iidIUIAutomationValuePattern  = mustGUID("{A94CD8B1-0844-4CD6-9D2D-640537AB39E9}")
	iidIUIAutomationInvokePattern = mustGUID("{FB377FBE-8EA6-46D5-9C73-6499642D3059}")
)

const (
	clsctxInprocServer = 0x1

	// CoInitializeEx result when the thread was already initialized with a
	// different apartment model; treated as success.
	hrRPCChangedMode = 0x80010106

	vtBSTR = 8
)

func mustGUID(s string) windows.GUID {
	g, err := windows.GUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return g
}

func hrFailed(hr uintptr) bool { return int32(hr) < 0 }

func hrError(op string, hr uintptr) error {
	return fmt.Errorf("%s: HRESULT 0x%08X", op, uint32(hr))
}

// rect is the Win32 RECT layout.
type rect struct {
	Left, Top, Right, Bottom int32
}

// variant is the 64-bit VARIANT layout, large enough for the BSTR case this
// package builds. On x64 a by-value VARIANT argument is passed as a pointer
// to a caller-owned copy.
type variant struct {
	vt  uint16
	_   [3]uint16
	val uintptr
	_   uintptr
}

// newBSTR transcodes a Go string to a BSTR. The caller frees it with
// freeBSTR. Strings that cannot be represented in UTF-16 (interior NULs)
// fail here rather than at the COM call.
func newBSTR(s string) (uintptr, error) {
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return 0, fmt.Errorf("transcode %q: %w", s, err)
	}
	b, _, _ := procSysAllocString.Call(uintptr(unsafe.Pointer(p)))
	if b == 0 {
		return 0, fmt.Errorf("SysAllocString failed")
	}
	return b, nil
}

func freeBSTR(b uintptr) {
	if b != 0 {
		procSysFreeString.Call(b)
	}
}

// bstrToString copies a BSTR into a Go string.
func bstrToString(b uintptr) string {
	if b == 0 {
		return ""
	}
	n, _, _ := procSysStringLen.Call(b)
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(unsafe.Slice((*uint16)(unsafe.Pointer(b)), n))
}

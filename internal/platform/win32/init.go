//go:build windows

package win32

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"uiauto/internal/platform"
)

// backend implements platform.Backend: COM apartment lifecycle plus the
// UI Automation service connection.
type backend struct{}

func (backend) InitContext() error {
	hr, _, _ := procCoInitializeEx.Call(0, windows.COINIT_MULTITHREADED)
	// A thread already initialized with a different apartment model is
	// usable as-is.
	if hrFailed(hr) && uint32(hr) != hrRPCChangedMode {
		return hrError("CoInitializeEx", hr)
	}
	return nil
}

func (backend) TeardownContext() {
	procCoUninitialize.Call()
}

func (backend) Connect() (platform.Accessibility, error) {
	var obj *comUIAutomation
	hr, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidCUIAutomation)),
		0,
		clsctxInprocServer,
		uintptr(unsafe.Pointer(&iidIUIAutomation)),
		uintptr(unsafe.Pointer(&obj)))
	if hrFailed(hr) || obj == nil {
		return nil, hrError("CoCreateInstance(CUIAutomation)", hr)
	}
	return &automation{obj: obj}, nil
}

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Backend:   backend{},
			Windows:   windowSystem{},
			Input:     inputInjector{},
			Processes: processSystem{},
			Clock:     platform.SystemClock{},
		}, nil
	}
}

//go:build windows

package win32

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"uiauto/internal/model"
	"uiauto/internal/platform"
)

// UI Automation property, pattern, and scope IDs.
const (
	uiaNameProperty         = 30005
	uiaAutomationIDProperty = 30011
	uiaClassNameProperty    = 30012

	uiaInvokePattern = 10000
	uiaValuePattern  = 10002

	treeScopeDescendants = 4
)

// Vtable layouts. Field order mirrors the UIAutomationClient IDL; only the
// slots this package dispatches are named past the ones needed to keep the
// offsets correct.

type iUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type iUIAutomationVtbl struct {
	iUnknownVtbl
	CompareElements             uintptr
	CompareRuntimeIds           uintptr
	GetRootElement              uintptr
	ElementFromHandle           uintptr
	ElementFromPoint            uintptr
	GetFocusedElement           uintptr
	GetRootElementBuildCache    uintptr
	ElementFromHandleBuildCache uintptr
	ElementFromPointBuildCache  uintptr
	GetFocusedElementBuildCache uintptr
	CreateTreeWalker            uintptr
	GetControlViewWalker        uintptr
	GetContentViewWalker        uintptr
	GetRawViewWalker            uintptr
	GetRawViewCondition         uintptr
	GetControlViewCondition     uintptr
	GetContentViewCondition     uintptr
	CreateCacheRequest          uintptr
	CreateTrueCondition         uintptr
	CreateFalseCondition        uintptr
	CreatePropertyCondition     uintptr
}

type iUIAutomationElementVtbl struct {
	iUnknownVtbl
	SetFocus                      uintptr
	GetRuntimeId                  uintptr
	FindFirst                     uintptr
	FindAll                       uintptr
	FindFirstBuildCache           uintptr
	FindAllBuildCache             uintptr
	BuildUpdatedCache             uintptr
	GetCurrentPropertyValue       uintptr
	GetCurrentPropertyValueEx     uintptr
	GetCachedPropertyValue        uintptr
	GetCachedPropertyValueEx      uintptr
	GetCurrentPatternAs           uintptr
	GetCachedPatternAs            uintptr
	GetCurrentPattern             uintptr
	GetCachedPattern              uintptr
	GetCachedParent               uintptr
	GetCachedChildren             uintptr
	GetCurrentProcessId           uintptr
	GetCurrentControlType         uintptr
	GetCurrentLocalizedControlTyp uintptr
	GetCurrentName                uintptr
	GetCurrentAcceleratorKey      uintptr
	GetCurrentAccessKey           uintptr
	GetCurrentHasKeyboardFocus    uintptr
	GetCurrentIsKeyboardFocusable uintptr
	GetCurrentIsEnabled           uintptr
	GetCurrentAutomationId        uintptr
	GetCurrentClassName           uintptr
	GetCurrentHelpText            uintptr
	GetCurrentCulture             uintptr
	GetCurrentIsControlElement    uintptr
	GetCurrentIsContentElement    uintptr
	GetCurrentIsPassword          uintptr
	GetCurrentNativeWindowHandle  uintptr
	GetCurrentItemType            uintptr
	GetCurrentIsOffscreen         uintptr
	GetCurrentOrientation         uintptr
	GetCurrentFrameworkId         uintptr
	GetCurrentIsRequiredForForm   uintptr
	GetCurrentItemStatus          uintptr
	GetCurrentBoundingRectangle   uintptr
}

type iUIAutomationTreeWalkerVtbl struct {
	iUnknownVtbl
	GetParentElement          uintptr
	GetFirstChildElement      uintptr
	GetLastChildElement       uintptr
	GetNextSiblingElement     uintptr
	GetPreviousSiblingElement uintptr
}

type iUIAutomationValuePatternVtbl struct {
	iUnknownVtbl
	SetValue uintptr
}

type iUIAutomationInvokePatternVtbl struct {
	iUnknownVtbl
	Invoke uintptr
}

type comUIAutomation struct{ vtbl *iUIAutomationVtbl }
type comElement struct{ vtbl *iUIAutomationElementVtbl }
type comTreeWalker struct{ vtbl *iUIAutomationTreeWalkerVtbl }
type comCondition struct{ vtbl *iUnknownVtbl }
type comValuePattern struct{ vtbl *iUIAutomationValuePatternVtbl }
type comInvokePattern struct{ vtbl *iUIAutomationInvokePatternVtbl }

func releaseUnknown(obj unsafe.Pointer, release uintptr) {
	syscall.SyscallN(release, uintptr(obj))
}

// automation implements platform.Accessibility over IUIAutomation.
type automation struct {
	obj *comUIAutomation
}

func (a *automation) Root() (platform.Element, error) {
	var out *comElement
	hr, _, _ := syscall.SyscallN(a.obj.vtbl.GetRootElement,
		uintptr(unsafe.Pointer(a.obj)),
		uintptr(unsafe.Pointer(&out)))
	if hrFailed(hr) {
		return nil, hrError("GetRootElement", hr)
	}
	if out == nil {
		return nil, fmt.Errorf("GetRootElement returned no element")
	}
	return &uiaElement{obj: out}, nil
}

func (a *automation) FromWindow(ref platform.WindowRef) (platform.Element, error) {
	var out *comElement
	hr, _, _ := syscall.SyscallN(a.obj.vtbl.ElementFromHandle,
		uintptr(unsafe.Pointer(a.obj)),
		uintptr(ref),
		uintptr(unsafe.Pointer(&out)))
	if hrFailed(hr) {
		return nil, hrError("ElementFromHandle", hr)
	}
	if out == nil {
		return nil, nil
	}
	return &uiaElement{obj: out}, nil
}

func (a *automation) NewCondition(prop platform.Property, value string) (platform.Condition, error) {
	var propID uintptr
	switch prop {
	case platform.PropName:
		propID = uiaNameProperty
	case platform.PropAutomationID:
		propID = uiaAutomationIDProperty
	case platform.PropClassName:
		propID = uiaClassNameProperty
	default:
		return nil, fmt.Errorf("unknown property %d", prop)
	}

	bstr, err := newBSTR(value)
	if err != nil {
		return nil, err
	}
	defer freeBSTR(bstr)

	v := variant{vt: vtBSTR, val: bstr}
	var out *comCondition
	hr, _, _ := syscall.SyscallN(a.obj.vtbl.CreatePropertyCondition,
		uintptr(unsafe.Pointer(a.obj)),
		propID,
		uintptr(unsafe.Pointer(&v)),
		uintptr(unsafe.Pointer(&out)))
	if hrFailed(hr) || out == nil {
		return nil, hrError("CreatePropertyCondition", hr)
	}
	return &uiaCondition{obj: out}, nil
}

func (a *automation) ControlWalker() (platform.TreeWalker, error) {
	var out *comTreeWalker
	hr, _, _ := syscall.SyscallN(a.obj.vtbl.GetControlViewWalker,
		uintptr(unsafe.Pointer(a.obj)),
		uintptr(unsafe.Pointer(&out)))
	if hrFailed(hr) || out == nil {
		return nil, hrError("get_ControlViewWalker", hr)
	}
	return &uiaWalker{obj: out}, nil
}

func (a *automation) Same(x, y platform.Element) (bool, error) {
	ex, okX := x.(*uiaElement)
	ey, okY := y.(*uiaElement)
	if !okX || !okY {
		return false, fmt.Errorf("element is not a UIA element")
	}
	var same int32
	hr, _, _ := syscall.SyscallN(a.obj.vtbl.CompareElements,
		uintptr(unsafe.Pointer(a.obj)),
		uintptr(unsafe.Pointer(ex.obj)),
		uintptr(unsafe.Pointer(ey.obj)),
		uintptr(unsafe.Pointer(&same)))
	if hrFailed(hr) {
		return false, hrError("CompareElements", hr)
	}
	return same != 0, nil
}

func (a *automation) Release() {
	releaseUnknown(unsafe.Pointer(a.obj), a.obj.vtbl.Release)
}

// uiaCondition implements platform.Condition.
type uiaCondition struct {
	obj *comCondition
}

func (c *uiaCondition) Release() {
	releaseUnknown(unsafe.Pointer(c.obj), c.obj.vtbl.Release)
}

// uiaElement implements platform.Element over IUIAutomationElement.
type uiaElement struct {
	obj *comElement
}

func (e *uiaElement) bstrProperty(op string, slot uintptr) (string, error) {
	var bstr uintptr
	hr, _, _ := syscall.SyscallN(slot,
		uintptr(unsafe.Pointer(e.obj)),
		uintptr(unsafe.Pointer(&bstr)))
	if hrFailed(hr) {
		return "", hrError(op, hr)
	}
	defer freeBSTR(bstr)
	return bstrToString(bstr), nil
}

func (e *uiaElement) Name() (string, error) {
	return e.bstrProperty("get_CurrentName", e.obj.vtbl.GetCurrentName)
}

func (e *uiaElement) ClassName() (string, error) {
	return e.bstrProperty("get_CurrentClassName", e.obj.vtbl.GetCurrentClassName)
}

func (e *uiaElement) Rect() (model.Rect, error) {
	var r rect
	hr, _, _ := syscall.SyscallN(e.obj.vtbl.GetCurrentBoundingRectangle,
		uintptr(unsafe.Pointer(e.obj)),
		uintptr(unsafe.Pointer(&r)))
	if hrFailed(hr) {
		return model.Rect{}, hrError("get_CurrentBoundingRectangle", hr)
	}
	return model.Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}, nil
}

func (e *uiaElement) Enabled() (bool, error) {
	var enabled int32
	hr, _, _ := syscall.SyscallN(e.obj.vtbl.GetCurrentIsEnabled,
		uintptr(unsafe.Pointer(e.obj)),
		uintptr(unsafe.Pointer(&enabled)))
	if hrFailed(hr) {
		return false, hrError("get_CurrentIsEnabled", hr)
	}
	return enabled != 0, nil
}

func (e *uiaElement) FindFirst(cond platform.Condition) (platform.Element, error) {
	uc, ok := cond.(*uiaCondition)
	if !ok {
		return nil, fmt.Errorf("condition is not a UIA condition")
	}
	var out *comElement
	hr, _, _ := syscall.SyscallN(e.obj.vtbl.FindFirst,
		uintptr(unsafe.Pointer(e.obj)),
		treeScopeDescendants,
		uintptr(unsafe.Pointer(uc.obj)),
		uintptr(unsafe.Pointer(&out)))
	if hrFailed(hr) {
		return nil, hrError("FindFirst", hr)
	}
	if out == nil {
		return nil, nil
	}
	return &uiaElement{obj: out}, nil
}

func (e *uiaElement) pattern(patternID uintptr, iid *windows.GUID) (unsafe.Pointer, error) {
	var out unsafe.Pointer
	hr, _, _ := syscall.SyscallN(e.obj.vtbl.GetCurrentPatternAs,
		uintptr(unsafe.Pointer(e.obj)),
		patternID,
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&out)))
	if hrFailed(hr) {
		return nil, hrError("GetCurrentPatternAs", hr)
	}
	if out == nil {
		return nil, fmt.Errorf("pattern %d not supported by element", patternID)
	}
	return out, nil
}

func (e *uiaElement) Value() (platform.ValuePattern, error) {
	p, err := e.pattern(uiaValuePattern, &iidIUIAutomationValuePattern)
	if err != nil {
		return nil, err
	}
	return &valuePattern{obj: (*comValuePattern)(p)}, nil
}

func (e *uiaElement) Invoker() (platform.InvokePattern, error) {
	p, err := e.pattern(uiaInvokePattern, &iidIUIAutomationInvokePattern)
	if err != nil {
		return nil, err
	}
	return &invokePattern{obj: (*comInvokePattern)(p)}, nil
}

func (e *uiaElement) Release() {
	releaseUnknown(unsafe.Pointer(e.obj), e.obj.vtbl.Release)
}

// uiaWalker implements platform.TreeWalker.
type uiaWalker struct {
	obj *comTreeWalker
}

func (w *uiaWalker) step(op string, slot uintptr, of platform.Element) (platform.Element, error) {
	el, ok := of.(*uiaElement)
	if !ok {
		return nil, fmt.Errorf("element is not a UIA element")
	}
	var out *comElement
	hr, _, _ := syscall.SyscallN(slot,
		uintptr(unsafe.Pointer(w.obj)),
		uintptr(unsafe.Pointer(el.obj)),
		uintptr(unsafe.Pointer(&out)))
	if hrFailed(hr) {
		return nil, hrError(op, hr)
	}
	if out == nil {
		return nil, nil
	}
	return &uiaElement{obj: out}, nil
}

func (w *uiaWalker) Parent(of platform.Element) (platform.Element, error) {
	return w.step("GetParentElement", w.obj.vtbl.GetParentElement, of)
}

func (w *uiaWalker) FirstChild(of platform.Element) (platform.Element, error) {
	return w.step("GetFirstChildElement", w.obj.vtbl.GetFirstChildElement, of)
}

func (w *uiaWalker) NextSibling(of platform.Element) (platform.Element, error) {
	return w.step("GetNextSiblingElement", w.obj.vtbl.GetNextSiblingElement, of)
}

func (w *uiaWalker) Release() {
	releaseUnknown(unsafe.Pointer(w.obj), w.obj.vtbl.Release)
}

// valuePattern implements platform.ValuePattern.
type valuePattern struct {
	obj *comValuePattern
}

func (v *valuePattern) Set(value string) error {
	bstr, err := newBSTR(value)
	if err != nil {
		return err
	}
	defer freeBSTR(bstr)
	hr, _, _ := syscall.SyscallN(v.obj.vtbl.SetValue,
		uintptr(unsafe.Pointer(v.obj)),
		bstr)
	if hrFailed(hr) {
		return hrError("SetValue", hr)
	}
	return nil
}

func (v *valuePattern) Release() {
	releaseUnknown(unsafe.Pointer(v.obj), v.obj.vtbl.Release)
}

// invokePattern implements platform.InvokePattern.
type invokePattern struct {
	obj *comInvokePattern
}

func (i *invokePattern) Invoke() error {
	hr, _, _ := syscall.SyscallN(i.obj.vtbl.Invoke,
		uintptr(unsafe.Pointer(i.obj)))
	if hrFailed(hr) {
		return hrError("Invoke", hr)
	}
	return nil
}

func (i *invokePattern) Release() {
	releaseUnknown(unsafe.Pointer(i.obj), i.obj.vtbl.Release)
}

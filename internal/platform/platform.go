// Package platform defines the contracts this module's navigation and
// lifecycle core has with the operating system: the window registry and
// message queue, the accessibility service, OS-level input injection, the
// process table, and time. The real Win32/UIA backend lives in the win32
// subpackage; tests substitute in-memory doubles.
package platform

import (
	"time"

	"uiauto/internal/model"
)

// WindowRef identifies a native top-level window. The window itself is owned
// by the OS, never by this process; a WindowRef of zero means "no window".
type WindowRef uintptr

// Property identifies the element property a search condition compares.
type Property int

const (
	PropName Property = iota
	PropAutomationID
	PropClassName
)

// MessageKind enumerates the window messages this layer posts. Posting
// queues the message to the target window; it does not require the window
// to be focused or on top.
type MessageKind int

const (
	MsgLeftDown MessageKind = iota
	MsgLeftUp
	MsgLeftDouble
	MsgRightDown
	MsgRightUp
	MsgChar
	MsgKeyDown
	MsgKeyUp
	MsgClose
)

// Message is one posted window message. X/Y are client coordinates for
// button messages, Char carries the character for MsgChar, Key the virtual
// key code for MsgKeyDown/MsgKeyUp.
type Message struct {
	Kind MessageKind
	X, Y int
	Char rune
	Key  int
}

// ShowCmd selects a window show-state change request.
type ShowCmd int

const (
	ShowMaximize ShowCmd = iota
	ShowMinimize
	ShowRestore
)

// WindowSystem is the platform window registry and message queue.
// Find methods return a zero WindowRef when nothing matches.
type WindowSystem interface {
	FindByTitle(title string) (WindowRef, error)
	FindByClass(class string) (WindowRef, error)
	Foreground() (WindowRef, error)

	// Enumerate visits every top-level window in platform enumeration
	// order. Enumeration stops early when visit returns an error, and
	// that error is returned unchanged.
	Enumerate(visit func(WindowRef) error) error

	IsVisible(ref WindowRef) bool
	IsMinimized(ref WindowRef) bool
	IsMaximized(ref WindowRef) bool
	Rect(ref WindowRef) (model.Rect, error)
	Title(ref WindowRef) (string, error)
	ClassName(ref WindowRef) (string, error)
	PID(ref WindowRef) (int, error)

	SetForeground(ref WindowRef) error
	Show(ref WindowRef, cmd ShowCmd) error
	Move(ref WindowRef, x, y int) error
	Resize(ref WindowRef, width, height int) error
	Post(ref WindowRef, msg Message) error
}

// Input injects events at the OS level. Unlike posted messages these affect
// whatever is under the cursor, foreground or not.
type Input interface {
	MovePointer(x, y int) error
	PointerDown() error
	PointerUp() error
}

// Clock supplies the fixed inter-event delays. Tests substitute a recording
// clock so synthetic input sequences run without real sleeping.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock is the real Clock.
type SystemClock struct{}

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Backend owns the accessibility subsystem's global communication context.
// InitContext and TeardownContext bracket the process-wide COM (or
// equivalent) state; Connect acquires the service connection and is only
// valid between them.
type Backend interface {
	InitContext() error
	TeardownContext()
	Connect() (Accessibility, error)
}

// Accessibility is the connected accessibility service.
type Accessibility interface {
	// Root returns the tree root (the desktop).
	Root() (Element, error)

	// FromWindow returns the element backing a native window.
	FromWindow(ref WindowRef) (Element, error)

	// NewCondition builds a single-property equality condition. A value
	// that cannot be transcoded to the platform's native encoding is an
	// error.
	NewCondition(prop Property, value string) (Condition, error)

	// ControlWalker returns a tree walker over the control view, which
	// filters out non-interactive nodes.
	ControlWalker() (TreeWalker, error)

	// Same reports whether two elements refer to the same tree node.
	// Distinct handles to one node compare equal.
	Same(a, b Element) (bool, error)

	Release()
}

// Condition is an opaque property condition built by the service.
type Condition interface {
	Release()
}

// Element is one node of the accessibility tree, holding one native
// reference that must be released exactly once. Lookup methods that find
// nothing return a nil Element with a nil error.
type Element interface {
	Name() (string, error)
	ClassName() (string, error)
	Rect() (model.Rect, error)
	Enabled() (bool, error)

	// FindFirst performs a depth-first full-descendant search for the
	// first element matching cond.
	FindFirst(cond Condition) (Element, error)

	// Value returns the element's value-pattern capability, or an error
	// if the element does not expose it. Absence is a normal condition,
	// not corruption.
	Value() (ValuePattern, error)

	// Invoker returns the element's invoke-pattern capability, or an
	// error if the element does not expose it.
	Invoker() (InvokePattern, error)

	Release()
}

// TreeWalker steps through the tree one relation at a time. Step methods
// return a nil Element with a nil error when the relation is empty.
type TreeWalker interface {
	Parent(of Element) (Element, error)
	FirstChild(of Element) (Element, error)
	NextSibling(of Element) (Element, error)
	Release()
}

// ValuePattern is the settable-value capability of an element.
type ValuePattern interface {
	Set(value string) error
	Release()
}

// InvokePattern is the invokable-action capability of an element.
type InvokePattern interface {
	Invoke() error
	Release()
}

// Process is an attached or launched application process.
type Process interface {
	PID() int
	Running() bool
	Terminate() error

	// Wait blocks until the process exits and returns its exit code.
	// A zero timeout waits forever.
	Wait(timeout time.Duration) (int, error)

	// Close releases the process handle. It does not affect the process.
	Close() error
}

// ProcessSystem is the process-table collaborator for application
// management.
type ProcessSystem interface {
	Launch(exe string, args []string) (Process, error)
	Open(pid int) (Process, error)
	PIDsByName(name string) ([]int, error)
}

package uia

import (
	"time"

	"uiauto/internal/model"
	"uiauto/internal/platform"
)

// Element wraps one native accessibility-tree reference. The wrapper
// exclusively owns that reference until Release, which drops it exactly
// once. Operations on a released Element report ErrInvalidHandle.
type Element struct {
	conn     *Conn
	native   platform.Element
	released bool
}

// FindByName searches the whole tree depth-first for the first element
// whose name equals name. A zero timeout probes once and reports
// ErrElementNotFound; a positive timeout re-probes until the deadline and
// then reports ErrTimeout.
func (c *Conn) FindByName(name string, timeout time.Duration) (*Element, error) {
	return c.findFirst(platform.PropName, name, timeout)
}

// FindByAutomationID searches by exact automation ID.
func (c *Conn) FindByAutomationID(id string, timeout time.Duration) (*Element, error) {
	return c.findFirst(platform.PropAutomationID, id, timeout)
}

// FindByClassName searches by exact class name.
func (c *Conn) FindByClassName(class string, timeout time.Duration) (*Element, error) {
	return c.findFirst(platform.PropClassName, class, timeout)
}

// findFirst is the one search algorithm behind the three find operations,
// parameterized only by which property the condition compares.
func (c *Conn) findFirst(prop platform.Property, value string, timeout time.Duration) (*Element, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	remaining := timeout
	for {
		el, err := c.findOnce(prop, value)
		if err != nil || el != nil {
			return el, err
		}
		if timeout <= 0 {
			return nil, ErrElementNotFound
		}
		if remaining <= 0 {
			return nil, ErrTimeout
		}
		wait := findPollInterval
		if remaining < wait {
			wait = remaining
		}
		c.clock.Sleep(wait)
		remaining -= wait
	}
}

func (c *Conn) findOnce(prop platform.Property, value string) (*Element, error) {
	root, err := c.svc.Root()
	if err != nil {
		return nil, opFailed("get root element", err)
	}
	defer root.Release()

	cond, err := c.svc.NewCondition(prop, value)
	if err != nil {
		return nil, opFailed("build property condition", err)
	}
	defer cond.Release()

	native, err := root.FindFirst(cond)
	if err != nil {
		return nil, opFailed("find first", err)
	}
	if native == nil {
		return nil, nil
	}
	return &Element{conn: c, native: native}, nil
}

// ElementFromWindow returns the accessibility element backing a window.
func (c *Conn) ElementFromWindow(w *Window) (*Element, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	native, err := c.svc.FromWindow(w.ref)
	if err != nil {
		return nil, opFailed("element from window", err)
	}
	if native == nil {
		return nil, ErrElementNotFound
	}
	return &Element{conn: c, native: native}, nil
}

// Release drops the wrapped native reference exactly once and invalidates
// the wrapper. A second Release reports ErrInvalidHandle and does not
// touch the native reference again.
func (e *Element) Release() error {
	if e == nil {
		return ErrNullPointer
	}
	if e.released {
		return ErrInvalidHandle
	}
	e.released = true
	if e.native != nil {
		e.native.Release()
		e.native = nil
	}
	return nil
}

func (e *Element) check() error {
	if e == nil {
		return ErrNullPointer
	}
	if e.released || e.native == nil {
		return ErrInvalidHandle
	}
	return e.conn.check()
}

// Children materializes every child of the element, stepping
// sibling-by-sibling through the control view. On failure partway, every
// already-wrapped child is released and the call reports total failure.
func (e *Element) Children() ([]*Element, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	walker, err := e.conn.svc.ControlWalker()
	if err != nil {
		return nil, opFailed("get control walker", err)
	}
	defer walker.Release()

	return collect(func(el *Element) { el.Release() }, func(emit func(*Element)) error {
		child, err := walker.FirstChild(e.native)
		if err != nil {
			return opFailed("get first child", err)
		}
		for child != nil {
			emit(&Element{conn: e.conn, native: child})
			next, err := walker.NextSibling(child)
			if err != nil {
				return opFailed("get next sibling", err)
			}
			child = next
		}
		return nil
	})
}

// Parent returns the element one level up in the control view, or
// ErrElementNotFound at the root.
func (e *Element) Parent() (*Element, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	walker, err := e.conn.svc.ControlWalker()
	if err != nil {
		return nil, opFailed("get control walker", err)
	}
	defer walker.Release()

	parent, err := walker.Parent(e.native)
	if err != nil {
		return nil, opFailed("get parent", err)
	}
	if parent == nil {
		return nil, ErrElementNotFound
	}
	return &Element{conn: e.conn, native: parent}, nil
}

// Text reads the element's current display name.
func (e *Element) Text() (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	name, err := e.native.Name()
	if err != nil {
		return "", opFailed("read element name", err)
	}
	return name, nil
}

// ClassName reads the element's class name.
func (e *Element) ClassName() (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	cls, err := e.native.ClassName()
	if err != nil {
		return "", opFailed("read element class", err)
	}
	return cls, nil
}

// SetText writes the element's value through its value-pattern capability.
// An element without that capability fails with ErrOperationFailed. The
// capability handle is released regardless of outcome.
func (e *Element) SetText(text string) error {
	if err := e.check(); err != nil {
		return err
	}
	vp, err := e.native.Value()
	if err != nil {
		return opFailed("value pattern unavailable", err)
	}
	defer vp.Release()
	if err := vp.Set(text); err != nil {
		return opFailed("set value", err)
	}
	return nil
}

// Invoke triggers the element's invoke-pattern capability. Same
// capability-absence failure mode as SetText.
func (e *Element) Invoke() error {
	if err := e.check(); err != nil {
		return err
	}
	ip, err := e.native.Invoker()
	if err != nil {
		return opFailed("invoke pattern unavailable", err)
	}
	defer ip.Release()
	if err := ip.Invoke(); err != nil {
		return opFailed("invoke", err)
	}
	return nil
}

// Click moves the synthetic pointer to the element's bounding-rectangle
// center and issues a hardware-level button down/up pair. Unlike the
// window directory's posted clicks, this affects whatever is under the
// cursor, foreground or not.
func (e *Element) Click() error {
	if err := e.check(); err != nil {
		return err
	}
	rect, err := e.native.Rect()
	if err != nil {
		return opFailed("get bounding rect", err)
	}
	x, y := rect.Center()
	if err := e.conn.input.MovePointer(x, y); err != nil {
		return opFailed("move pointer", err)
	}
	e.conn.clock.Sleep(e.conn.cfg.ClickDelay)
	if err := e.conn.input.PointerDown(); err != nil {
		return opFailed("pointer down", err)
	}
	e.conn.clock.Sleep(e.conn.cfg.ClickDelay)
	if err := e.conn.input.PointerUp(); err != nil {
		return opFailed("pointer up", err)
	}
	return nil
}

// Rect returns the element's bounding rectangle.
func (e *Element) Rect() (model.Rect, error) {
	if err := e.check(); err != nil {
		return model.Rect{}, err
	}
	rect, err := e.native.Rect()
	if err != nil {
		return model.Rect{}, opFailed("get bounding rect", err)
	}
	return rect, nil
}

// Enabled reports whether the element is enabled. Any failure, including a
// released handle, collapses to false.
func (e *Element) Enabled() bool {
	if err := e.check(); err != nil {
		return false
	}
	enabled, err := e.native.Enabled()
	if err != nil {
		return false
	}
	return enabled
}

// Info gathers the printable summary of the element.
func (e *Element) Info() (model.ElementInfo, error) {
	if err := e.check(); err != nil {
		return model.ElementInfo{}, err
	}
	info := model.ElementInfo{Enabled: e.Enabled()}
	info.Name, _ = e.native.Name()
	info.Class, _ = e.native.ClassName()
	info.Rect, _ = e.native.Rect()
	return info, nil
}

package uia

import (
	"uiauto/internal/model"
	"uiauto/internal/platform"
)

// Window wraps one native top-level window reference. The native window is
// owned by the OS; releasing a Window only invalidates the wrapper. A
// Window is exclusively owned by whichever caller holds it and must be
// released exactly once.
type Window struct {
	conn     *Conn
	ref      platform.WindowRef
	released bool
}

// FindWindowByTitle locates a top-level window by exact title. First match
// wins; match order is platform-defined.
func (c *Conn) FindWindowByTitle(title string) (*Window, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	ref, err := c.windows.FindByTitle(title)
	if err != nil {
		return nil, opFailed("find window by title", err)
	}
	if ref == 0 {
		return nil, ErrWindowNotFound
	}
	return &Window{conn: c, ref: ref}, nil
}

// FindWindowByClass locates a top-level window by exact class name.
func (c *Conn) FindWindowByClass(class string) (*Window, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	ref, err := c.windows.FindByClass(class)
	if err != nil {
		return nil, opFailed("find window by class", err)
	}
	if ref == 0 {
		return nil, ErrWindowNotFound
	}
	return &Window{conn: c, ref: ref}, nil
}

// FocusedWindow returns the current foreground window.
func (c *Conn) FocusedWindow() (*Window, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	ref, err := c.windows.Foreground()
	if err != nil {
		return nil, opFailed("get foreground window", err)
	}
	if ref == 0 {
		return nil, ErrWindowNotFound
	}
	return &Window{conn: c, ref: ref}, nil
}

// Windows enumerates every visible top-level window in platform order.
// Invisible windows are filtered before insertion. On failure partway, all
// already-built handles are released and no partial list is returned.
func (c *Conn) Windows() ([]*Window, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	wins, err := collect(func(w *Window) { w.Release() }, func(emit func(*Window)) error {
		return c.windows.Enumerate(func(ref platform.WindowRef) error {
			if !c.windows.IsVisible(ref) {
				return nil
			}
			emit(&Window{conn: c, ref: ref})
			return nil
		})
	})
	if err != nil {
		return nil, opFailed("enumerate windows", err)
	}
	return wins, nil
}

// Release invalidates the wrapper. Further operations on the handle report
// ErrInvalidHandle; releasing twice reports ErrInvalidHandle and does
// nothing.
func (w *Window) Release() error {
	if w == nil {
		return ErrNullPointer
	}
	if w.released {
		return ErrInvalidHandle
	}
	w.released = true
	w.ref = 0
	return nil
}

func (w *Window) check() error {
	if w == nil {
		return ErrNullPointer
	}
	if w.released || w.ref == 0 {
		return ErrInvalidHandle
	}
	return w.conn.check()
}

// Rect returns the window rectangle in screen coordinates. On failure the
// caller's rectangle is untouched (nothing is returned).
func (w *Window) Rect() (model.Rect, error) {
	if err := w.check(); err != nil {
		return model.Rect{}, err
	}
	r, err := w.conn.windows.Rect(w.ref)
	if err != nil {
		return model.Rect{}, opFailed("get window rect", err)
	}
	return r, nil
}

// IsVisible reports whether the window is currently visible. Any failure,
// including a released handle, reads as not visible.
func (w *Window) IsVisible() bool {
	if err := w.check(); err != nil {
		return false
	}
	return w.conn.windows.IsVisible(w.ref)
}

// IsMinimized reports whether the window is minimized.
func (w *Window) IsMinimized() bool {
	if err := w.check(); err != nil {
		return false
	}
	return w.conn.windows.IsMinimized(w.ref)
}

// IsMaximized reports whether the window is maximized.
func (w *Window) IsMaximized() bool {
	if err := w.check(); err != nil {
		return false
	}
	return w.conn.windows.IsMaximized(w.ref)
}

// Title returns the window's current title text.
func (w *Window) Title() (string, error) {
	if err := w.check(); err != nil {
		return "", err
	}
	t, err := w.conn.windows.Title(w.ref)
	if err != nil {
		return "", opFailed("get window title", err)
	}
	return t, nil
}

// ClassName returns the window's registered class name.
func (w *Window) ClassName() (string, error) {
	if err := w.check(); err != nil {
		return "", err
	}
	cls, err := w.conn.windows.ClassName(w.ref)
	if err != nil {
		return "", opFailed("get window class", err)
	}
	return cls, nil
}

// PID returns the ID of the process owning the window.
func (w *Window) PID() (int, error) {
	if err := w.check(); err != nil {
		return 0, err
	}
	pid, err := w.conn.windows.PID(w.ref)
	if err != nil {
		return 0, opFailed("get window pid", err)
	}
	return pid, nil
}

// Focus requests foreground status for the window. Success means the
// request was accepted, not that the state change completed.
func (w *Window) Focus() error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.conn.windows.SetForeground(w.ref); err != nil {
		return opFailed("set foreground", err)
	}
	return nil
}

// Close posts a close request to the window. Fire-and-forget: the window
// decides whether and when to close.
func (w *Window) Close() error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.conn.windows.Post(w.ref, platform.Message{Kind: platform.MsgClose}); err != nil {
		return opFailed("post close", err)
	}
	return nil
}

// Maximize requests the maximized show state.
func (w *Window) Maximize() error { return w.show(platform.ShowMaximize, "maximize") }

// Minimize requests the minimized show state.
func (w *Window) Minimize() error { return w.show(platform.ShowMinimize, "minimize") }

// Restore requests the restored (neither minimized nor maximized) state.
func (w *Window) Restore() error { return w.show(platform.ShowRestore, "restore") }

func (w *Window) show(cmd platform.ShowCmd, op string) error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.conn.windows.Show(w.ref, cmd); err != nil {
		return opFailed(op, err)
	}
	return nil
}

// Move repositions the window without resizing it.
func (w *Window) Move(x, y int) error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.conn.windows.Move(w.ref, x, y); err != nil {
		return opFailed("move window", err)
	}
	return nil
}

// Resize changes the window size without moving it.
func (w *Window) Resize(width, height int) error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.conn.windows.Resize(w.ref, width, height); err != nil {
		return opFailed("resize window", err)
	}
	return nil
}

// Click posts a left button down/up pair at window-relative coordinates,
// separated by the configured click delay. The messages are queued to the
// window, so it need not be focused or on top.
func (w *Window) Click(x, y int) error {
	return w.postClicks(x, y, platform.MsgLeftDown, platform.MsgLeftUp)
}

// DoubleClick posts the four-message double-click sequence: down, up,
// double-click marker, up, with the click delay between each.
func (w *Window) DoubleClick(x, y int) error {
	return w.postClicks(x, y,
		platform.MsgLeftDown, platform.MsgLeftUp,
		platform.MsgLeftDouble, platform.MsgLeftUp)
}

// RightClick posts a right button down/up pair.
func (w *Window) RightClick(x, y int) error {
	return w.postClicks(x, y, platform.MsgRightDown, platform.MsgRightUp)
}

func (w *Window) postClicks(x, y int, kinds ...platform.MessageKind) error {
	if err := w.check(); err != nil {
		return err
	}
	for i, kind := range kinds {
		if i > 0 {
			w.conn.clock.Sleep(w.conn.cfg.ClickDelay)
		}
		msg := platform.Message{Kind: kind, X: x, Y: y}
		if err := w.conn.windows.Post(w.ref, msg); err != nil {
			return opFailed("post click", err)
		}
	}
	return nil
}

// TypeText posts one character event per rune, each followed by the key
// delay. An empty string is a no-op success: zero events are posted.
func (w *Window) TypeText(text string) error {
	if err := w.check(); err != nil {
		return err
	}
	for _, r := range text {
		msg := platform.Message{Kind: platform.MsgChar, Char: r}
		if err := w.conn.windows.Post(w.ref, msg); err != nil {
			return opFailed("post char", err)
		}
		w.conn.clock.Sleep(w.conn.cfg.KeyDelay)
	}
	return nil
}

// KeyDown posts one raw key-down event. The caller is responsible for
// pairing it with KeyUp.
func (w *Window) KeyDown(key int) error {
	return w.postKey(platform.MsgKeyDown, key)
}

// KeyUp posts one raw key-up event.
func (w *Window) KeyUp(key int) error {
	return w.postKey(platform.MsgKeyUp, key)
}

func (w *Window) postKey(kind platform.MessageKind, key int) error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.conn.windows.Post(w.ref, platform.Message{Kind: kind, Key: key}); err != nil {
		return opFailed("post key", err)
	}
	return nil
}

// Info gathers the printable summary of the window. Fields that fail to
// read are left zero; Info never fails on a live handle.
func (w *Window) Info() (model.WindowInfo, error) {
	if err := w.check(); err != nil {
		return model.WindowInfo{}, err
	}
	info := model.WindowInfo{
		Visible:   w.conn.windows.IsVisible(w.ref),
		Minimized: w.conn.windows.IsMinimized(w.ref),
		Maximized: w.conn.windows.IsMaximized(w.ref),
	}
	info.Title, _ = w.conn.windows.Title(w.ref)
	info.Class, _ = w.conn.windows.ClassName(w.ref)
	info.PID, _ = w.conn.windows.PID(w.ref)
	info.Rect, _ = w.conn.windows.Rect(w.ref)
	if fg, err := w.conn.windows.Foreground(); err == nil && fg == w.ref {
		info.Focused = true
	}
	return info, nil
}

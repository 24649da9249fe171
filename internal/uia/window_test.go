package uia

import (
	"errors"
	"testing"
	"time"

	"uiauto/internal/model"
	"uiauto/internal/platform"
)

func threeWindows() *fakeWindowSystem {
	return newFakeWindowSystem(
		&fakeWin{ref: 1, title: "Untitled - Notepad", class: "Notepad", pid: 100, visible: true,
			rect: model.Rect{X: 10, Y: 20, Width: 640, Height: 480}},
		&fakeWin{ref: 2, title: "Calculator", class: "ApplicationFrameWindow", pid: 200, visible: true},
		&fakeWin{ref: 3, title: "hidden helper", class: "Worker", pid: 300, visible: false},
	)
}

func TestFindWindowByTitle(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, err := env.conn.FindWindowByTitle("Calculator")
	if err != nil {
		t.Fatalf("FindWindowByTitle failed: %v", err)
	}
	defer w.Release()
	title, err := w.Title()
	if err != nil || title != "Calculator" {
		t.Fatalf("got title %q, err %v", title, err)
	}
}

func TestFindWindowByTitleMissing(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	if _, err := env.conn.FindWindowByTitle("no such window"); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestFindWindowByClass(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, err := env.conn.FindWindowByClass("Notepad")
	if err != nil {
		t.Fatalf("FindWindowByClass failed: %v", err)
	}
	defer w.Release()
	pid, _ := w.PID()
	if pid != 100 {
		t.Fatalf("got pid %d, want 100", pid)
	}
}

func TestFocusedWindow(t *testing.T) {
	ws := threeWindows()
	ws.foreground = 2
	env := newTestEnv(t, nil, ws)
	w, err := env.conn.FocusedWindow()
	if err != nil {
		t.Fatalf("FocusedWindow failed: %v", err)
	}
	defer w.Release()
	title, _ := w.Title()
	if title != "Calculator" {
		t.Fatalf("got %q, want Calculator", title)
	}
}

func TestFocusedWindowNone(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	if _, err := env.conn.FocusedWindow(); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestWindowsFiltersInvisible(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	wins, err := env.conn.Windows()
	if err != nil {
		t.Fatalf("Windows failed: %v", err)
	}
	if len(wins) != 2 {
		t.Fatalf("got %d windows, want 2 (invisible filtered)", len(wins))
	}
	// Handles are independently owned: releasing one leaves the rest live.
	if err := wins[0].Release(); err != nil {
		t.Fatalf("release first: %v", err)
	}
	if title, err := wins[1].Title(); err != nil || title != "Calculator" {
		t.Fatalf("second handle unusable after releasing first: %q, %v", title, err)
	}
	wins[1].Release()
}

func TestWindowsRollbackOnEnumerationFailure(t *testing.T) {
	ws := threeWindows()
	ws.enumFailAfter = 2
	env := newTestEnv(t, nil, ws)
	wins, err := env.conn.Windows()
	if CodeOf(err) != CodeOperationFailed {
		t.Fatalf("expected operation_failed, got %v", err)
	}
	if wins != nil {
		t.Fatalf("partial result escaped: %d windows", len(wins))
	}
}

func TestWindowReleaseTwice(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, err := env.conn.FindWindowByTitle("Calculator")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := w.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := w.Release(); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle on double release, got %v", err)
	}
}

func TestWindowUseAfterRelease(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Calculator")
	w.Release()

	if _, err := w.Rect(); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Rect after release: %v", err)
	}
	if _, err := w.Title(); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Title after release: %v", err)
	}
	if err := w.Click(1, 2); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Click after release: %v", err)
	}
	if w.IsVisible() {
		t.Fatalf("released window reads as visible")
	}
}

func TestClickPostsPair(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.Click(50, 60); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	want := []platform.MessageKind{platform.MsgLeftDown, platform.MsgLeftUp}
	assertPostedKinds(t, env.ws.posted, want)
	for _, p := range env.ws.posted {
		if p.msg.X != 50 || p.msg.Y != 60 {
			t.Fatalf("click at (%d,%d), want (50,60)", p.msg.X, p.msg.Y)
		}
	}
	if len(env.clock.sleeps) != 1 || env.clock.sleeps[0] != defaultClickDelay {
		t.Fatalf("unexpected sleeps %v", env.clock.sleeps)
	}
}

func TestDoubleClickPostsFourMessages(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.DoubleClick(5, 6); err != nil {
		t.Fatalf("DoubleClick failed: %v", err)
	}
	want := []platform.MessageKind{
		platform.MsgLeftDown, platform.MsgLeftUp,
		platform.MsgLeftDouble, platform.MsgLeftUp,
	}
	assertPostedKinds(t, env.ws.posted, want)
	if len(env.clock.sleeps) != 3 {
		t.Fatalf("expected 3 inter-event delays, got %v", env.clock.sleeps)
	}
	for _, d := range env.clock.sleeps {
		if d != defaultClickDelay {
			t.Fatalf("unexpected delay %v", d)
		}
	}
}

func TestRightClick(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.RightClick(1, 1); err != nil {
		t.Fatalf("RightClick failed: %v", err)
	}
	assertPostedKinds(t, env.ws.posted, []platform.MessageKind{platform.MsgRightDown, platform.MsgRightUp})
}

func TestTypeTextEmptyIsNoOp(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.TypeText(""); err != nil {
		t.Fatalf("TypeText(\"\") failed: %v", err)
	}
	if len(env.ws.posted) != 0 {
		t.Fatalf("empty text posted %d messages", len(env.ws.posted))
	}
	if len(env.clock.sleeps) != 0 {
		t.Fatalf("empty text slept %v", env.clock.sleeps)
	}
}

func TestTypeTextPostsPerRune(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.TypeText("héllo"); err != nil {
		t.Fatalf("TypeText failed: %v", err)
	}
	want := []rune("héllo")
	if len(env.ws.posted) != len(want) {
		t.Fatalf("posted %d messages, want %d", len(env.ws.posted), len(want))
	}
	for i, p := range env.ws.posted {
		if p.msg.Kind != platform.MsgChar || p.msg.Char != want[i] {
			t.Fatalf("message %d: kind %d char %q, want char %q", i, p.msg.Kind, p.msg.Char, want[i])
		}
	}
	if len(env.clock.sleeps) != len(want) {
		t.Fatalf("expected a key delay per rune, got %v", env.clock.sleeps)
	}
}

func TestKeyDownUp(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.KeyDown(0x0D); err != nil {
		t.Fatalf("KeyDown failed: %v", err)
	}
	if err := w.KeyUp(0x0D); err != nil {
		t.Fatalf("KeyUp failed: %v", err)
	}
	assertPostedKinds(t, env.ws.posted, []platform.MessageKind{platform.MsgKeyDown, platform.MsgKeyUp})
	if env.ws.posted[0].msg.Key != 0x0D || env.ws.posted[1].msg.Key != 0x0D {
		t.Fatalf("wrong key codes: %+v", env.ws.posted)
	}
}

func TestWindowStateRequests(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.Focus(); err != nil {
		t.Fatalf("Focus failed: %v", err)
	}
	if len(env.ws.foregrounded) != 1 || env.ws.foregrounded[0] != 1 {
		t.Fatalf("foreground not requested: %v", env.ws.foregrounded)
	}

	if err := w.Maximize(); err != nil {
		t.Fatalf("Maximize failed: %v", err)
	}
	if err := w.Minimize(); err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if err := w.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	wantShows := []platform.ShowCmd{platform.ShowMaximize, platform.ShowMinimize, platform.ShowRestore}
	if len(env.ws.shown) != len(wantShows) {
		t.Fatalf("got %d show requests, want %d", len(env.ws.shown), len(wantShows))
	}
	for i, s := range env.ws.shown {
		if s.cmd != wantShows[i] {
			t.Fatalf("show %d: got %v, want %v", i, s.cmd, wantShows[i])
		}
	}

	if err := w.Move(300, 400); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if len(env.ws.moves) != 1 || env.ws.moves[0].X != 300 || env.ws.moves[0].Y != 400 {
		t.Fatalf("move not recorded: %v", env.ws.moves)
	}
	if err := w.Resize(800, 600); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if len(env.ws.resizes) != 1 || env.ws.resizes[0].Width != 800 || env.ws.resizes[0].Height != 600 {
		t.Fatalf("resize not recorded: %v", env.ws.resizes)
	}
}

func TestWindowClosePostsCloseMessage(t *testing.T) {
	env := newTestEnv(t, nil, threeWindows())
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	assertPostedKinds(t, env.ws.posted, []platform.MessageKind{platform.MsgClose})
}

func TestWindowInfo(t *testing.T) {
	ws := threeWindows()
	ws.foreground = 1
	env := newTestEnv(t, nil, ws)
	w, _ := env.conn.FindWindowByTitle("Untitled - Notepad")
	defer w.Release()

	info, err := w.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	want := model.WindowInfo{
		Title:   "Untitled - Notepad",
		Class:   "Notepad",
		PID:     100,
		Rect:    model.Rect{X: 10, Y: 20, Width: 640, Height: 480},
		Visible: true,
		Focused: true,
	}
	if info != want {
		t.Fatalf("Info = %+v, want %+v", info, want)
	}
}

func TestCustomDelays(t *testing.T) {
	ws := threeWindows()
	backend := &fakeBackend{svc: newFakeService(&fakeNode{})}
	clock := &fakeClock{}
	conn, err := Connect(&platform.Provider{
		Backend: backend,
		Windows: ws,
		Clock:   clock,
	}, Config{ClickDelay: 25 * time.Millisecond, KeyDelay: 7 * time.Millisecond})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	w, _ := conn.FindWindowByTitle("Calculator")
	defer w.Release()
	if err := w.Click(0, 0); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if err := w.TypeText("x"); err != nil {
		t.Fatalf("TypeText failed: %v", err)
	}
	wantSleeps := []time.Duration{25 * time.Millisecond, 7 * time.Millisecond}
	if len(clock.sleeps) != len(wantSleeps) {
		t.Fatalf("sleeps %v, want %v", clock.sleeps, wantSleeps)
	}
	for i, d := range clock.sleeps {
		if d != wantSleeps[i] {
			t.Fatalf("sleep %d: %v, want %v", i, d, wantSleeps[i])
		}
	}
}

func assertPostedKinds(t *testing.T, posted []postedMsg, want []platform.MessageKind) {
	t.Helper()
	if len(posted) != len(want) {
		t.Fatalf("posted %d messages, want %d", len(posted), len(want))
	}
	for i, p := range posted {
		if p.msg.Kind != want[i] {
			t.Fatalf("message %d: kind %v, want %v", i, p.msg.Kind, want[i])
		}
	}
}

package uia

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"uiauto/internal/model"
	"uiauto/internal/platform"
)

// fakeClock records requested sleeps without sleeping.
type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(d time.Duration) { c.sleeps = append(c.sleeps, d) }

// fakeBackend implements platform.Backend and counts lifecycle calls.
type fakeBackend struct {
	svc        *fakeService
	initErr    error
	connectErr error
	inits      int
	teardowns  int
}

func (b *fakeBackend) InitContext() error {
	b.inits++
	return b.initErr
}

func (b *fakeBackend) TeardownContext() { b.teardowns++ }

func (b *fakeBackend) Connect() (platform.Accessibility, error) {
	if b.connectErr != nil {
		return nil, b.connectErr
	}
	return b.svc, nil
}

// fakeNode is one node of the in-memory accessibility tree.
type fakeNode struct {
	name       string
	class      string
	autoID     string
	rect       model.Rect
	enabled    bool
	enabledErr error
	parent     *fakeNode
	children   []*fakeNode

	hasValue  bool
	value     string
	setErr    error
	hasInvoke bool
	invokeErr error
	invoked   int
}

func addChild(parent, child *fakeNode) *fakeNode {
	child.parent = parent
	parent.children = append(parent.children, child)
	return child
}

// fakeService implements platform.Accessibility over a fakeNode tree. It
// counts every outstanding native handle so tests can assert that handles
// are released exactly once and never leaked.
type fakeService struct {
	desktop     *fakeNode
	windowRoots map[platform.WindowRef]*fakeNode

	elementsOpen   int
	condsOpen      int
	walkersOpen    int
	patternsOpen   int
	doubleReleases int
	released       bool

	condErr   error
	walkerErr error
	findErr   error
	findCalls int
	// missFirst makes the first N FindFirst calls report no match even
	// when the tree has one, to exercise the re-poll loop.
	missFirst int

	siblingSteps int
	// siblingFailAfter fails the Nth NextSibling call (1-based), 0 disables.
	siblingFailAfter int
}

func newFakeService(desktop *fakeNode) *fakeService {
	return &fakeService{
		desktop:     desktop,
		windowRoots: make(map[platform.WindowRef]*fakeNode),
	}
}

// leaks reports the number of native handles still outstanding.
func (s *fakeService) leaks() int {
	return s.elementsOpen + s.condsOpen + s.walkersOpen + s.patternsOpen
}

func (s *fakeService) wrap(n *fakeNode) *fakeElement {
	s.elementsOpen++
	return &fakeElement{svc: s, node: n}
}

func (s *fakeService) Root() (platform.Element, error) {
	return s.wrap(s.desktop), nil
}

func (s *fakeService) FromWindow(ref platform.WindowRef) (platform.Element, error) {
	n := s.windowRoots[ref]
	if n == nil {
		return nil, nil
	}
	return s.wrap(n), nil
}

func (s *fakeService) NewCondition(prop platform.Property, value string) (platform.Condition, error) {
	if s.condErr != nil {
		return nil, s.condErr
	}
	s.condsOpen++
	return &fakeCondition{svc: s, prop: prop, value: value}, nil
}

func (s *fakeService) ControlWalker() (platform.TreeWalker, error) {
	if s.walkerErr != nil {
		return nil, s.walkerErr
	}
	s.walkersOpen++
	return &fakeWalker{svc: s}, nil
}

func (s *fakeService) Same(a, b platform.Element) (bool, error) {
	return a.(*fakeElement).node == b.(*fakeElement).node, nil
}

func (s *fakeService) Release() { s.released = true }

type fakeCondition struct {
	svc      *fakeService
	prop     platform.Property
	value    string
	released bool
}

func (c *fakeCondition) Release() {
	if c.released {
		c.svc.doubleReleases++
		return
	}
	c.released = true
	c.svc.condsOpen--
}

func (n *fakeNode) property(prop platform.Property) string {
	switch prop {
	case platform.PropName:
		return n.name
	case platform.PropAutomationID:
		return n.autoID
	default:
		return n.class
	}
}

func findDescendant(n *fakeNode, prop platform.Property, value string) *fakeNode {
	for _, child := range n.children {
		if child.property(prop) == value {
			return child
		}
		if hit := findDescendant(child, prop, value); hit != nil {
			return hit
		}
	}
	return nil
}

// fakeElement implements platform.Element over one fakeNode.
type fakeElement struct {
	svc      *fakeService
	node     *fakeNode
	released bool
}

func (e *fakeElement) Name() (string, error)      { return e.node.name, nil }
func (e *fakeElement) ClassName() (string, error) { return e.node.class, nil }
func (e *fakeElement) Rect() (model.Rect, error)  { return e.node.rect, nil }

func (e *fakeElement) Enabled() (bool, error) {
	if e.node.enabledErr != nil {
		return false, e.node.enabledErr
	}
	return e.node.enabled, nil
}

func (e *fakeElement) FindFirst(cond platform.Condition) (platform.Element, error) {
	e.svc.findCalls++
	if e.svc.findErr != nil {
		return nil, e.svc.findErr
	}
	if e.svc.findCalls <= e.svc.missFirst {
		return nil, nil
	}
	c := cond.(*fakeCondition)
	hit := findDescendant(e.node, c.prop, c.value)
	if hit == nil {
		return nil, nil
	}
	return e.svc.wrap(hit), nil
}

func (e *fakeElement) Value() (platform.ValuePattern, error) {
	if !e.node.hasValue {
		return nil, errors.New("value pattern not supported")
	}
	e.svc.patternsOpen++
	return &fakeValuePattern{svc: e.svc, node: e.node}, nil
}

func (e *fakeElement) Invoker() (platform.InvokePattern, error) {
	if !e.node.hasInvoke {
		return nil, errors.New("invoke pattern not supported")
	}
	e.svc.patternsOpen++
	return &fakeInvokePattern{svc: e.svc, node: e.node}, nil
}

func (e *fakeElement) Release() {
	if e.released {
		e.svc.doubleReleases++
		return
	}
	e.released = true
	e.svc.elementsOpen--
}

type fakeWalker struct {
	svc      *fakeService
	released bool
}

func (w *fakeWalker) Parent(of platform.Element) (platform.Element, error) {
	n := of.(*fakeElement).node
	if n.parent == nil {
		return nil, nil
	}
	return w.svc.wrap(n.parent), nil
}

func (w *fakeWalker) FirstChild(of platform.Element) (platform.Element, error) {
	n := of.(*fakeElement).node
	if len(n.children) == 0 {
		return nil, nil
	}
	return w.svc.wrap(n.children[0]), nil
}

func (w *fakeWalker) NextSibling(of platform.Element) (platform.Element, error) {
	w.svc.siblingSteps++
	if w.svc.siblingFailAfter > 0 && w.svc.siblingSteps == w.svc.siblingFailAfter {
		return nil, errors.New("walker lost the tree")
	}
	n := of.(*fakeElement).node
	if n.parent == nil {
		return nil, nil
	}
	siblings := n.parent.children
	for i, sib := range siblings {
		if sib == n && i+1 < len(siblings) {
			return w.svc.wrap(siblings[i+1]), nil
		}
	}
	return nil, nil
}

func (w *fakeWalker) Release() {
	if w.released {
		w.svc.doubleReleases++
		return
	}
	w.released = true
	w.svc.walkersOpen--
}

type fakeValuePattern struct {
	svc      *fakeService
	node     *fakeNode
	released bool
}

func (p *fakeValuePattern) Set(value string) error {
	if p.node.setErr != nil {
		return p.node.setErr
	}
	p.node.value = value
	return nil
}

func (p *fakeValuePattern) Release() {
	if p.released {
		p.svc.doubleReleases++
		return
	}
	p.released = true
	p.svc.patternsOpen--
}

type fakeInvokePattern struct {
	svc      *fakeService
	node     *fakeNode
	released bool
}

func (p *fakeInvokePattern) Invoke() error {
	if p.node.invokeErr != nil {
		return p.node.invokeErr
	}
	p.node.invoked++
	return nil
}

func (p *fakeInvokePattern) Release() {
	if p.released {
		p.svc.doubleReleases++
		return
	}
	p.released = true
	p.svc.patternsOpen--
}

// fakeWin is one native window known to the fake window system.
type fakeWin struct {
	ref       platform.WindowRef
	title     string
	class     string
	pid       int
	rect      model.Rect
	visible   bool
	minimized bool
	maximized bool
}

type postedMsg struct {
	ref platform.WindowRef
	msg platform.Message
}

type shownState struct {
	ref platform.WindowRef
	cmd platform.ShowCmd
}

// fakeWindowSystem implements platform.WindowSystem over a static window
// list, recording every posted message and state change.
type fakeWindowSystem struct {
	wins       []*fakeWin
	foreground platform.WindowRef

	posted       []postedMsg
	postErr      error
	foregrounded []platform.WindowRef
	shown        []shownState
	moves        []model.Rect
	resizes      []model.Rect

	// enumFailAfter fails enumeration after visiting N windows, -1 disables.
	enumFailAfter int
}

func newFakeWindowSystem(wins ...*fakeWin) *fakeWindowSystem {
	return &fakeWindowSystem{wins: wins, enumFailAfter: -1}
}

func (ws *fakeWindowSystem) byRef(ref platform.WindowRef) *fakeWin {
	for _, w := range ws.wins {
		if w.ref == ref {
			return w
		}
	}
	return nil
}

func (ws *fakeWindowSystem) FindByTitle(title string) (platform.WindowRef, error) {
	for _, w := range ws.wins {
		if w.title == title {
			return w.ref, nil
		}
	}
	return 0, nil
}

func (ws *fakeWindowSystem) FindByClass(class string) (platform.WindowRef, error) {
	for _, w := range ws.wins {
		if w.class == class {
			return w.ref, nil
		}
	}
	return 0, nil
}

func (ws *fakeWindowSystem) Foreground() (platform.WindowRef, error) {
	return ws.foreground, nil
}

func (ws *fakeWindowSystem) Enumerate(visit func(platform.WindowRef) error) error {
	for i, w := range ws.wins {
		if ws.enumFailAfter >= 0 && i == ws.enumFailAfter {
			return errors.New("enumeration interrupted")
		}
		if err := visit(w.ref); err != nil {
			return err
		}
	}
	return nil
}

func (ws *fakeWindowSystem) IsVisible(ref platform.WindowRef) bool {
	w := ws.byRef(ref)
	return w != nil && w.visible
}

func (ws *fakeWindowSystem) IsMinimized(ref platform.WindowRef) bool {
	w := ws.byRef(ref)
	return w != nil && w.minimized
}

func (ws *fakeWindowSystem) IsMaximized(ref platform.WindowRef) bool {
	w := ws.byRef(ref)
	return w != nil && w.maximized
}

func (ws *fakeWindowSystem) Rect(ref platform.WindowRef) (model.Rect, error) {
	w := ws.byRef(ref)
	if w == nil {
		return model.Rect{}, errors.New("no such window")
	}
	return w.rect, nil
}

func (ws *fakeWindowSystem) Title(ref platform.WindowRef) (string, error) {
	w := ws.byRef(ref)
	if w == nil {
		return "", errors.New("no such window")
	}
	return w.title, nil
}

func (ws *fakeWindowSystem) ClassName(ref platform.WindowRef) (string, error) {
	w := ws.byRef(ref)
	if w == nil {
		return "", errors.New("no such window")
	}
	return w.class, nil
}

func (ws *fakeWindowSystem) PID(ref platform.WindowRef) (int, error) {
	w := ws.byRef(ref)
	if w == nil {
		return 0, errors.New("no such window")
	}
	return w.pid, nil
}

func (ws *fakeWindowSystem) SetForeground(ref platform.WindowRef) error {
	ws.foregrounded = append(ws.foregrounded, ref)
	ws.foreground = ref
	return nil
}

func (ws *fakeWindowSystem) Show(ref platform.WindowRef, cmd platform.ShowCmd) error {
	ws.shown = append(ws.shown, shownState{ref: ref, cmd: cmd})
	return nil
}

func (ws *fakeWindowSystem) Move(ref platform.WindowRef, x, y int) error {
	ws.moves = append(ws.moves, model.Rect{X: x, Y: y})
	return nil
}

func (ws *fakeWindowSystem) Resize(ref platform.WindowRef, width, height int) error {
	ws.resizes = append(ws.resizes, model.Rect{Width: width, Height: height})
	return nil
}

func (ws *fakeWindowSystem) Post(ref platform.WindowRef, msg platform.Message) error {
	if ws.postErr != nil {
		return ws.postErr
	}
	ws.posted = append(ws.posted, postedMsg{ref: ref, msg: msg})
	return nil
}

// fakeInput records OS-level pointer events as strings.
type fakeInput struct {
	events  []string
	moveErr error
	downErr error
	upErr   error
}

func (in *fakeInput) MovePointer(x, y int) error {
	if in.moveErr != nil {
		return in.moveErr
	}
	in.events = append(in.events, fmt.Sprintf("move(%d,%d)", x, y))
	return nil
}

func (in *fakeInput) PointerDown() error {
	if in.downErr != nil {
		return in.downErr
	}
	in.events = append(in.events, "down")
	return nil
}

func (in *fakeInput) PointerUp() error {
	if in.upErr != nil {
		return in.upErr
	}
	in.events = append(in.events, "up")
	return nil
}

// testEnv bundles the full set of fakes behind one connection.
type testEnv struct {
	conn    *Conn
	backend *fakeBackend
	svc     *fakeService
	ws      *fakeWindowSystem
	input   *fakeInput
	clock   *fakeClock
}

func newTestEnv(t *testing.T, svc *fakeService, ws *fakeWindowSystem) *testEnv {
	t.Helper()
	if svc == nil {
		svc = newFakeService(&fakeNode{name: "Desktop"})
	}
	if ws == nil {
		ws = newFakeWindowSystem()
	}
	backend := &fakeBackend{svc: svc}
	input := &fakeInput{}
	clock := &fakeClock{}
	conn, err := Connect(&platform.Provider{
		Backend:   backend,
		Windows:   ws,
		Input:     input,
		Processes: nil,
		Clock:     clock,
	}, Config{})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return &testEnv{conn: conn, backend: backend, svc: svc, ws: ws, input: input, clock: clock}
}

func (env *testEnv) assertNoLeaks(t *testing.T) {
	t.Helper()
	if n := env.svc.leaks(); n != 0 {
		t.Fatalf("expected all native handles released, %d still open", n)
	}
	if env.svc.doubleReleases != 0 {
		t.Fatalf("native handle released twice (%d times)", env.svc.doubleReleases)
	}
}

package uia

import (
	"fmt"
	"strings"

	"uiauto/internal/selector"
)

// FindWindowBySelector resolves a window-level selector against the visible
// top-level windows. The first matching window in enumeration order wins;
// every other enumerated handle is released before returning.
func (c *Conn) FindWindowBySelector(sel *selector.Selector) (*Window, error) {
	if sel == nil {
		return nil, ErrNullPointer
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	if len(sel.Path) == 0 || sel.Path[0].Kind != "Window" {
		return nil, opFailed(fmt.Sprintf("selector %q must start with a Window level", sel.DSL()), nil)
	}

	wins, err := c.Windows()
	if err != nil {
		return nil, err
	}
	var found *Window
	for _, w := range wins {
		if found != nil {
			w.Release()
			continue
		}
		title, _ := w.Title()
		class, _ := w.ClassName()
		if selector.WindowMatches(title, class, sel.Path[0].Criteria) {
			found = w
		} else {
			w.Release()
		}
	}
	if found == nil {
		return nil, ErrWindowNotFound
	}
	return found, nil
}

// FindElementBySelector resolves a full Window>Control... selector to an
// element. Each Control level is matched against the children of the
// previous level's element; intermediate handles are released as the walk
// descends.
func (c *Conn) FindElementBySelector(sel *selector.Selector) (*Element, error) {
	if sel == nil {
		return nil, ErrNullPointer
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	if len(sel.Path) < 2 {
		return nil, opFailed(fmt.Sprintf("selector %q has no Control level", sel.DSL()), nil)
	}

	win, err := c.FindWindowBySelector(sel)
	if err != nil {
		return nil, err
	}
	current, err := c.ElementFromWindow(win)
	win.Release()
	if err != nil {
		return nil, err
	}

	for _, level := range sel.Path[1:] {
		if level.Kind != "Control" {
			current.Release()
			return nil, opFailed(fmt.Sprintf("unexpected selector level %q", level.Kind), nil)
		}
		next, err := matchChild(current, level)
		current.Release()
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// matchChild picks the child of parent satisfying the level's criteria.
// An index criterion is positional among the children matching the class
// criterion, the same population generation counts over; the child at that
// position must also satisfy the remaining criteria. Without an index the
// first child matching everything wins. All other children are released.
func matchChild(parent *Element, level selector.Level) (*Element, error) {
	children, err := parent.Children()
	if err != nil {
		return nil, err
	}
	wantIndex, hasIndex := selector.IndexOf(level.Criteria)

	var found *Element
	classMatched := 0
	for _, child := range children {
		if found != nil {
			child.Release()
			continue
		}
		text, _ := child.Text()
		class, _ := child.ClassName()
		if hasIndex {
			if !selector.ClassMatches(class, level.Criteria) {
				child.Release()
				continue
			}
			pos := classMatched
			classMatched++
			if pos != wantIndex || !selector.ControlMatches(text, class, level.Criteria) {
				child.Release()
				continue
			}
			found = child
			continue
		}
		if selector.ControlMatches(text, class, level.Criteria) {
			found = child
		} else {
			child.Release()
		}
	}
	if found == nil {
		return nil, ErrElementNotFound
	}
	return found, nil
}

// Selector generates a selector DSL addressing this window by its current
// title and class.
func (w *Window) Selector() (string, error) {
	if err := w.check(); err != nil {
		return "", err
	}
	title, _ := w.Title()
	class, _ := w.ClassName()
	dsl, err := selector.ForWindow(title, class)
	if err != nil {
		return "", opFailed("generate window selector", err)
	}
	return dsl, nil
}

// SelectorWithin generates a selector DSL addressing this element as a
// control of the given window. The index among same-class siblings is
// included when the element is not the first of its class, so the selector
// resolves back to this element and not an earlier twin.
func (e *Element) SelectorWithin(w *Window) (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	windowDSL, err := w.Selector()
	if err != nil {
		return "", err
	}
	text, _ := e.Text()
	class, _ := e.ClassName()

	index := 0
	if class != "" {
		root, err := e.conn.ElementFromWindow(w)
		if err == nil {
			if children, err := root.Children(); err == nil {
				sameClass := 0
				for _, child := range children {
					childClass, _ := child.ClassName()
					if strings.EqualFold(childClass, class) {
						if same, err := e.conn.svc.Same(child.native, e.native); err == nil && same {
							index = sameClass
						}
						sameClass++
					}
					child.Release()
				}
			}
			root.Release()
		}
	}

	dsl, err := selector.ForControl(windowDSL, class, text, index)
	if err != nil {
		return "", opFailed("generate control selector", err)
	}
	return dsl, nil
}

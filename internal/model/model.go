package model

// Rect is a screen-coordinate rectangle. Width and height are derived from
// the platform's right-left/bottom-top edges and are not normalized: an
// inverted source rectangle yields negative values.
type Rect struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Center returns the midpoint of the rectangle in screen coordinates.
func (r Rect) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// WindowInfo is the printable summary of one top-level window.
type WindowInfo struct {
	Title     string `yaml:"title"               json:"title"`
	Class     string `yaml:"class,omitempty"     json:"class,omitempty"`
	PID       int    `yaml:"pid,omitempty"       json:"pid,omitempty"`
	Rect      Rect   `yaml:"rect"                json:"rect"`
	Visible   bool   `yaml:"visible"             json:"visible"`
	Minimized bool   `yaml:"minimized,omitempty" json:"minimized,omitempty"`
	Maximized bool   `yaml:"maximized,omitempty" json:"maximized,omitempty"`
	Focused   bool   `yaml:"focused,omitempty"   json:"focused,omitempty"`
}

// ElementInfo is the printable summary of one accessibility-tree element.
type ElementInfo struct {
	Name    string `yaml:"name"            json:"name"`
	Class   string `yaml:"class,omitempty" json:"class,omitempty"`
	Rect    Rect   `yaml:"rect"            json:"rect"`
	Enabled bool   `yaml:"enabled"         json:"enabled"`
}

//go:build windows

// Package win32 provides Windows platform support: the window registry and
// message queue through user32, UI Automation through raw COM dispatch, and
// input injection through SendInput. It registers itself as the platform
// provider via init().
package win32

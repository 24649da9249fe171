//go:build windows

package cmd

// Registers the Win32 provider.
import _ "uiauto/internal/platform/win32"

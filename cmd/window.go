package cmd

import (
	"github.com/spf13/cobra"

	"uiauto/internal/output"
	"uiauto/internal/uia"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show details of a single window",
	Long:  "Find a window by title, class name, selector path, or foreground state and print its title, class, PID, rectangle, and visibility.",
	RunE:  runWindow,
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Bring a window to the foreground",
	RunE:  windowAction("focus", (*uia.Window).Focus),
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Ask a window to close",
	RunE:  windowAction("close", (*uia.Window).Close),
}

var maximizeCmd = &cobra.Command{
	Use:   "maximize",
	Short: "Maximize a window",
	RunE:  windowAction("maximize", (*uia.Window).Maximize),
}

var minimizeCmd = &cobra.Command{
	Use:   "minimize",
	Short: "Minimize a window",
	RunE:  windowAction("minimize", (*uia.Window).Minimize),
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a minimized or maximized window",
	RunE:  windowAction("restore", (*uia.Window).Restore),
}

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move a window to new screen coordinates",
	RunE:  runMove,
}

var resizeCmd = &cobra.Command{
	Use:   "resize",
	Short: "Resize a window",
	RunE:  runResize,
}

func init() {
	for _, c := range []*cobra.Command{windowCmd, focusCmd, closeCmd, maximizeCmd, minimizeCmd, restoreCmd, moveCmd, resizeCmd} {
		addWindowFlags(c)
		rootCmd.AddCommand(c)
	}
	moveCmd.Flags().Int("x", 0, "New left edge in screen coordinates")
	moveCmd.Flags().Int("y", 0, "New top edge in screen coordinates")
	resizeCmd.Flags().Int("width", 0, "New width in pixels")
	resizeCmd.Flags().Int("height", 0, "New height in pixels")
}

func runWindow(cmd *cobra.Command, args []string) error {
	return withConn(func(conn *uia.Conn) error {
		w, err := targetWindow(cmd, conn)
		if err != nil {
			return err
		}
		defer w.Release()
		info, err := w.Info()
		if err != nil {
			return err
		}
		return output.Print(info)
	})
}

// windowAction builds a RunE that resolves the target window, applies fn,
// and prints an ActionResult.
func windowAction(name string, fn func(*uia.Window) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withConn(func(conn *uia.Conn) error {
			w, err := targetWindow(cmd, conn)
			if err != nil {
				return err
			}
			defer w.Release()
			title, _ := w.Title()
			if err := fn(w); err != nil {
				return err
			}
			return output.Print(ActionResult{OK: true, Action: name, Target: title})
		})
	}
}

func runMove(cmd *cobra.Command, args []string) error {
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	return windowAction("move", func(w *uia.Window) error {
		return w.Move(x, y)
	})(cmd, args)
}

func runResize(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	return windowAction("resize", func(w *uia.Window) error {
		return w.Resize(width, height)
	})(cmd, args)
}

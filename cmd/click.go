package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"uiauto/internal/output"
	"uiauto/internal/uia"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click a UI element or a point inside a window",
	Long: `Click an accessibility element located by name, automation ID, class
name, or selector path, or post a synthetic click at window-relative
coordinates.

Element clicks move the pointer to the element's center and press the
physical button at the OS level. Window clicks post button messages to the
window without moving the pointer.

Examples:
  uiauto click --name "OK"
  uiauto click --selector 'Window>title~Notepad;class~Edit>Control>class~Button;text~OK'
  uiauto click --title "Untitled - Notepad" --x 120 --y 80 --double`,
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addElementFlags(clickCmd)
	clickCmd.Flags().String("title", "", "Target window by exact title (coordinate click)")
	clickCmd.Flags().String("window-class", "", "Target window by class name (coordinate click)")
	clickCmd.Flags().Bool("focused", false, "Target the foreground window (coordinate click)")
	clickCmd.Flags().Int("x", 0, "Window-relative X coordinate")
	clickCmd.Flags().Int("y", 0, "Window-relative Y coordinate")
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right")
}

func runClick(cmd *cobra.Command, args []string) error {
	return withConn(func(conn *uia.Conn) error {
		if elementTargetGiven(cmd) {
			el, err := targetElement(cmd, conn)
			if err != nil {
				return err
			}
			defer el.Release()
			if err := el.Click(); err != nil {
				return err
			}
			name, _ := el.Text()
			return output.Print(ActionResult{OK: true, Action: "click", Target: name})
		}

		w, err := clickWindow(cmd, conn)
		if err != nil {
			return err
		}
		defer w.Release()
		x, _ := cmd.Flags().GetInt("x")
		y, _ := cmd.Flags().GetInt("y")
		double, _ := cmd.Flags().GetBool("double")
		button, _ := cmd.Flags().GetString("button")

		switch {
		case double:
			err = w.DoubleClick(x, y)
		case button == "right":
			err = w.RightClick(x, y)
		case button == "left":
			err = w.Click(x, y)
		default:
			return fmt.Errorf("unsupported button: %s (use left or right)", button)
		}
		if err != nil {
			return err
		}
		title, _ := w.Title()
		return output.Print(ActionResult{OK: true, Action: "click", Target: title})
	})
}

func clickWindow(cmd *cobra.Command, conn *uia.Conn) (*uia.Window, error) {
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		return conn.FindWindowByTitle(title)
	}
	if class, _ := cmd.Flags().GetString("window-class"); class != "" {
		return conn.FindWindowByClass(class)
	}
	if focused, _ := cmd.Flags().GetBool("focused"); focused {
		return conn.FocusedWindow()
	}
	return nil, fmt.Errorf("no target: use element flags or --title/--window-class/--focused with --x/--y")
}

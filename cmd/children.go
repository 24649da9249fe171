package cmd

import (
	"github.com/spf13/cobra"

	"uiauto/internal/model"
	"uiauto/internal/output"
	"uiauto/internal/uia"
)

var childrenCmd = &cobra.Command{
	Use:   "children",
	Short: "List the direct children of an element or window root",
	Long: `Enumerate the direct children of an accessibility element. Target an
element with the element flags, or a window with --window-title or
--window-focused to list the children of its root element.

Examples:
  uiauto children --window-title "Untitled - Notepad"
  uiauto children --name "File"`,
	RunE: runChildren,
}

func init() {
	rootCmd.AddCommand(childrenCmd)
	addElementFlags(childrenCmd)
	childrenCmd.Flags().String("window-title", "", "List children of this window's root element")
	childrenCmd.Flags().Bool("window-focused", false, "List children of the foreground window's root element")
}

func runChildren(cmd *cobra.Command, args []string) error {
	return withConn(func(conn *uia.Conn) error {
		el, err := childrenRoot(cmd, conn)
		if err != nil {
			return err
		}
		defer el.Release()

		kids, err := el.Children()
		if err != nil {
			return err
		}
		infos := make([]model.ElementInfo, 0, len(kids))
		for _, kid := range kids {
			info, err := kid.Info()
			kid.Release()
			if err != nil {
				continue
			}
			infos = append(infos, info)
		}
		return output.Print(infos)
	})
}

func childrenRoot(cmd *cobra.Command, conn *uia.Conn) (*uia.Element, error) {
	title, _ := cmd.Flags().GetString("window-title")
	focused, _ := cmd.Flags().GetBool("window-focused")
	if title == "" && !focused {
		return targetElement(cmd, conn)
	}

	var w *uia.Window
	var err error
	if title != "" {
		w, err = conn.FindWindowByTitle(title)
	} else {
		w, err = conn.FocusedWindow()
	}
	if err != nil {
		return nil, err
	}
	defer w.Release()
	return conn.ElementFromWindow(w)
}

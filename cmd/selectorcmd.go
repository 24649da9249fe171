package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uiauto/internal/output"
	"uiauto/internal/selector"
	"uiauto/internal/uia"
)

var selectorCmd = &cobra.Command{
	Use:   "selector",
	Short: "Generate a selector path for a window or element",
	Long: `Build a reusable selector path for a window, or for an element inside
it, and optionally save it to a file for later playback.

Examples:
  uiauto selector --title "Untitled - Notepad"
  uiauto selector --title "Calculator" --name "7" --out seven.sel`,
	RunE: runSelector,
}

// SelectorResult pairs a generated selector path with its target.
type SelectorResult struct {
	Selector string `yaml:"selector"         json:"selector"`
	Target   string `yaml:"target,omitempty" json:"target,omitempty"`
}

func init() {
	rootCmd.AddCommand(selectorCmd)
	selectorCmd.Flags().String("title", "", "Target window by exact title")
	selectorCmd.Flags().String("class", "", "Target window by class name")
	selectorCmd.Flags().Bool("focused", false, "Target the foreground window")
	selectorCmd.Flags().String("name", "", "Generate for the element with this name")
	selectorCmd.Flags().String("automation-id", "", "Generate for the element with this automation ID")
	selectorCmd.Flags().Int("timeout", 0, "Max milliseconds to wait for the element")
	selectorCmd.Flags().String("out", "", "Write the selector to this file")
}

func runSelector(cmd *cobra.Command, args []string) error {
	return withConn(func(conn *uia.Conn) error {
		w, err := selectorWindow(cmd, conn)
		if err != nil {
			return err
		}
		defer w.Release()

		dsl, target, err := generateSelector(cmd, conn, w)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			sel, err := selector.Parse(dsl)
			if err != nil {
				return err
			}
			if err := sel.ToFile(out); err != nil {
				return err
			}
		}
		return output.Print(SelectorResult{Selector: dsl, Target: target})
	})
}

func selectorWindow(cmd *cobra.Command, conn *uia.Conn) (*uia.Window, error) {
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		return conn.FindWindowByTitle(title)
	}
	if class, _ := cmd.Flags().GetString("class"); class != "" {
		return conn.FindWindowByClass(class)
	}
	if focused, _ := cmd.Flags().GetBool("focused"); focused {
		return conn.FocusedWindow()
	}
	return nil, fmt.Errorf("no window target: use --title, --class, or --focused")
}

func generateSelector(cmd *cobra.Command, conn *uia.Conn, w *uia.Window) (dsl, target string, err error) {
	name, _ := cmd.Flags().GetString("name")
	autoID, _ := cmd.Flags().GetString("automation-id")
	if name == "" && autoID == "" {
		dsl, err = w.Selector()
		target, _ = w.Title()
		return dsl, target, err
	}

	timeoutMs, _ := cmd.Flags().GetInt("timeout")
	timeout := time.Duration(timeoutMs) * time.Millisecond
	var el *uia.Element
	if name != "" {
		el, err = conn.FindByName(name, timeout)
	} else {
		el, err = conn.FindByAutomationID(autoID, timeout)
	}
	if err != nil {
		return "", "", err
	}
	defer el.Release()

	dsl, err = el.SelectorWithin(w)
	if err != nil {
		return "", "", err
	}
	target, _ = el.Text()
	return dsl, target, nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"uiauto/internal/output"
	"uiauto/internal/uia"
)

var typeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type text into a window",
	Long: `Post the given text to a window character by character. An empty
string is accepted and posts nothing.

Examples:
  uiauto type --focused "hello world"
  uiauto type --title "Untitled - Notepad" "line one"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runType,
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Press or release a key in a window",
	Long: `Post a key-down, key-up, or full press of a virtual key code to a
window.

Examples:
  uiauto key --focused --code 13
  uiauto key --title "Untitled - Notepad" --code 65 --down`,
	RunE: runKey,
}

func init() {
	addWindowFlags(typeCmd)
	rootCmd.AddCommand(typeCmd)

	addWindowFlags(keyCmd)
	keyCmd.Flags().Int("code", 0, "Virtual key code")
	keyCmd.Flags().Bool("down", false, "Only press the key")
	keyCmd.Flags().Bool("up", false, "Only release the key")
	rootCmd.AddCommand(keyCmd)
}

func runType(cmd *cobra.Command, args []string) error {
	text := ""
	if len(args) > 0 {
		text = args[0]
	}
	return withConn(func(conn *uia.Conn) error {
		w, err := targetWindow(cmd, conn)
		if err != nil {
			return err
		}
		defer w.Release()
		if err := w.TypeText(text); err != nil {
			return err
		}
		title, _ := w.Title()
		return output.Print(ActionResult{OK: true, Action: "type", Target: title})
	})
}

func runKey(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetInt("code")
	if code <= 0 {
		return fmt.Errorf("a positive --code is required")
	}
	down, _ := cmd.Flags().GetBool("down")
	up, _ := cmd.Flags().GetBool("up")
	if down && up {
		return fmt.Errorf("--down and --up are mutually exclusive")
	}
	return withConn(func(conn *uia.Conn) error {
		w, err := targetWindow(cmd, conn)
		if err != nil {
			return err
		}
		defer w.Release()

		var actions []string
		if down || !up {
			if err := w.KeyDown(code); err != nil {
				return err
			}
			actions = append(actions, "key-down")
		}
		if up || !down {
			if err := w.KeyUp(code); err != nil {
				return err
			}
			actions = append(actions, "key-up")
		}
		title, _ := w.Title()
		return output.Print(ActionResult{OK: true, Action: strings.Join(actions, "+"), Target: title})
	})
}

package cmd

import (
	"github.com/spf13/cobra"

	"uiauto/internal/output"
	"uiauto/internal/uia"
)

var setValueCmd = &cobra.Command{
	Use:   "set-value",
	Short: "Set an element's value through its value pattern",
	Long: `Replace the value of an editable element. Fails when the element does
not expose a value pattern.

Examples:
  uiauto set-value --class Edit --value "new contents"`,
	RunE: runSetValue,
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invoke an element's default action",
	Long: `Trigger an element's default action through its invoke pattern, the
accessibility equivalent of pressing a button. Fails when the element does
not expose an invoke pattern.

Examples:
  uiauto invoke --name "OK"`,
	RunE: runInvoke,
}

func init() {
	rootCmd.AddCommand(setValueCmd)
	addElementFlags(setValueCmd)
	setValueCmd.Flags().String("value", "", "Value to set")

	rootCmd.AddCommand(invokeCmd)
	addElementFlags(invokeCmd)
}

func runSetValue(cmd *cobra.Command, args []string) error {
	value, _ := cmd.Flags().GetString("value")
	return withConn(func(conn *uia.Conn) error {
		el, err := targetElement(cmd, conn)
		if err != nil {
			return err
		}
		defer el.Release()
		if err := el.SetText(value); err != nil {
			return err
		}
		name, _ := el.Text()
		return output.Print(ActionResult{OK: true, Action: "set-value", Target: name})
	})
}

func runInvoke(cmd *cobra.Command, args []string) error {
	return withConn(func(conn *uia.Conn) error {
		el, err := targetElement(cmd, conn)
		if err != nil {
			return err
		}
		defer el.Release()
		name, _ := el.Text()
		if err := el.Invoke(); err != nil {
			return err
		}
		return output.Print(ActionResult{OK: true, Action: "invoke", Target: name})
	})
}

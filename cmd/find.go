package cmd

import (
	"github.com/spf13/cobra"

	"uiauto/internal/output"
	"uiauto/internal/uia"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find a UI element and print its details",
	Long: `Search the accessibility tree for the first element matching a name,
automation ID, class name, or selector path, and print its name, class,
rectangle, and enabled state. With --timeout the search re-polls until the
element appears or the time runs out.

Examples:
  uiauto find --name "Save As"
  uiauto find --automation-id "1001" --timeout 5000
  uiauto find --selector 'Window>title~Calculator>Control;class~Button;text~7'`,
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	addElementFlags(findCmd)
	findCmd.Flags().Bool("parent", false, "Print the parent element instead")
}

func runFind(cmd *cobra.Command, args []string) error {
	return withConn(func(conn *uia.Conn) error {
		el, err := targetElement(cmd, conn)
		if err != nil {
			return err
		}
		defer el.Release()

		if parent, _ := cmd.Flags().GetBool("parent"); parent {
			p, err := el.Parent()
			if err != nil {
				return err
			}
			defer p.Release()
			info, err := p.Info()
			if err != nil {
				return err
			}
			return output.Print(info)
		}

		info, err := el.Info()
		if err != nil {
			return err
		}
		return output.Print(info)
	})
}

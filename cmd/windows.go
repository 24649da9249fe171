package cmd

import (
	"github.com/spf13/cobra"

	"uiauto/internal/model"
	"uiauto/internal/output"
	"uiauto/internal/uia"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List visible top-level windows",
	RunE:  runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
	return withConn(func(conn *uia.Conn) error {
		wins, err := conn.Windows()
		if err != nil {
			return err
		}
		infos := make([]model.WindowInfo, 0, len(wins))
		for _, w := range wins {
			info, err := w.Info()
			w.Release()
			if err != nil {
				continue
			}
			infos = append(infos, info)
		}
		return output.Print(infos)
	})
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uiauto/internal/output"
	"uiauto/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "uiauto",
	Short: "Automate desktop windows and UI elements",
	Long:  "A CLI tool for finding desktop windows, navigating their accessibility element trees, and driving them with synthetic input.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().Int("click-delay", 0, "Milliseconds between synthetic button events (0 = default)")
	rootCmd.PersistentFlags().Int("key-delay", 0, "Milliseconds between synthetic key events (0 = default)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")
		output.PrettyOutput = pretty
		return nil
	}
}

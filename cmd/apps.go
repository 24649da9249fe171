package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uiauto/internal/app"
	"uiauto/internal/output"
	"uiauto/internal/platform"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Launch and manage application processes",
}

var appLaunchCmd = &cobra.Command{
	Use:   "launch <executable> [args...]",
	Short: "Launch an application",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAppLaunch,
}

var appStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an application is running",
	RunE:  runAppStatus,
}

var appWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for an application to exit",
	RunE:  runAppWait,
}

var appStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Terminate an application",
	RunE:  runAppStop,
}

// AppResult is the printable state of a managed application process.
type AppResult struct {
	PID      int  `yaml:"pid"                 json:"pid"`
	Running  bool `yaml:"running"             json:"running"`
	ExitCode *int `yaml:"exit_code,omitempty" json:"exit_code,omitempty"`
}

func init() {
	rootCmd.AddCommand(appCmd)
	appCmd.AddCommand(appLaunchCmd, appStatusCmd, appWaitCmd, appStopCmd)
	for _, c := range []*cobra.Command{appStatusCmd, appWaitCmd, appStopCmd} {
		c.Flags().Int("pid", 0, "Target process by ID")
		c.Flags().String("name", "", "Target process by executable name")
	}
	appWaitCmd.Flags().Int("timeout", 0, "Max milliseconds to wait (0 = forever)")
}

func processSystem() (platform.ProcessSystem, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	if provider.Processes == nil {
		return nil, fmt.Errorf("process management not available on this platform")
	}
	return provider.Processes, nil
}

func attachTarget(cmd *cobra.Command, ps platform.ProcessSystem) (*app.Application, error) {
	if pid, _ := cmd.Flags().GetInt("pid"); pid > 0 {
		return app.AttachPID(ps, pid)
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		return app.AttachName(ps, name)
	}
	return nil, fmt.Errorf("no target: use --pid or --name")
}

func runAppLaunch(cmd *cobra.Command, args []string) error {
	ps, err := processSystem()
	if err != nil {
		return err
	}
	a, err := app.Launch(ps, args[0], args[1:])
	if err != nil {
		return err
	}
	defer a.Close()
	return output.Print(AppResult{PID: a.PID(), Running: a.Running()})
}

func runAppStatus(cmd *cobra.Command, args []string) error {
	ps, err := processSystem()
	if err != nil {
		return err
	}
	a, err := attachTarget(cmd, ps)
	if err != nil {
		return err
	}
	defer a.Close()
	return output.Print(AppResult{PID: a.PID(), Running: a.Running()})
}

func runAppWait(cmd *cobra.Command, args []string) error {
	ps, err := processSystem()
	if err != nil {
		return err
	}
	a, err := attachTarget(cmd, ps)
	if err != nil {
		return err
	}
	defer a.Close()
	timeoutMs, _ := cmd.Flags().GetInt("timeout")
	code, err := a.Wait(time.Duration(timeoutMs) * time.Millisecond)
	if err != nil {
		return err
	}
	return output.Print(AppResult{PID: a.PID(), Running: false, ExitCode: &code})
}

func runAppStop(cmd *cobra.Command, args []string) error {
	ps, err := processSystem()
	if err != nil {
		return err
	}
	a, err := attachTarget(cmd, ps)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Terminate(); err != nil {
		return err
	}
	return output.Print(ActionResult{OK: true, Action: "stop", Target: fmt.Sprintf("pid %d", a.PID())})
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uiauto/internal/platform"
	"uiauto/internal/selector"
	"uiauto/internal/uia"
)

// ActionResult is the printable outcome of a state-changing command.
type ActionResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
}

func connConfig() uia.Config {
	clickMs, _ := rootCmd.PersistentFlags().GetInt("click-delay")
	keyMs, _ := rootCmd.PersistentFlags().GetInt("key-delay")
	return uia.Config{
		ClickDelay: time.Duration(clickMs) * time.Millisecond,
		KeyDelay:   time.Duration(keyMs) * time.Millisecond,
	}
}

// withConn opens the accessibility connection, runs fn, and closes the
// connection afterwards.
func withConn(fn func(*uia.Conn) error) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	conn, err := uia.Connect(provider, connConfig())
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// addWindowFlags registers the shared window-targeting flags.
func addWindowFlags(c *cobra.Command) {
	c.Flags().String("title", "", "Target window by exact title")
	c.Flags().String("class", "", "Target window by class name")
	c.Flags().String("selector", "", "Target window by selector path")
	c.Flags().String("selector-file", "", "Read the selector path from a file")
	c.Flags().Bool("focused", false, "Target the foreground window")
}

func selectorFromFlags(c *cobra.Command) (*selector.Selector, error) {
	if path, _ := c.Flags().GetString("selector-file"); path != "" {
		return selector.FromFile(path)
	}
	if dsl, _ := c.Flags().GetString("selector"); dsl != "" {
		return selector.Parse(dsl)
	}
	return nil, nil
}

// targetWindow resolves the window-targeting flags to an owned window
// handle. The caller releases it.
func targetWindow(c *cobra.Command, conn *uia.Conn) (*uia.Window, error) {
	sel, err := selectorFromFlags(c)
	if err != nil {
		return nil, err
	}
	if sel != nil {
		return conn.FindWindowBySelector(sel)
	}
	if title, _ := c.Flags().GetString("title"); title != "" {
		return conn.FindWindowByTitle(title)
	}
	if class, _ := c.Flags().GetString("class"); class != "" {
		return conn.FindWindowByClass(class)
	}
	if focused, _ := c.Flags().GetBool("focused"); focused {
		return conn.FocusedWindow()
	}
	return nil, fmt.Errorf("no window target: use --title, --class, --selector, or --focused")
}

// addElementFlags registers the shared element-targeting flags.
func addElementFlags(c *cobra.Command) {
	c.Flags().String("name", "", "Target element by name")
	c.Flags().String("automation-id", "", "Target element by automation ID")
	c.Flags().String("class", "", "Target element by class name")
	c.Flags().String("selector", "", "Target element by selector path")
	c.Flags().String("selector-file", "", "Read the selector path from a file")
	c.Flags().Int("timeout", 0, "Max milliseconds to wait for the element to appear")
}

// targetElement resolves the element-targeting flags to an owned element
// handle. The caller releases it.
func targetElement(c *cobra.Command, conn *uia.Conn) (*uia.Element, error) {
	sel, err := selectorFromFlags(c)
	if err != nil {
		return nil, err
	}
	if sel != nil {
		return conn.FindElementBySelector(sel)
	}
	timeoutMs, _ := c.Flags().GetInt("timeout")
	timeout := time.Duration(timeoutMs) * time.Millisecond
	if name, _ := c.Flags().GetString("name"); name != "" {
		return conn.FindByName(name, timeout)
	}
	if id, _ := c.Flags().GetString("automation-id"); id != "" {
		return conn.FindByAutomationID(id, timeout)
	}
	if class, _ := c.Flags().GetString("class"); class != "" {
		return conn.FindByClassName(class, timeout)
	}
	return nil, fmt.Errorf("no element target: use --name, --automation-id, --class, or --selector")
}

// elementTargetGiven reports whether any element-targeting flag was set.
func elementTargetGiven(c *cobra.Command) bool {
	for _, flag := range []string{"name", "automation-id", "class", "selector", "selector-file"} {
		if f := c.Flags().Lookup(flag); f != nil && f.Changed {
			return true
		}
	}
	return false
}

// StringParam reads a string from MCP tool arguments with a default.
func StringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// IntParam reads a number from MCP tool arguments with a default.
func IntParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return def
}

// BoolParam reads a boolean from MCP tool arguments with a default.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

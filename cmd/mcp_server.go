package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"uiauto/internal/platform"
	"uiauto/internal/selector"
	"uiauto/internal/uia"
)

// mcpServer wraps the MCP server around one shared accessibility
// connection. Handlers serialize on connMu because the connection and its
// handles are not safe for concurrent use.
type mcpServer struct {
	conn   *uia.Conn
	connMu sync.Mutex
	mcp    *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer connects to the accessibility service and registers all
// uiauto tools.
func newMCPServer() (*mcpServer, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	conn, err := uia.Connect(provider, connConfig())
	if err != nil {
		return nil, err
	}

	s := &mcpServer{conn: conn}
	s.mcp = mcpserver.NewMCPServer(
		"uiauto",
		"1.0.0",
	)
	s.registerTools()
	return s, nil
}

func (s *mcpServer) close() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.conn.Close()
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// list_windows
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List visible top-level windows with title, class, PID, and bounds"),
		),
		s.handleListWindows,
	)

	// find_window
	s.mcp.AddTool(
		mcp.NewTool("find_window",
			mcp.WithDescription("Find a single window and return its details plus a reusable selector path"),
			mcp.WithString("title", mcp.Description("Exact window title")),
			mcp.WithString("class", mcp.Description("Window class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithBoolean("focused", mcp.Description("Target the foreground window")),
		),
		s.handleFindWindow,
	)

	// window_action
	s.mcp.AddTool(
		mcp.NewTool("window_action",
			mcp.WithDescription("Focus, close, maximize, minimize, restore, move, or resize a window"),
			mcp.WithString("action", mcp.Description("One of: focus, close, maximize, minimize, restore, move, resize"), mcp.Required()),
			mcp.WithString("title", mcp.Description("Exact window title")),
			mcp.WithString("class", mcp.Description("Window class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithBoolean("focused", mcp.Description("Target the foreground window")),
			mcp.WithNumber("x", mcp.Description("New left edge (move)")),
			mcp.WithNumber("y", mcp.Description("New top edge (move)")),
			mcp.WithNumber("width", mcp.Description("New width (resize)")),
			mcp.WithNumber("height", mcp.Description("New height (resize)")),
		),
		s.handleWindowAction,
	)

	// click
	s.mcp.AddTool(
		mcp.NewTool("click",
			mcp.WithDescription("Click a UI element, or post a synthetic click at window-relative coordinates"),
			mcp.WithString("name", mcp.Description("Click element by name")),
			mcp.WithString("automation_id", mcp.Description("Click element by automation ID")),
			mcp.WithString("element_class", mcp.Description("Click element by class name")),
			mcp.WithString("selector", mcp.Description("Click element by selector path")),
			mcp.WithNumber("timeout", mcp.Description("Max milliseconds to wait for the element")),
			mcp.WithString("title", mcp.Description("Window title for a coordinate click")),
			mcp.WithString("window_class", mcp.Description("Window class for a coordinate click")),
			mcp.WithBoolean("focused", mcp.Description("Coordinate click on the foreground window")),
			mcp.WithNumber("x", mcp.Description("Window-relative X coordinate")),
			mcp.WithNumber("y", mcp.Description("Window-relative Y coordinate")),
			mcp.WithBoolean("double", mcp.Description("Double-click")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right")),
		),
		s.handleClick,
	)

	// type_text
	s.mcp.AddTool(
		mcp.NewTool("type_text",
			mcp.WithDescription("Type text into a window character by character"),
			mcp.WithString("text", mcp.Description("Text to type"), mcp.Required()),
			mcp.WithString("title", mcp.Description("Exact window title")),
			mcp.WithString("class", mcp.Description("Window class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithBoolean("focused", mcp.Description("Target the foreground window")),
		),
		s.handleTypeText,
	)

	// send_key
	s.mcp.AddTool(
		mcp.NewTool("send_key",
			mcp.WithDescription("Press and release a virtual key in a window"),
			mcp.WithNumber("code", mcp.Description("Virtual key code"), mcp.Required()),
			mcp.WithBoolean("down_only", mcp.Description("Only press the key")),
			mcp.WithBoolean("up_only", mcp.Description("Only release the key")),
			mcp.WithString("title", mcp.Description("Exact window title")),
			mcp.WithString("class", mcp.Description("Window class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithBoolean("focused", mcp.Description("Target the foreground window")),
		),
		s.handleSendKey,
	)

	// find_element
	s.mcp.AddTool(
		mcp.NewTool("find_element",
			mcp.WithDescription("Find a UI element and return its name, class, bounds, and enabled state"),
			mcp.WithString("name", mcp.Description("Element name")),
			mcp.WithString("automation_id", mcp.Description("Element automation ID")),
			mcp.WithString("element_class", mcp.Description("Element class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithNumber("timeout", mcp.Description("Max milliseconds to wait for the element")),
			mcp.WithBoolean("parent", mcp.Description("Return the parent element instead")),
		),
		s.handleFindElement,
	)

	// list_children
	s.mcp.AddTool(
		mcp.NewTool("list_children",
			mcp.WithDescription("List the direct children of an element, or of a window's root element"),
			mcp.WithString("name", mcp.Description("Element name")),
			mcp.WithString("automation_id", mcp.Description("Element automation ID")),
			mcp.WithString("element_class", mcp.Description("Element class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithString("window_title", mcp.Description("List children of this window's root element")),
		),
		s.handleListChildren,
	)

	// set_value
	s.mcp.AddTool(
		mcp.NewTool("set_value",
			mcp.WithDescription("Set an editable element's value through its value pattern"),
			mcp.WithString("value", mcp.Description("Value to set"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Element name")),
			mcp.WithString("automation_id", mcp.Description("Element automation ID")),
			mcp.WithString("element_class", mcp.Description("Element class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithNumber("timeout", mcp.Description("Max milliseconds to wait for the element")),
		),
		s.handleSetValue,
	)

	// invoke
	s.mcp.AddTool(
		mcp.NewTool("invoke",
			mcp.WithDescription("Trigger an element's default action through its invoke pattern"),
			mcp.WithString("name", mcp.Description("Element name")),
			mcp.WithString("automation_id", mcp.Description("Element automation ID")),
			mcp.WithString("element_class", mcp.Description("Element class name")),
			mcp.WithString("selector", mcp.Description("Selector path")),
			mcp.WithNumber("timeout", mcp.Description("Max milliseconds to wait for the element")),
		),
		s.handleInvoke,
	)

	// launch_app
	s.mcp.AddTool(
		mcp.NewTool("launch_app",
			mcp.WithDescription("Launch an application and return its PID"),
			mcp.WithString("executable", mcp.Description("Executable path or name"), mcp.Required()),
			mcp.WithArray("args", mcp.Description("Command-line arguments")),
		),
		s.handleLaunchApp,
	)

	// app_action
	s.mcp.AddTool(
		mcp.NewTool("app_action",
			mcp.WithDescription("Check, wait for, or terminate an application process"),
			mcp.WithString("action", mcp.Description("One of: status, wait, stop"), mcp.Required()),
			mcp.WithNumber("pid", mcp.Description("Target process by ID")),
			mcp.WithString("name", mcp.Description("Target process by executable name")),
			mcp.WithNumber("timeout", mcp.Description("Max milliseconds to wait (wait action)")),
		),
		s.handleAppAction,
	)
}

// resultText serializes v to YAML for an MCP text response.
func resultText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// resolveWindow maps the shared window-targeting parameters to an owned
// window handle. The caller releases it.
func (s *mcpServer) resolveWindow(params map[string]interface{}) (*uia.Window, error) {
	if dsl := StringParam(params, "selector", ""); dsl != "" {
		sel, err := selector.Parse(dsl)
		if err != nil {
			return nil, err
		}
		return s.conn.FindWindowBySelector(sel)
	}
	if title := StringParam(params, "title", ""); title != "" {
		return s.conn.FindWindowByTitle(title)
	}
	if class := StringParam(params, "class", ""); class != "" {
		return s.conn.FindWindowByClass(class)
	}
	if BoolParam(params, "focused", false) {
		return s.conn.FocusedWindow()
	}
	return nil, fmt.Errorf("no window target: pass title, class, selector, or focused")
}

// resolveElement maps the shared element-targeting parameters to an owned
// element handle. The caller releases it.
func (s *mcpServer) resolveElement(params map[string]interface{}) (*uia.Element, error) {
	if dsl := StringParam(params, "selector", ""); dsl != "" {
		sel, err := selector.Parse(dsl)
		if err != nil {
			return nil, err
		}
		return s.conn.FindElementBySelector(sel)
	}
	timeout := time.Duration(IntParam(params, "timeout", 0)) * time.Millisecond
	if name := StringParam(params, "name", ""); name != "" {
		return s.conn.FindByName(name, timeout)
	}
	if id := StringParam(params, "automation_id", ""); id != "" {
		return s.conn.FindByAutomationID(id, timeout)
	}
	if class := StringParam(params, "element_class", ""); class != "" {
		return s.conn.FindByClassName(class, timeout)
	}
	return nil, fmt.Errorf("no element target: pass name, automation_id, element_class, or selector")
}

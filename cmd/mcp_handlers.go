package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"uiauto/internal/app"
	"uiauto/internal/model"
	"uiauto/internal/uia"
)

func (s *mcpServer) handleListWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	wins, err := s.conn.Windows()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
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
	return mcp.NewToolResultText(resultText(infos)), nil
}

func (s *mcpServer) handleFindWindow(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	w, err := s.resolveWindow(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.Release()

	info, err := w.Info()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := struct {
		model.WindowInfo `yaml:",inline"`
		Selector         string `yaml:"selector,omitempty"`
	}{WindowInfo: info}
	if dsl, err := w.Selector(); err == nil {
		out.Selector = dsl
	}
	return mcp.NewToolResultText(resultText(out)), nil
}

func (s *mcpServer) handleWindowAction(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	action := StringParam(params, "action", "")

	s.connMu.Lock()
	defer s.connMu.Unlock()

	w, err := s.resolveWindow(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.Release()
	title, _ := w.Title()

	switch action {
	case "focus":
		err = w.Focus()
	case "close":
		err = w.Close()
	case "maximize":
		err = w.Maximize()
	case "minimize":
		err = w.Minimize()
	case "restore":
		err = w.Restore()
	case "move":
		err = w.Move(IntParam(params, "x", 0), IntParam(params, "y", 0))
	case "resize":
		err = w.Resize(IntParam(params, "width", 0), IntParam(params, "height", 0))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported action: %s", action)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: action, Target: title})), nil
}

func (s *mcpServer) handleClick(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	elementTarget := StringParam(params, "name", "") != "" ||
		StringParam(params, "automation_id", "") != "" ||
		StringParam(params, "element_class", "") != "" ||
		StringParam(params, "selector", "") != ""
	if elementTarget {
		el, err := s.resolveElement(params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer el.Release()
		if err := el.Click(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, _ := el.Text()
		return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: "click", Target: name})), nil
	}

	w, err := s.resolveClickWindow(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.Release()
	x := IntParam(params, "x", 0)
	y := IntParam(params, "y", 0)

	switch {
	case BoolParam(params, "double", false):
		err = w.DoubleClick(x, y)
	case StringParam(params, "button", "left") == "right":
		err = w.RightClick(x, y)
	default:
		err = w.Click(x, y)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, _ := w.Title()
	return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: "click", Target: title})), nil
}

func (s *mcpServer) resolveClickWindow(params map[string]interface{}) (*uia.Window, error) {
	if title := StringParam(params, "title", ""); title != "" {
		return s.conn.FindWindowByTitle(title)
	}
	if class := StringParam(params, "window_class", ""); class != "" {
		return s.conn.FindWindowByClass(class)
	}
	if BoolParam(params, "focused", false) {
		return s.conn.FocusedWindow()
	}
	return nil, fmt.Errorf("no target: pass element parameters, or title/window_class/focused with x/y")
}

func (s *mcpServer) handleTypeText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := StringParam(params, "text", "")

	s.connMu.Lock()
	defer s.connMu.Unlock()

	w, err := s.resolveWindow(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.Release()
	if err := w.TypeText(text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, _ := w.Title()
	return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: "type", Target: title})), nil
}

func (s *mcpServer) handleSendKey(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	code := IntParam(params, "code", 0)
	if code <= 0 {
		return mcp.NewToolResultError("a positive code is required"), nil
	}
	downOnly := BoolParam(params, "down_only", false)
	upOnly := BoolParam(params, "up_only", false)
	if downOnly && upOnly {
		return mcp.NewToolResultError("down_only and up_only are mutually exclusive"), nil
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()

	w, err := s.resolveWindow(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.Release()

	if !upOnly {
		if err := w.KeyDown(code); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if !downOnly {
		if err := w.KeyUp(code); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	title, _ := w.Title()
	return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: "key", Target: title})), nil
}

func (s *mcpServer) handleFindElement(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	el, err := s.resolveElement(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer el.Release()

	if BoolParam(params, "parent", false) {
		p, err := el.Parent()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer p.Release()
		info, err := p.Info()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(resultText(info)), nil
	}

	info, err := el.Info()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultText(info)), nil
}

func (s *mcpServer) handleListChildren(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	el, err := s.resolveChildrenRoot(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer el.Release()

	kids, err := el.Children()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
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
	return mcp.NewToolResultText(resultText(infos)), nil
}

func (s *mcpServer) resolveChildrenRoot(params map[string]interface{}) (*uia.Element, error) {
	if title := StringParam(params, "window_title", ""); title != "" {
		w, err := s.conn.FindWindowByTitle(title)
		if err != nil {
			return nil, err
		}
		defer w.Release()
		return s.conn.ElementFromWindow(w)
	}
	return s.resolveElement(params)
}

func (s *mcpServer) handleSetValue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	value := StringParam(params, "value", "")

	s.connMu.Lock()
	defer s.connMu.Unlock()

	el, err := s.resolveElement(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer el.Release()
	if err := el.SetText(value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, _ := el.Text()
	return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: "set-value", Target: name})), nil
}

func (s *mcpServer) handleInvoke(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.connMu.Lock()
	defer s.connMu.Unlock()

	el, err := s.resolveElement(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer el.Release()
	name, _ := el.Text()
	if err := el.Invoke(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: "invoke", Target: name})), nil
}

func (s *mcpServer) handleLaunchApp(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	exe := StringParam(params, "executable", "")
	if exe == "" {
		return mcp.NewToolResultError("executable is required"), nil
	}
	var cliArgs []string
	if raw, ok := params["args"].([]interface{}); ok {
		for _, v := range raw {
			if str, ok := v.(string); ok {
				cliArgs = append(cliArgs, str)
			}
		}
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()

	ps := s.conn.Processes()
	if ps == nil {
		return mcp.NewToolResultError("process management not available"), nil
	}
	a, err := app.Launch(ps, exe, cliArgs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer a.Close()
	return mcp.NewToolResultText(resultText(AppResult{PID: a.PID(), Running: a.Running()})), nil
}

func (s *mcpServer) handleAppAction(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	action := StringParam(params, "action", "")

	s.connMu.Lock()
	defer s.connMu.Unlock()

	ps := s.conn.Processes()
	if ps == nil {
		return mcp.NewToolResultError("process management not available"), nil
	}

	var a *app.Application
	var err error
	if pid := IntParam(params, "pid", 0); pid > 0 {
		a, err = app.AttachPID(ps, pid)
	} else if name := StringParam(params, "name", ""); name != "" {
		a, err = app.AttachName(ps, name)
	} else {
		return mcp.NewToolResultError("no target: pass pid or name"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer a.Close()

	switch action {
	case "status":
		return mcp.NewToolResultText(resultText(AppResult{PID: a.PID(), Running: a.Running()})), nil
	case "wait":
		timeout := time.Duration(IntParam(params, "timeout", 0)) * time.Millisecond
		code, err := a.Wait(timeout)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(resultText(AppResult{PID: a.PID(), ExitCode: &code})), nil
	case "stop":
		if err := a.Terminate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(resultText(ActionResult{OK: true, Action: "stop", Target: fmt.Sprintf("pid %d", a.PID())})), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported action: %s", action)), nil
	}
}

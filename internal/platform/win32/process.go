//go:build windows

package win32

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"uiauto/internal/platform"
)

const processAccess = windows.PROCESS_QUERY_LIMITED_INFORMATION |
	windows.PROCESS_TERMINATE | windows.SYNCHRONIZE

// processSystem implements platform.ProcessSystem over the Win32 process
// table.
type processSystem struct{}

func (processSystem) Launch(exe string, args []string) (platform.Process, error) {
	cmd := exec.Command(exe, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	pid := cmd.Process.Pid
	h, err := windows.OpenProcess(processAccess, false, uint32(pid))
	// The exec handle is released either way; ours is the one that lives.
	cmd.Process.Release()
	if err != nil {
		return nil, fmt.Errorf("open launched process %d: %w", pid, err)
	}
	return &winProcess{handle: h, pid: pid}, nil
}

func (processSystem) Open(pid int) (platform.Process, error) {
	h, err := windows.OpenProcess(processAccess, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("open process %d: %w", pid, err)
	}
	return &winProcess{handle: h, pid: pid}, nil
}

func (processSystem) PIDsByName(name string) ([]int, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, fmt.Errorf("walk process snapshot: %w", err)
	}
	var pids []int
	for {
		exe := windows.UTF16ToString(entry.ExeFile[:])
		if strings.EqualFold(exe, name) || strings.EqualFold(exe, name+".exe") {
			pids = append(pids, int(entry.ProcessID))
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}
	return pids, nil
}

// winProcess implements platform.Process.
type winProcess struct {
	handle windows.Handle
	pid    int
}

func (p *winProcess) PID() int { return p.pid }

func (p *winProcess) Running() bool {
	var code uint32
	if err := windows.GetExitCodeProcess(p.handle, &code); err != nil {
		return false
	}
	return code == windows.STILL_ACTIVE
}

func (p *winProcess) Terminate() error {
	if err := windows.TerminateProcess(p.handle, 1); err != nil {
		return fmt.Errorf("TerminateProcess: %w", err)
	}
	return nil
}

func (p *winProcess) Wait(timeout time.Duration) (int, error) {
	ms := uint32(windows.INFINITE)
	if timeout > 0 {
		ms = uint32(timeout.Milliseconds())
	}
	ev, err := windows.WaitForSingleObject(p.handle, ms)
	if err != nil {
		return 0, fmt.Errorf("WaitForSingleObject: %w", err)
	}
	switch ev {
	case windows.WAIT_OBJECT_0:
		var code uint32
		if err := windows.GetExitCodeProcess(p.handle, &code); err != nil {
			return 0, fmt.Errorf("GetExitCodeProcess: %w", err)
		}
		return int(code), nil
	case windows.WAIT_TIMEOUT:
		return 0, fmt.Errorf("wait timed out after %s", timeout)
	default:
		return 0, fmt.Errorf("unexpected wait result %d", ev)
	}
}

func (p *winProcess) Close() error {
	return windows.CloseHandle(p.handle)
}

// Package proc resolves and describes the process a listener is scoped to.
package proc

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// Info describes a watched process for logs and snapshots.
type Info struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
	Exe  string `json:"exe,omitempty"`
}

// FindByName returns the PID of the first running process matching name.
// Matching is case-insensitive and ignores a trailing ".exe" on either
// side, so "chrome" finds "chrome.exe".
func FindByName(name string) (uint32, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue
		}
		if nameMatches(name, n) {
			return uint32(p.Pid), nil
		}
	}
	return 0, fmt.Errorf("process %q not found", name)
}

// Describe returns what is known about pid. Fields that cannot be read
// (process gone, permissions) are left empty rather than failing; the
// result is informational only.
func Describe(pid uint32) Info {
	info := Info{PID: int32(pid)}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return info
	}
	if n, err := p.Name(); err == nil {
		info.Name = n
	}
	if exe, err := p.Exe(); err == nil {
		info.Exe = exe
	}
	return info
}

func nameMatches(want, got string) bool {
	return strings.EqualFold(trimExe(want), trimExe(got))
}

func trimExe(name string) string {
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		return name[:len(name)-4]
	}
	return name
}

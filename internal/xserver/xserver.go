// Package xserver detects a running X server. Xorg reads xorg.conf.d only
// at startup, so a patched matrix takes effect after a restart.
package xserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/process"
)

// Names are the process names treated as an X server
var Names = []string{"Xorg", "X", "Xwayland"}

// Server is a running X server process
type Server struct {
	PID  int32
	Name string
}

// IsServerName reports whether a process name belongs to an X server
func IsServerName(name string) bool {
	base := filepath.Base(name)
	for _, n := range Names {
		if base == n {
			return true
		}
	}
	return false
}

// Find returns every running X server
func Find(ctx context.Context) ([]Server, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var servers []Server
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Process exited between listing and inspection
			continue
		}
		if IsServerName(name) {
			servers = append(servers, Server{PID: p.Pid, Name: name})
		}
	}
	return servers, nil
}

// RestartHint returns the line printed after a successful fix while X is up,
// or "" when no server is running
func RestartHint(servers []Server) string {
	if len(servers) == 0 {
		return ""
	}
	return fmt.Sprintf("ℹ️  %s is running (pid %d): restart X for the new calibration to take effect",
		servers[0].Name, servers[0].PID)
}

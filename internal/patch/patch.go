package patch

import (
	"os"
	"strings"
)

// State describes where a file stands relative to a substitution
type State string

const (
	StatePending State = "pending" // old substring present
	StateApplied State = "applied" // old gone, new present
	StateMissing State = "missing" // neither present
)

// Options tune a single Apply call
type Options struct {
	// Backup writes the original content to <path>.bak before patching
	Backup bool
	// DryRun counts replacements without writing anything
	DryRun bool
}

// Outcome describes a successful substitution
type Outcome struct {
	Path         string
	Replacements int
	Backup       string // empty when no backup was written
	Written      bool
}

// BackupPath returns where Apply stores the pre-patch copy of path
func BackupPath(path string) string {
	return path + ".bak"
}

// Apply replaces every occurrence of old with new in the file at path.
// Bytes outside the replaced spans are written back untouched.
func Apply(path, old, new string, opts Options) (*Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newError("read", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError("read", path, err)
	}
	content := string(data)

	count := strings.Count(content, old)
	if old == "" || count == 0 {
		return nil, ErrPatternNotFound
	}

	outcome := &Outcome{Path: path, Replacements: count}
	if opts.DryRun {
		return outcome, nil
	}

	perm := info.Mode().Perm()
	if opts.Backup {
		backup := BackupPath(path)
		if err := os.WriteFile(backup, data, perm); err != nil {
			return nil, newError("backup", backup, err)
		}
		outcome.Backup = backup
	}

	patched := strings.ReplaceAll(content, old, new)
	if err := os.WriteFile(path, []byte(patched), perm); err != nil {
		return nil, newError("write", path, err)
	}
	outcome.Written = true

	return outcome, nil
}

// Check reports the state of the file at path without modifying it
func Check(path, old, new string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", newError("read", path, err)
	}
	content := string(data)

	switch {
	case old != "" && strings.Contains(content, old):
		return StatePending, nil
	case new != "" && strings.Contains(content, new):
		return StateApplied, nil
	default:
		return StateMissing, nil
	}
}

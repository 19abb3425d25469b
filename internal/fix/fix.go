package fix

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// KnownGoodMatrix is the calibration written by both built-in fixes
	KnownGoodMatrix = "1.0 0.0 0.0 0.0 0.8 0.0 0.0 0.0 1.0"
	// IdentityMatrix is the conflicting value left behind in 99-calibration.conf
	IdentityMatrix = "1.0 0.0 0.0 0.0 1.0 0.0 0.0 0.0 1.0"

	TouchscreenConf = "/etc/X11/xorg.conf.d/10-touchscreen.conf"
	CalibrationConf = "/etc/X11/xorg.conf.d/99-calibration.conf"
)

// Fix is a literal substitution against one configuration file
type Fix struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Path        string   `yaml:"path" json:"path"`
	Old         string   `yaml:"old" json:"old"`
	New         string   `yaml:"new" json:"new"`
	Success     string   `yaml:"success,omitempty" json:"success,omitempty"`
	Details     []string `yaml:"details,omitempty" json:"details,omitempty"`
	NotFound    string   `yaml:"not_found,omitempty" json:"not_found,omitempty"`
}

// CalibrationOption renders an X11 CalibrationMatrix option line
func CalibrationOption(values string) string {
	return fmt.Sprintf(`Option "CalibrationMatrix" "%s"`, values)
}

// Calibration fills the empty matrix in 10-touchscreen.conf
var Calibration = Fix{
	Name:        "calibration",
	Description: "Apply known good matrix to empty CalibrationMatrix",
	Path:        TouchscreenConf,
	Old:         CalibrationOption(""),
	New:         CalibrationOption(KnownGoodMatrix),
	Success:     "✅ Calibration matrix applied successfully!",
	Details:     []string{"   Matrix: " + KnownGoodMatrix},
	NotFound:    "❌ Could not find empty calibration matrix in configuration",
}

// CalibrationConflict replaces the identity matrix in 99-calibration.conf
var CalibrationConflict = Fix{
	Name:        "calibration-conflict",
	Description: "Replace conflicting identity matrix in 99-calibration.conf",
	Path:        CalibrationConf,
	Old:         CalibrationOption(IdentityMatrix),
	New:         CalibrationOption(KnownGoodMatrix),
	Success:     "✅ Fixed conflicting calibration matrix in 99-calibration.conf!",
	Details: []string{
		"   Changed from: " + IdentityMatrix,
		"   Changed to:   " + KnownGoodMatrix,
	},
	NotFound: "❌ Could not find the conflicting calibration matrix",
}

// Target returns the file the fix operates on under an optional system root
func (f Fix) Target(root string) string {
	if root == "" {
		return f.Path
	}
	return filepath.Join(root, f.Path)
}

// SuccessMessage returns the status line printed after a successful run
func (f Fix) SuccessMessage() string {
	if f.Success != "" {
		return f.Success
	}
	return fmt.Sprintf("✅ Applied %s to %s", f.Name, f.Path)
}

// NotFoundMessage returns the status line printed when the pattern is absent
func (f Fix) NotFoundMessage() string {
	if f.NotFound != "" {
		return f.NotFound
	}
	return fmt.Sprintf("❌ Could not find the expected pattern for %s in %s", f.Name, f.Path)
}

// Validate checks that a fix definition is usable
func (f Fix) Validate() error {
	var errs []error
	if f.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if f.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}
	if f.Old == "" {
		errs = append(errs, errors.New("old is required"))
	}
	if f.Old != "" && f.Old == f.New {
		errs = append(errs, errors.New("old and new are identical"))
	} else if f.Old != "" && strings.Contains(f.New, f.Old) {
		// Applying would leave old in place, so the fix never settles
		errs = append(errs, errors.New("new contains old, fix would not be idempotent"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid fix %q: %w", f.Name, errors.Join(errs...))
	}
	return nil
}

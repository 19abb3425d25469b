package fix

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jopey-woof/turt3/internal/logging"
	"github.com/jopey-woof/turt3/internal/patch"
	"github.com/jopey-woof/turt3/internal/report"
)

const touchscreenConf = `Section "InputClass"
    Identifier "calibration"
    MatchProduct "ILITEK"
    Option "CalibrationMatrix" ""
EndSection
`

const calibrationConf = `Section "InputClass"
    Identifier "calibration"
    Option "CalibrationMatrix" "1.0 0.0 0.0 0.0 1.0 0.0 0.0 0.0 1.0"
EndSection
`

// sysroot lays out files under a temporary root mirroring /etc/X11/xorg.conf.d
func sysroot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestBuiltinStrings(t *testing.T) {
	if Calibration.Old != `Option "CalibrationMatrix" ""` {
		t.Errorf("Calibration.Old = %q", Calibration.Old)
	}
	if Calibration.New != `Option "CalibrationMatrix" "1.0 0.0 0.0 0.0 0.8 0.0 0.0 0.0 1.0"` {
		t.Errorf("Calibration.New = %q", Calibration.New)
	}
	if CalibrationConflict.Old != `Option "CalibrationMatrix" "1.0 0.0 0.0 0.0 1.0 0.0 0.0 0.0 1.0"` {
		t.Errorf("CalibrationConflict.Old = %q", CalibrationConflict.Old)
	}
	if CalibrationConflict.New != Calibration.New {
		t.Errorf("both fixes must write the same matrix")
	}
	if Calibration.Path != "/etc/X11/xorg.conf.d/10-touchscreen.conf" {
		t.Errorf("Calibration.Path = %q", Calibration.Path)
	}
	if CalibrationConflict.Path != "/etc/X11/xorg.conf.d/99-calibration.conf" {
		t.Errorf("CalibrationConflict.Path = %q", CalibrationConflict.Path)
	}
}

func TestRunCalibration(t *testing.T) {
	root := sysroot(t, map[string]string{TouchscreenConf: touchscreenConf})
	var out bytes.Buffer

	result := Run(&out, Calibration, RunOptions{Root: root})

	if result.Outcome != report.OutcomeApplied || result.ExitCode() != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	expectedOut := "✅ Calibration matrix applied successfully!\n" +
		"   Matrix: 1.0 0.0 0.0 0.0 0.8 0.0 0.0 0.0 1.0\n"
	if out.String() != expectedOut {
		t.Errorf("output = %q, expected %q", out.String(), expectedOut)
	}

	expected := strings.Replace(touchscreenConf, Calibration.Old, Calibration.New, 1)
	if got := read(t, Calibration.Target(root)); got != expected {
		t.Errorf("patched file = %q, expected %q", got, expected)
	}
}

func TestRunCalibrationConflict(t *testing.T) {
	root := sysroot(t, map[string]string{CalibrationConf: calibrationConf})
	var out bytes.Buffer

	result := Run(&out, CalibrationConflict, RunOptions{Root: root})

	if result.ExitCode() != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	expectedOut := "✅ Fixed conflicting calibration matrix in 99-calibration.conf!\n" +
		"   Changed from: 1.0 0.0 0.0 0.0 1.0 0.0 0.0 0.0 1.0\n" +
		"   Changed to:   1.0 0.0 0.0 0.0 0.8 0.0 0.0 0.0 1.0\n"
	if out.String() != expectedOut {
		t.Errorf("output = %q, expected %q", out.String(), expectedOut)
	}
	if !strings.Contains(read(t, CalibrationConflict.Target(root)), KnownGoodMatrix) {
		t.Error("known good matrix not written")
	}
}

func TestRunSecondTimeReportsNotFound(t *testing.T) {
	root := sysroot(t, map[string]string{TouchscreenConf: touchscreenConf})

	Run(&bytes.Buffer{}, Calibration, RunOptions{Root: root})
	patched := read(t, Calibration.Target(root))

	var out bytes.Buffer
	result := Run(&out, Calibration, RunOptions{Root: root})

	if result.Outcome != report.OutcomeNotFound || result.ExitCode() != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if out.String() != "❌ Could not find empty calibration matrix in configuration\n" {
		t.Errorf("output = %q", out.String())
	}
	if got := read(t, Calibration.Target(root)); got != patched {
		t.Error("second run modified the file")
	}
}

func TestRunLeavesSummaryToCaller(t *testing.T) {
	root := sysroot(t, map[string]string{TouchscreenConf: "Section \"InputClass\"\nEndSection\n"})
	var logs bytes.Buffer
	logger := logging.NewLogger(logging.INFO, false)
	logger.SetOutput(&logs)

	result := Run(&bytes.Buffer{}, Calibration, RunOptions{Root: root, Logger: logger})

	if result.Outcome != report.OutcomeNotFound {
		t.Fatalf("unexpected result: %+v", result)
	}
	if logs.Len() != 0 {
		t.Errorf("Run logged on its own: %q", logs.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer

	result := Run(&out, CalibrationConflict, RunOptions{Root: root})

	if result.Outcome != report.OutcomeError || result.ExitCode() != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.HasPrefix(out.String(), "❌ Error: ") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "no such file or directory") {
		t.Errorf("error message should name the cause: %q", out.String())
	}
	if result.Error == "" {
		t.Error("result should carry the error text")
	}
}

func TestRunDryRun(t *testing.T) {
	root := sysroot(t, map[string]string{TouchscreenConf: touchscreenConf})
	var out bytes.Buffer

	result := Run(&out, Calibration, RunOptions{Root: root, DryRun: true})

	if result.Outcome != report.OutcomeDryRun || result.Replacements != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := read(t, Calibration.Target(root)); got != touchscreenConf {
		t.Error("dry run modified the file")
	}
}

func TestRunBackup(t *testing.T) {
	root := sysroot(t, map[string]string{TouchscreenConf: touchscreenConf})

	result := Run(&bytes.Buffer{}, Calibration, RunOptions{Root: root, Backup: true})

	if result.Backup == "" {
		t.Fatal("expected a backup path")
	}
	if got := read(t, result.Backup); got != touchscreenConf {
		t.Errorf("backup = %q", got)
	}
}

func TestInspect(t *testing.T) {
	root := sysroot(t, map[string]string{TouchscreenConf: touchscreenConf})

	if st := Inspect(Calibration, root); st.State != patch.StatePending || st.Error != "" {
		t.Errorf("before apply: %+v", st)
	}

	Run(&bytes.Buffer{}, Calibration, RunOptions{Root: root})

	if st := Inspect(Calibration, root); st.State != patch.StateApplied {
		t.Errorf("after apply: %+v", st)
	}
	if st := Inspect(CalibrationConflict, root); st.Error == "" {
		t.Errorf("missing file should report an error: %+v", st)
	}
}

func TestTarget(t *testing.T) {
	if got := Calibration.Target(""); got != TouchscreenConf {
		t.Errorf("Target(\"\") = %q", got)
	}
	if got := Calibration.Target("/mnt/sysroot"); got != "/mnt/sysroot/etc/X11/xorg.conf.d/10-touchscreen.conf" {
		t.Errorf("Target(root) = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		fix     Fix
		wantErr bool
		desc    string
	}{
		{Calibration, false, "builtin"},
		{Fix{Name: "x", Path: "/a", Old: "a", New: "b"}, false, "minimal"},
		{Fix{Path: "/a", Old: "a", New: "b"}, true, "no name"},
		{Fix{Name: "x", Old: "a", New: "b"}, true, "no path"},
		{Fix{Name: "x", Path: "/a", New: "b"}, true, "no old"},
		{Fix{Name: "x", Path: "/a", Old: "a", New: "a"}, true, "old equals new"},
		{Fix{
			Name: "append-matrix",
			Path: "/etc/X11/xorg.conf.d/10-touchscreen.conf",
			Old:  `MatchIsTouchscreen "on"`,
			New:  `MatchIsTouchscreen "on"` + "\n    " + CalibrationOption(KnownGoodMatrix),
		}, true, "new contains old"},
		{CalibrationConflict, false, "builtin conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := tt.fix.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuiltinsAreIdempotent(t *testing.T) {
	root := sysroot(t, map[string]string{
		TouchscreenConf: touchscreenConf,
		CalibrationConf: calibrationConf,
	})

	for _, f := range []Fix{Calibration, CalibrationConflict} {
		t.Run(f.Name, func(t *testing.T) {
			if res := Run(&bytes.Buffer{}, f, RunOptions{Root: root}); res.Outcome != report.OutcomeApplied {
				t.Fatalf("first run: %+v", res)
			}
			if st := Inspect(f, root); st.State != patch.StateApplied {
				t.Errorf("after apply state = %q, expected applied", st.State)
			}
			if res := Run(&bytes.Buffer{}, f, RunOptions{Root: root}); res.Outcome != report.OutcomeNotFound {
				t.Errorf("second run: %+v", res)
			}
		})
	}
}

func TestDefaultMessages(t *testing.T) {
	f := Fix{Name: "rotate", Path: "/etc/X11/xorg.conf.d/20-rotate.conf", Old: "a", New: "b"}

	if !strings.Contains(f.SuccessMessage(), "rotate") {
		t.Errorf("SuccessMessage() = %q", f.SuccessMessage())
	}
	if !strings.HasPrefix(f.NotFoundMessage(), "❌") {
		t.Errorf("NotFoundMessage() = %q", f.NotFoundMessage())
	}
}

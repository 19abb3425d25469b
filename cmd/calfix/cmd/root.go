package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jopey-woof/turt3/internal/config"
	"github.com/jopey-woof/turt3/internal/fix"
	"github.com/jopey-woof/turt3/internal/logging"
	"github.com/jopey-woof/turt3/internal/report"
)

// ErrFixFailed is returned when a fix ran but did not apply. Its status
// lines are already printed, so main only sets the exit code.
var ErrFixFailed = errors.New("one or more fixes failed")

// state is shared by the command tree of one invocation
type state struct {
	v            *viper.Viper
	cfgFile      string
	outputFormat string

	cfg     *config.Config
	catalog *fix.Catalog
	logger  *logging.Logger
}

// NewRootCmd builds the calfix command tree
func NewRootCmd() *cobra.Command {
	s := &state{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "calfix",
		Short: "Apply known-good touchscreen calibration to X11 configuration",
		Long: `calfix patches X11 touchscreen calibration files in /etc/X11/xorg.conf.d,
replacing an empty or conflicting CalibrationMatrix with a known-good value.

Built-in fixes:
  calibration            fill the empty matrix in 10-touchscreen.conf
  calibration-conflict   replace the identity matrix in 99-calibration.conf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.cfgFile, "config", "", "config file (default is /etc/calfix/config.yaml or $HOME/.calfix/config.yaml)")
	flags.StringVar(&s.outputFormat, "output", "table", "output format: table or json")
	flags.String("root", "", "system root prefixed to every fix path")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("metrics-file", "", "write node-exporter textfile metrics to this path (\"-\" prints them to stdout)")

	s.v.BindPFlag("root", flags.Lookup("root"))
	s.v.BindPFlag("log.level", flags.Lookup("log-level"))
	s.v.BindPFlag("log.format", flags.Lookup("log-format"))
	s.v.BindPFlag("metrics_file", flags.Lookup("metrics-file"))

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newApplyCmd(s))
	rootCmd.AddCommand(newStatusCmd(s))
	rootCmd.AddCommand(newListCmd(s))
	rootCmd.AddCommand(newWatchCmd(s))
	rootCmd.AddCommand(newConfigCmd(s))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the calfix command tree
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the config file and environment, flags taking precedence
func (s *state) load() error {
	v := s.v
	if s.cfgFile != "" {
		if !config.Exists(s.cfgFile) {
			return fmt.Errorf("configuration file not found: %s", s.cfgFile)
		}
		v.SetConfigFile(s.cfgFile)
	} else {
		v.AddConfigPath("/etc/calfix")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".calfix"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CALFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := config.Default()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		// The file body is decoded with yaml.v3 so fix definitions keep
		// their exact strings.
		cfg, err = config.Load(v.ConfigFileUsed())
		if err != nil {
			return err
		}
	}

	cfg.Root = v.GetString("root")
	cfg.MetricsFile = v.GetString("metrics_file")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	if v.IsSet("backup") {
		cfg.Backup = v.GetBool("backup")
	}

	if s.outputFormat != "table" && s.outputFormat != "json" {
		return fmt.Errorf("invalid output format %q (expected table or json)", s.outputFormat)
	}

	s.cfg = cfg
	s.catalog = cfg.Catalog()
	s.logger = logging.NewLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format == "json")
	s.logger.Debug("configuration loaded", map[string]interface{}{
		"config": v.ConfigFileUsed(),
		"root":   cfg.Root,
		"fixes":  strings.Join(s.catalog.Names(), ","),
	})
	return nil
}

// isJSONOutput returns true if JSON output is requested
func (s *state) isJSONOutput() bool {
	return s.outputFormat == "json"
}

// writeMetrics emits collected metrics to the configured destination
func (s *state) writeMetrics(out io.Writer, metrics *report.Metrics) {
	var err error
	switch s.cfg.MetricsFile {
	case "":
		return
	case "-":
		err = metrics.Render(out)
	default:
		err = metrics.WriteTextfile(s.cfg.MetricsFile)
	}
	if err != nil {
		s.logger.Error(err.Error())
	}
}

// runOptions builds fix run options from the loaded configuration
func (s *state) runOptions() fix.RunOptions {
	return fix.RunOptions{
		Root:   s.cfg.Root,
		Backup: s.cfg.Backup,
		Logger: s.logger,
	}
}

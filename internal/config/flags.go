package config

import "github.com/spf13/pflag"

var (
	flagConfig  = pflag.StringP("config", "c", "", "Path to config file")
	flagDebug   = pflag.Bool("debug", false, "Enable debug logging")
	flagLogFile = pflag.String("log-file", "", "Write logs to a rotating file")
	flagRoots   = pflag.StringSliceP("root", "r", nil, "Data root (repeatable; first is primary, later roots overlay it)")
	flagLOD     = pflag.Float64("lod", -1, "Fraction of faces to draw, 0..1 (default from config)")
)

// ParseFlags parses global command-line flags. Parsing stops at the first
// non-flag argument so subcommands can parse their own flags.
func ParseFlags() {
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()
}

// Args returns the arguments remaining after the global flags.
func Args() []string {
	return pflag.Args()
}

// PrintDefaults writes the global flag usage to stderr.
func PrintDefaults() {
	pflag.PrintDefaults()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if len(*flagRoots) > 0 {
		cfg.Data.Roots = append([]string(nil), *flagRoots...)
	}
	if *flagLOD >= 0 {
		cfg.Viewer.LODPercent = *flagLOD
	}
}

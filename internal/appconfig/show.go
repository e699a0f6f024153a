package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}
	paths := cfg.InputPaths()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Training Log:     %s\n", paths.TrainingLog)
	fmt.Fprintf(out, "  Training Log CPS: %s\n", paths.TrainingLogCPS)
	fmt.Fprintf(out, "  Final Results:    %s\n", paths.FinalResults)
	fmt.Fprintf(out, "  Default Metrics:  %s\n", strings.Join(cfg.DefaultMetricNames(), ", "))
	fmt.Fprintf(out, "  Listen Address:   %s\n", cfg.ListenAddress())
	fmt.Fprintf(out, "  Read Timeout:     %s\n", cfg.ReadTimeout())
}

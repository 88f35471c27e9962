package main

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/modelscan"
)

type Flags struct {
	Workers          int
	ProbeTimeout     time.Duration
	ValidateTimeout  time.Duration
	ValidationRounds int

	OutputDir string
	Database  string
	EnvFile   string
	Quiet     bool
	Verbose   bool
}

func (f *Flags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.Workers, "workers", "w", 0, "Concurrent workers. Defaults to 300")
	flags.DurationVar(&f.ProbeTimeout, "probe-timeout", 0, "Timeout per listing call")
	flags.DurationVar(&f.ValidateTimeout, "validate-timeout", 0, "Timeout per confirmation round")
	flags.IntVar(&f.ValidationRounds, "rounds", 0, "Confirmation rounds per capability")
	flags.StringVarP(&f.OutputDir, "output", "o", "valid_nodes", "Report directory")
	flags.StringVar(&f.Database, "db", "", "Also persist results to this sqlite database")
	flags.StringVar(&f.EnvFile, "env", "", "Env file to load before reading MODELSCAN_* variables")
	flags.BoolVarP(&f.Quiet, "quiet", "q", false, "Disable banner and progress rendering")
	flags.BoolVarP(&f.Verbose, "verbose", "v", false, "Debug logging")
}

// configure folds env and flag overrides over the defaults. Flags win
// over environment, environment wins over defaults.
func (f *Flags) configure(cmd *cobra.Command) modelscan.Config {
	conf := modelscan.DefaultConfig()
	conf.BindEnv()

	set := cmd.Flags().Changed
	if set("workers") {
		conf.Workers = f.Workers
	}
	if set("probe-timeout") {
		conf.ProbeTimeout = f.ProbeTimeout
	}
	if set("validate-timeout") {
		conf.ValidateTimeout = f.ValidateTimeout
	}
	if set("rounds") {
		conf.ValidationRounds = f.ValidationRounds
	}
	return conf
}

// loadTargets reads one raw target per line, trimming whitespace and
// skipping blanks. The engine takes it from there.
func loadTargets(fpath string) ([]string, error) {
	fd, err := os.Open(fpath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open targets file")
	}
	defer fd.Close()

	var targets []string
	sc := bufio.NewScanner(fd)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read targets file")
	}
	return targets, nil
}

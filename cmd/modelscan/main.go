package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/modelscan"
	"github.com/modelscan/pkg/console"
	"github.com/modelscan/pkg/database"
	"github.com/modelscan/pkg/report"
)

const version = "1.0.0"

func main() {
	if err := rootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("scan aborted")
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var f Flags

	cmd := &cobra.Command{
		Use:   "modelscan targets_file [-w workers] [-o output] [--db results.db]",
		Short: "Discover inference nodes and index their working capabilities",
		Long: `
		modelscan probes every host in the targets file for the inference
		service's listing endpoint, then confirms each advertised capability
		with follow-up generation calls. The output is one host list per
		working capability plus a list of unreachable hosts. Interrupting a
		run keeps everything confirmed so far.
		`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(f)
			if f.EnvFile != "" {
				if err := godotenv.Load(f.EnvFile); err != nil {
					return err
				}
			}
			return run(cmd, args[0], f)
		},
	}

	f.register(cmd)
	return cmd
}

func setupLogging(f Flags) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if f.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func run(cmd *cobra.Command, targetsFile string, f Flags) error {
	targets, err := loadTargets(targetsFile)
	if err != nil {
		return err
	}
	conf := f.configure(cmd)

	// SIGINT/SIGTERM request a cooperative stop: workers finish their
	// claimed host and the partial report is still written.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := modelscan.NewController(conf)
	if !f.Quiet {
		console.Banner(version)
		renderer := new(console.Renderer)
		ctrl.OnProgress(renderer.Progress)
	}

	rep, err := ctrl.Run(ctx, targets)
	if err != nil {
		return err
	}

	writer := report.Writer{Dir: f.OutputDir}
	if err := writer.Write(rep.Snapshot); err != nil {
		return err
	}

	if f.Database != "" {
		store, err := database.Open(f.Database)
		if err != nil {
			return err
		}
		if err := store.SaveReport(rep); err != nil {
			return err
		}
	}

	if !f.Quiet {
		console.Summary(rep)
	}
	return nil
}

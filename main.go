package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ptgott/safestore/command"
	"github.com/ptgott/safestore/facade"
	"github.com/ptgott/safestore/userconfig"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Log with filename and line number. This writes to stderr, so it should
	// be thread safe and stays out of the way of command output on stdout.
	// https://github.com/rs/zerolog/blob/7ccd4c940bf8a02fcc5f10e5475f9d3daff04d57/log/log.go#L13
	log.Logger = log.With().Caller().Logger()

	configPath := flag.String(
		"config",
		"./config.yaml",
		"path to a JSON or YAML file containing your configuration",
	)
	quiet := flag.Bool(
		"quiet",
		false,
		"don't notify change listeners when setting a key",
	)
	level := flag.String(
		"level",
		"info",
		`log level: "info", "debug", or "warn"`,
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [FLAGS] VERB [ARGS]\n\nFLAGS:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\n%v\n", command.Usage)
	}
	flag.Parse()

	switch *level {
	case "debug":
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	case "warn":
		log.Logger = log.Logger.Level(zerolog.WarnLevel)
	default:
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	log.Debug().
		Str("configPath", *configPath).
		Msg("starting the application")

	f, err := os.Open(*configPath)

	if err != nil {
		log.Error().
			Str("config-path", *configPath).
			Err(err).
			Msg("We can't open the application config file")
		os.Exit(1)
	}

	config, err := userconfig.Parse(f)
	f.Close()

	if err != nil {
		log.Error().
			Err(err).
			Msg("Problem parsing your config")
		os.Exit(1)
	}

	checkedConfig, err := config.CheckAndSetDefaults()
	if err != nil {
		log.Error().
			Err(err).
			Msg("Problem validating your config")
		os.Exit(1)
	}

	s := facade.FromConfig(&checkedConfig.Storage)
	if s.IsFallbackActive() {
		log.Warn().Msg("changes made by this command will not be saved")
	}

	s.OnChanged(func() {
		log.Info().Msg("storage changed")
	})

	err = command.Run(s, flag.Args(), command.Options{Quiet: *quiet}, os.Stdout)

	// Get rid of stale value log data just before we close. Closing lets
	// BadgerDB flush to disk.
	if cerr := s.Cleanup(); cerr != nil {
		log.Error().Err(cerr).Msg("error cleaning up the database")
	}
	if cerr := s.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("error closing the database")
	}

	switch {
	case err == nil:
	case errors.Is(err, command.ErrUsage):
		log.Error().Err(err).Msg("invalid command")
		flag.Usage()
		os.Exit(2)
	case errors.Is(err, command.ErrNotFound):
		log.Debug().Err(err).Msg("nothing to print")
		os.Exit(1)
	default:
		log.Error().Err(err).Msg("the command failed")
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/compulsive-quake/rage-pad/internal/config"
	"github.com/compulsive-quake/rage-pad/internal/decode"
	"github.com/compulsive-quake/rage-pad/internal/devices"
	"github.com/compulsive-quake/rage-pad/internal/engine"
	"github.com/compulsive-quake/rage-pad/internal/logging"
	"github.com/compulsive-quake/rage-pad/internal/mixer"
	"github.com/compulsive-quake/rage-pad/internal/protocol"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Last-resort handler: whatever goes wrong, the controller gets one
	// final machine-readable error line on stdout instead of a bare crash.
	defer func() {
		if r := recover(); r != nil {
			emitError(fmt.Sprintf("fatal: %v", r))
			os.Exit(1)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log := logging.New()
		log.Error().Err(err).Msg("Failed to load config")
		emitError(fmt.Sprintf("failed to load config: %v", err))
		os.Exit(1)
	}

	log := logging.NewWithLevel(cfg.LogLevel)
	log.Info().Str("version", Version).Str("commit", Commit).Msg("rage-pad engine starting")

	dir, err := devices.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize audio host")
		emitError(fmt.Sprintf("failed to initialize audio host: %v", err))
		os.Exit(1)
	}
	defer dir.Close()

	m := mixer.New(mixer.Options{
		Devices:      dir,
		Decode:       decode.File,
		Logger:       log,
		RingCapacity: cfg.Audio.RingCapacity,
	})
	defer m.Close()

	// Preselected device names from config; streams stay closed until the
	// controller asks for them.
	if cfg.Audio.InputDevice != "" {
		m.SetInputDeviceName(cfg.Audio.InputDevice)
	}
	if cfg.Audio.OutputDevice != "" {
		m.SetOutputDeviceName(cfg.Audio.OutputDevice)
	}

	drv := engine.New(m, dir, log)
	if err := drv.Run(os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("Command loop ended with error")
		os.Exit(1)
	}

	log.Info().Msg("rage-pad engine exiting")
}

// emitError writes one error response line directly to stdout.
func emitError(message string) {
	if data, err := json.Marshal(protocol.Error(message)); err == nil {
		fmt.Fprintln(os.Stdout, string(data))
	}
}

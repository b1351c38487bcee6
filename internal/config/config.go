/*

  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved

  Licensed under the Apache License, Version 2.0 (the "License");
  you may not use this file except in compliance with the License.
  You may obtain a copy of the License at

      http://www.apache.org/licenses/LICENSE-2.0

  Unless required by applicable law or agreed to in writing, software
  distributed under the License is distributed on an "AS IS" BASIS,
  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
  See the License for the specific language governing permissions and
  limitations under the License.

*/

// Package config holds options of idable daemon and command line tools.
package config

import (
	"flag"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fogfish/idable"
	options "github.com/mreiferson/go-options"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version of idable binaries
var Version = "v1.0.0"

// Generator modes
const (
	// ModeStrict is MonotonicSeq, unique and strictly increasing ids
	ModeStrict = "strict"
	// ModeFast is TimestampSeq, free-running sequence with rollover guard
	ModeFast = "fast"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config for the daemon. Fields tagged with `flag` are resolved from command
// line, then from config file, then defaults of NewConfig.
type Config struct {
	// Basic options.
	HTTPAddress     string        `flag:"http-address"`
	ShutdownTimeout time.Duration `flag:"shutdown-timeout"`
	LogLevel        string        `flag:"log-level"`
	Logger          *zap.Logger

	// Generator options, fixed for the lifetime of process.
	Mode         string `flag:"mode"`
	SequenceBits int    `flag:"sequence-bits"`
	Epoch        int64  `flag:"epoch"`
	Yield        bool   `flag:"yield"`
	MaxBatch     int    `flag:"max-batch"`

	// Tracing options.
	Tracing   bool   `flag:"tracing"`
	TraceFile string `flag:"trace-file"`
}

// NewConfig creates a new config with defaults.
func NewConfig() *Config {
	return &Config{
		HTTPAddress:     "127.0.0.1:9797",
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",

		Mode:         ModeStrict,
		SequenceBits: int(idable.SequenceBits),
		Epoch:        int64(idable.Epoch),
		Yield:        false,
		MaxBatch:     1000,
	}
}

// FlagSet declares command line flags of the config, defaults are taken from cfg.
func FlagSet(name string, cfg *Config) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ExitOnError)

	flagSet.Bool("version", false, "print version string")
	flagSet.String("config", "", "path to config file")

	flagSet.String("http-address", cfg.HTTPAddress, "<addr>:<port> to listen on for HTTP clients")
	flagSet.Duration("shutdown-timeout", cfg.ShutdownTimeout, "duration to wait for in-flight requests on exit")
	flagSet.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	flagSet.String("mode", cfg.Mode, "generator: strict (unique, increasing) or fast (free-running sequence)")
	flagSet.Int("sequence-bits", cfg.SequenceBits, "width of per-millisecond sequence, 1..22")
	flagSet.Int64("epoch", cfg.Epoch, "reference point, milliseconds since Unix epoch")
	flagSet.Bool("yield", cfg.Yield, "yield processor while waiting for the next millisecond")
	flagSet.Int("max-batch", cfg.MaxBatch, "max number of ids per request")

	flagSet.Bool("tracing", cfg.Tracing, "enable OpenTelemetry tracing")
	flagSet.String("trace-file", cfg.TraceFile, "write traces to file instead of stdout")

	return flagSet
}

// Load resolves cfg from parsed flags and the TOML file given by -config.
func Load(cfg *Config, flagSet *flag.FlagSet) error {
	var file map[string]interface{}

	if f := flagSet.Lookup("config"); f != nil && f.Value.String() != "" {
		path := f.Value.String()
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	options.Resolve(cfg, flagSet, file)
	return cfg.Validate()
}

// Validate checks options
func (cfg *Config) Validate() error {
	switch cfg.Mode {
	case ModeStrict, ModeFast:
	default:
		return errors.Wrapf(ErrInvalidConfig, "mode %q", cfg.Mode)
	}

	if cfg.SequenceBits < 1 || cfg.SequenceBits > 22 {
		return errors.Wrapf(ErrInvalidConfig, "sequence bits %d not in 1..22", cfg.SequenceBits)
	}

	if cfg.Epoch < 0 || cfg.Epoch > time.Now().UnixMilli() {
		return errors.Wrapf(ErrInvalidConfig, "epoch %d is not in the past", cfg.Epoch)
	}

	if cfg.MaxBatch < 1 {
		return errors.Wrapf(ErrInvalidConfig, "max batch %d", cfg.MaxBatch)
	}

	if _, err := cfg.level(); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log level %q", cfg.LogLevel)
	}

	return nil
}

// Options converts generator options to idable configuration
func (cfg *Config) Options() []idable.Config {
	opts := []idable.Config{
		idable.WithEpoch(uint64(cfg.Epoch)),
		idable.WithSequenceBits(uint8(cfg.SequenceBits)),
	}
	if cfg.Yield {
		opts = append(opts, idable.WithYield())
	}
	return opts
}

// NewGenerator creates time-ordered generator for the configured mode
func (cfg *Config) NewGenerator() (idable.Generator, idable.Layout, error) {
	switch cfg.Mode {
	case ModeStrict:
		seq := idable.NewMonotonicSeq(cfg.Options()...)
		return seq, seq.Layout(), nil
	case ModeFast:
		seq := idable.NewTimestampSeq(cfg.Options()...)
		return seq, seq.Layout(), nil
	default:
		return nil, idable.Layout{}, errors.Wrapf(ErrInvalidConfig, "mode %q", cfg.Mode)
	}
}

// NewLogger creates production logger at the configured level
func (cfg *Config) NewLogger() (*zap.Logger, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func (cfg *Config) level() (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel)))
	return level, err
}

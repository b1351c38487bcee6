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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fogfish/idable"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "idable.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ModeStrict, cfg.Mode)
	assert.Equal(t, 12, cfg.SequenceBits)
	assert.Equal(t, int64(idable.Epoch), cfg.Epoch)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg := NewConfig()
	flagSet := FlagSet("test", cfg)
	require.NoError(t, flagSet.Parse([]string{}))

	require.NoError(t, Load(cfg, flagSet))
	assert.Equal(t, "127.0.0.1:9797", cfg.HTTPAddress)
	assert.Equal(t, 1000, cfg.MaxBatch)
}

func TestLoadFileAndFlags(t *testing.T) {
	path := writeConfig(t, `
http_address = "0.0.0.0:8080"
mode = "fast"
sequence_bits = 10
max_batch = 50
shutdown_timeout = "1s"
`)

	cfg := NewConfig()
	flagSet := FlagSet("test", cfg)
	require.NoError(t, flagSet.Parse([]string{
		"-config", path,
		"-max-batch", "7",
		"-yield",
	}))

	require.NoError(t, Load(cfg, flagSet))

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddress)
	assert.Equal(t, ModeFast, cfg.Mode)
	assert.Equal(t, 10, cfg.SequenceBits)
	assert.Equal(t, time.Second, cfg.ShutdownTimeout)
	// command line wins over config file
	assert.Equal(t, 7, cfg.MaxBatch)
	assert.True(t, cfg.Yield)
}

func TestLoadMissingFile(t *testing.T) {
	cfg := NewConfig()
	flagSet := FlagSet("test", cfg)
	require.NoError(t, flagSet.Parse([]string{"-config", "/nonexistent/idable.toml"}))

	assert.Error(t, Load(cfg, flagSet))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"mode", func(c *Config) { c.Mode = "random" }},
		{"bits zero", func(c *Config) { c.SequenceBits = 0 }},
		{"bits wide", func(c *Config) { c.SequenceBits = 23 }},
		{"epoch future", func(c *Config) { c.Epoch = time.Now().Add(time.Hour).UnixMilli() }},
		{"epoch negative", func(c *Config) { c.Epoch = -1 }},
		{"batch", func(c *Config) { c.MaxBatch = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := NewConfig()
	cfg.SequenceBits = 8
	cfg.Epoch = 1000
	cfg.Yield = true

	seq := idable.NewMonotonicSeq(cfg.Options()...)

	assert.Equal(t, idable.Layout{Epoch: 1000, SequenceBits: 8}, seq.Layout())
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		mode   string
		expect interface{}
	}{
		{ModeStrict, &idable.MonotonicSeq{}},
		{ModeFast, &idable.TimestampSeq{}},
	}

	for _, tc := range tests {
		cfg := NewConfig()
		cfg.Mode = tc.mode
		cfg.SequenceBits = 4

		gen, layout, err := cfg.NewGenerator()
		require.NoError(t, err)
		assert.IsType(t, tc.expect, gen)
		assert.Equal(t, uint8(4), layout.SequenceBits)
	}

	cfg := NewConfig()
	cfg.Mode = "unknown"
	_, _, err := cfg.NewGenerator()
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestNewLogger(t *testing.T) {
	cfg := NewConfig()
	cfg.LogLevel = "DEBUG"

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

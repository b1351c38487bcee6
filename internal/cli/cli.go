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

// Package cli implements idable-cli commands: gen, parse and seq.
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/fogfish/idable"
	"github.com/fogfish/idable/internal/config"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUsage is returned on invalid command line
var ErrUsage = errors.New("usage: idable-cli gen|parse|seq|version [flags] [args]")

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Record is decomposed identifier
type Record struct {
	ID     uint64    `json:"id" yaml:"id"`
	String string    `json:"string" yaml:"string"`
	T      uint64    `json:"t" yaml:"t"`
	Seq    uint64    `json:"seq" yaml:"seq"`
	Time   time.Time `json:"time" yaml:"time"`
}

// Run executes command given by args[0], the output goes to w
func Run(args []string, w io.Writer) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "gen":
		return gen(args[1:], w)
	case "parse":
		return parse(args[1:], w)
	case "seq":
		return seq(args[1:], w)
	case "version":
		_, err := fmt.Fprintf(w, "idable-cli %s\n", config.Version)
		return err
	default:
		return errors.Wrapf(ErrUsage, "unknown command %q", args[0])
	}
}

// layoutFlags declares generator flags shared by gen and parse
func layoutFlags(flagSet *flag.FlagSet, cfg *config.Config) *string {
	flagSet.IntVar(&cfg.SequenceBits, "bits", cfg.SequenceBits, "width of per-millisecond sequence, 1..22")
	flagSet.Int64Var(&cfg.Epoch, "epoch", cfg.Epoch, "reference point, milliseconds since Unix epoch")
	return flagSet.String("format", FormatText, "output format: text, json, yaml")
}

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(w)
	return flagSet
}

func gen(args []string, w io.Writer) error {
	cfg := config.NewConfig()

	flagSet := newFlagSet("gen", w)
	n := flagSet.Int("n", 1, "number of identifiers")
	flagSet.StringVar(&cfg.Mode, "mode", cfg.Mode, "generator: strict or fast")
	flagSet.BoolVar(&cfg.Yield, "yield", cfg.Yield, "yield processor while waiting for the next millisecond")
	format := layoutFlags(flagSet, cfg)

	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(ErrUsage, err.Error())
	}
	if *n < 1 {
		return errors.Wrapf(ErrUsage, "n=%d", *n)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ids, layout, err := cfg.NewGenerator()
	if err != nil {
		return err
	}

	records := make([]Record, *n)
	for i := range records {
		r, err := decompose(layout, ids.NextID())
		if err != nil {
			return err
		}
		records[i] = r
	}

	return write(w, *format, records, func(r Record) string {
		return fmt.Sprintf("%d\t%s", r.ID, r.String)
	})
}

func parse(args []string, w io.Writer) error {
	cfg := config.NewConfig()

	flagSet := newFlagSet("parse", w)
	format := layoutFlags(flagSet, cfg)

	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(ErrUsage, err.Error())
	}
	if flagSet.NArg() == 0 {
		return errors.Wrap(ErrUsage, "parse requires identifiers")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	layout := idable.Layout{Epoch: uint64(cfg.Epoch), SequenceBits: uint8(cfg.SequenceBits)}

	records := make([]Record, 0, flagSet.NArg())
	for _, arg := range flagSet.Args() {
		id, err := idable.Parse(arg)
		if err != nil {
			return err
		}
		r, err := decompose(layout, id)
		if err != nil {
			return errors.WithMessagef(err, "%s", arg)
		}
		records = append(records, r)
	}

	return write(w, *format, records, func(r Record) string {
		return fmt.Sprintf("%d\t%s\tt=%d\tseq=%d\t%s",
			r.ID, r.String, r.T, r.Seq, r.Time.Format(time.RFC3339Nano))
	})
}

func seq(args []string, w io.Writer) error {
	flagSet := newFlagSet("seq", w)
	from := flagSet.Uint64("from", 0, "initial value")
	n := flagSet.Int("n", 1, "number of values")
	format := flagSet.String("format", FormatText, "output format: text, json, yaml")

	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(ErrUsage, err.Error())
	}
	if *n < 1 {
		return errors.Wrapf(ErrUsage, "n=%d", *n)
	}

	s := idable.SeqFrom(*from)
	values := make([]uint64, *n)
	for i := range values {
		values[i] = s.NextID()
	}

	return write(w, *format, values, func(v uint64) string {
		return fmt.Sprintf("%d", v)
	})
}

func decompose(layout idable.Layout, id uint64) (Record, error) {
	ts, err := layout.Timestamp(id)
	if err != nil {
		return Record{}, err
	}

	t, s := layout.Split(id)
	return Record{
		ID:     id,
		String: idable.String(id),
		T:      t,
		Seq:    s,
		Time:   ts.UTC(),
	}, nil
}

func write[T any](w io.Writer, format string, seq []T, text func(T) string) error {
	switch format {
	case FormatText:
		for _, x := range seq {
			if _, err := fmt.Fprintln(w, text(x)); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(seq))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(seq); err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(enc.Close())
	default:
		return errors.Wrapf(ErrUsage, "unknown format %q", format)
	}
}

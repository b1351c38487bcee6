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

// Package tracing installs OpenTelemetry tracer for idable daemon. Spans
// are no-op until Init is called.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/fogfish/idable"

var (
	mu       sync.Mutex
	provider *sdktrace.TracerProvider
	// trace file opened by Init, closed by Shutdown
	output *os.File
)

// Init configures stdout exporter. Empty outputFile writes traces to os.Stdout.
func Init(serviceName, serviceVersion, outputFile string) error {
	var (
		w io.Writer = os.Stdout
		f *os.File
	)
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return errors.Wrapf(err, "failed to create trace file %s", outputFile)
		}
		f, w = file, file
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err == nil {
		err = install(serviceName, serviceVersion, exporter, f)
	}
	if err != nil && f != nil {
		_ = f.Close()
	}
	return errors.WithStack(err)
}

// InitWithExporter registers exporter as global trace provider.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	return install(serviceName, serviceVersion, exporter, nil)
}

func install(serviceName, serviceVersion string, exporter sdktrace.SpanExporter, f *os.File) error {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return errors.WithStack(err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)

	mu.Lock()
	defer mu.Unlock()
	_ = shutdown(context.Background())
	provider, output = tp, f
	otel.SetTracerProvider(tp)

	return nil
}

// Shutdown flushes and stops the provider installed by Init, closes trace file
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	return shutdown(ctx)
}

func shutdown(ctx context.Context) error {
	var err error
	if provider != nil {
		err = provider.Shutdown(ctx)
		provider = nil
	}

	if output != nil {
		if cerr := output.Close(); err == nil {
			err = cerr
		}
		output = nil
	}

	return errors.WithStack(err)
}

// Start opens internal span
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentation).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records status of span and closes it
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

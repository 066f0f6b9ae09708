// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package telemetry sets up OpenTelemetry tracing for pipeline runs.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names accepted by --trace.
const (
	ExporterNone   = ""
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// ServiceName identifies codebrief spans.
const ServiceName = "codebrief"

// Config selects where spans go.
type Config struct {
	// Exporter is ExporterNone, ExporterStdout or ExporterOTLP.
	Exporter string

	// Endpoint is the OTLP gRPC collector address, e.g. localhost:4317.
	Endpoint string

	// Writer receives stdout exporter output. It defaults to stderr so
	// command output stays clean.
	Writer io.Writer

	Version string
}

// Init installs a tracer provider and returns its tracer plus a shutdown
// function that flushes pending spans. With no exporter the tracer is a
// no-op and shutdown does nothing.
func Init(ctx context.Context, cfg Config) (trace.Tracer, func(), error) {
	if cfg.Exporter == ExporterNone {
		return noop.NewTracerProvider().Tracer(ServiceName), func() {}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case ExporterOTLP:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create OTLP trace exporter: %w", err)
		}
	case ExporterStdout:
		opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
		if cfg.Writer != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.Writer))
		}
		exporter, err = stdouttrace.New(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unknown trace exporter %q (must be stdout or otlp)", cfg.Exporter)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Warn("trace provider shutdown failed", "error", err)
		}
	}
	return tp.Tracer(ServiceName), shutdown, nil
}

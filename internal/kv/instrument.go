// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/yaruki/internal/metrics"
	"github.com/ManuGH/yaruki/internal/telemetry"
)

// Operation names used for metrics and spans.
const (
	OpPut  = "put"
	OpGet  = "get"
	OpList = "list"
	OpPing = "ping"
)

type instrumented struct {
	next    Store
	backend string
	tracer  trace.Tracer
}

// Instrument wraps s so every call records Prometheus metrics and a span.
func Instrument(s Store) Store {
	return &instrumented{
		next:    s,
		backend: BackendOf(s),
		tracer:  telemetry.Tracer("yaruki/kv"),
	}
}

func (s *instrumented) Backend() string { return s.backend }

func (s *instrumented) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	ctx, span := s.tracer.Start(ctx, "kv."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.StoreAttributes(s.backend, op)...),
		trace.WithAttributes(attrs...),
	)
	return ctx, span, time.Now()
}

func (s *instrumented) finish(span trace.Span, op string, started time.Time, err error) {
	metrics.ObserveStoreOp(s.backend, op, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *instrumented) Put(ctx context.Context, key, value string) error {
	ctx, span, started := s.start(ctx, OpPut, attribute.String(telemetry.StoreKeyKey, key))
	err := s.next.Put(ctx, key, value)
	s.finish(span, OpPut, started, err)
	return err
}

func (s *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span, started := s.start(ctx, OpGet, attribute.String(telemetry.StoreKeyKey, key))
	v, found, err := s.next.Get(ctx, key)
	span.SetAttributes(attribute.Bool("kv.found", found))
	s.finish(span, OpGet, started, err)
	return v, found, err
}

func (s *instrumented) List(ctx context.Context, prefix string) ([]Key, error) {
	ctx, span, started := s.start(ctx, OpList, attribute.String(telemetry.StorePrefixKey, prefix))
	keys, err := s.next.List(ctx, prefix)
	span.SetAttributes(attribute.Int(telemetry.StoreCountKey, len(keys)))
	s.finish(span, OpList, started, err)
	return keys, err
}

func (s *instrumented) Ping(ctx context.Context) error {
	ctx, span, started := s.start(ctx, OpPing)
	err := s.next.Ping(ctx)
	s.finish(span, OpPing, started, err)
	return err
}

func (s *instrumented) Close() error { return s.next.Close() }

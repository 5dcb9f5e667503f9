// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package states records timestamped state values and reads them back by key prefix.
package states

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	xlog "github.com/ManuGH/yaruki/internal/log"
	"github.com/ManuGH/yaruki/internal/kv"
	"github.com/ManuGH/yaruki/internal/metrics"
	"github.com/ManuGH/yaruki/internal/statekey"
)

// DefaultFanOut bounds concurrent value fetches in List.
const DefaultFanOut = 16

// Record is a state that was just written.
type Record struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// Result is one entry returned by List. Value is nil when the key vanished
// between listing and fetching; Timestamp is nil when the key suffix is not an
// integer.
type Result struct {
	Key       string  `json:"key"`
	Value     *string `json:"value"`
	Timestamp *int64  `json:"timestamp"`
}

// Service implements the record and list operations on a kv.Store.
type Service struct {
	store  kv.Store
	now    func() time.Time
	loc    *time.Location
	fanOut int
	logger zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone used for the sortable key segment.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithFanOut bounds concurrent fetches in List. Values below 1 are ignored.
func WithFanOut(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.fanOut = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service. Without WithLocation keys are encoded in Asia/Tokyo.
func New(store kv.Store, opts ...Option) (*Service, error) {
	s := &Service{
		store:  store,
		now:    time.Now,
		fanOut: DefaultFanOut,
		logger: xlog.WithComponent("states"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		loc, err := statekey.LoadZone(statekey.DefaultZone)
		if err != nil {
			return nil, err
		}
		s.loc = loc
	}
	return s, nil
}

// Record stores value under a key derived from the current time.
func (s *Service) Record(ctx context.Context, value string) (Record, error) {
	now := s.now()
	key := statekey.Encode(now, s.loc)

	err := s.store.Put(ctx, key, value)
	metrics.RecordStateWrite(err)
	if err != nil {
		return Record{}, fmt.Errorf("record state: %w", err)
	}

	s.logger.Debug().
		Str(xlog.FieldEvent, "state.recorded").
		Str(xlog.FieldKey, key).
		Msg("state recorded")

	return Record{Key: key, Value: value, Timestamp: now.UnixMilli()}, nil
}

// List returns every record whose key starts with prefix, in key order. Values
// are fetched concurrently; any store error fails the whole call.
func (s *Service) List(ctx context.Context, prefix string) ([]Result, error) {
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	results := make([]Result, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut)
	for i, k := range keys {
		g.Go(func() error {
			v, found, err := s.store.Get(gctx, k.Name)
			if err != nil {
				return fmt.Errorf("get %q: %w", k.Name, err)
			}
			r := Result{Key: k.Name}
			if found {
				r.Value = &v
			}
			if ts, err := statekey.DecodeTimestamp(k.Name); err == nil {
				r.Timestamp = &ts
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.ObserveListResults(len(results))
	s.logger.Debug().
		Str(xlog.FieldEvent, "state.listed").
		Str(xlog.FieldPrefix, prefix).
		Int(xlog.FieldCount, len(results)).
		Msg("states listed")

	return results, nil
}

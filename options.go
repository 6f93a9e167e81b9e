// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"github.com/go-kit/log"
	"github.com/gogama/sindex/predicate"
)

type options struct {
	backend   Backend
	cfg       *Config
	logger    log.Logger
	metrics   *Metrics
	evaluator predicate.Evaluator
}

// Option configures Build.
type Option func(*options)

// WithBackend builds the index with b instead of the process-wide
// backend chosen by SelectBackend.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithConfig replaces the environment configuration. If no backend is
// given with WithBackend, the backend is chosen from cfg.Backend among
// the available backends, and the STR-tree node size is cfg.NodeSize.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithLogger sets the logger. If nil is passed, log.NewNopLogger is
// used.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = log.NewNopLogger()
		}
		o.logger = l
	}
}

// WithMetrics records builds and queries in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithEvaluator sets the evaluator used to refine query candidates. If
// nil is passed, or WithEvaluator is not used, the evaluator named by
// Config.Evaluator is used, which is predicate.Planar{} by default.
func WithEvaluator(e predicate.Evaluator) Option {
	return func(o *options) {
		o.evaluator = e
	}
}

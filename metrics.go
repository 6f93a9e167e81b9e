// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"github.com/gogama/sindex/predicate"
	"github.com/prometheus/client_golang/prometheus"
)

// Query kinds used as the "kind" label of sindex_queries_total.
const (
	queryKindBox  = "box"
	queryKindGeom = "geometry"
	queryKindBulk = "bulk"
)

// Metrics holds the Prometheus metrics of every index built with it.
// A nil *Metrics records nothing.
type Metrics struct {
	Builds            *prometheus.CounterVec
	IndexedGeometries prometheus.Gauge
	Queries           *prometheus.CounterVec
	QueryCandidates   prometheus.Counter
	QueryMatches      prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sindex_builds_total",
		Help: "Total spatial indexes built",
	}, []string{"backend"})

	indexed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sindex_indexed_geometries",
		Help: "Number of geometries in the most recently built index",
	})

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sindex_queries_total",
		Help: "Total spatial index queries",
	}, []string{"kind", "predicate"})

	candidates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sindex_query_candidates_total",
		Help: "Total bounding-box candidates found by the tree",
	})

	matches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sindex_query_matches_total",
		Help: "Total query results returned after predicate refinement",
	})

	reg.MustRegister(builds, indexed, queries, candidates, matches)

	return &Metrics{
		Builds:            builds,
		IndexedGeometries: indexed,
		Queries:           queries,
		QueryCandidates:   candidates,
		QueryMatches:      matches,
	}
}

func (m *Metrics) observeBuild(kind BackendKind, size int) {
	if m == nil {
		return
	}
	m.Builds.WithLabelValues(kind.String()).Inc()
	m.IndexedGeometries.Set(float64(size))
}

func (m *Metrics) observeQuery(kind string, p predicate.Predicate, candidates, matches int) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(kind, p.String()).Inc()
	m.QueryCandidates.Add(float64(candidates))
	m.QueryMatches.Add(float64(matches))
}

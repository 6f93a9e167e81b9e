// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"testing"

	"github.com/go-kit/log"
	"github.com/gogama/sindex/packedrtree"
	"github.com/gogama/sindex/predicate"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	idx := mustBuild[string](t, threePoints, WithConfig(testConfig), WithBackend(bruteBackend{}), WithMetrics(m), WithLogger(log.NewNopLogger()))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("BackendKind(99)")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IndexedGeometries))

	idx.QueryBox(packedrtree.Box{XMin: 0, YMin: 0, XMax: 6, YMax: 6})
	_, err := idx.Query(orb.LineString{{0, 0}, {10, 0}}, predicate.Intersects)
	require.NoError(t, err)
	_, err = idx.Query(orb.Bound{Min: orb.Point{4, 4}, Max: orb.Point{11, 11}}, predicate.Contains)
	require.NoError(t, err)
	_, _, err = idx.QueryBulk([]orb.Geometry{orb.Point{0, 0}, orb.Point{10, 10}}, predicate.Touches)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("box", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("geometry", "intersects")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("geometry", "none")), "bounds ignore the predicate")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("bulk", "touches")))
	// Candidates: 2 box + 1 line + 2 bound + 2 bulk.
	assert.Equal(t, 7.0, testutil.ToFloat64(m.QueryCandidates))
	// Matches: 2 box + 1 line + 2 bound + 0 bulk.
	assert.Equal(t, 5.0, testutil.ToFloat64(m.QueryMatches))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 1+1+4+1+1, n)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.observeBuild(BackendSTRTree, 10)
		m.observeQuery(queryKindBox, predicate.None, 1, 1)
	})
}

// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sindex provides build-once, query-many spatial indexes over
// ordered sets of two-dimensional orb geometries.
//
// Build filters out null and empty geometries, bulk loads a tree over
// the bounding boxes of the rest, and keeps the caller's identifiers.
// Queries take either a box, which is answered by the tree alone, or a
// geometry plus a predicate.Predicate, in which case the tree's box
// candidates are refined by evaluating the predicate with the query
// geometry as the left operand:
//
//	idx, err := sindex.Build(sindex.Entries[string]{
//		{ID: "a", Geometry: orb.Point{0, 0}},
//		{ID: "b", Geometry: orb.Point{5, 5}},
//	})
//	ids, err := idx.Query(polygon, predicate.Contains)
//
// # Backends
//
// Two tree implementations are available: a static packed R-tree bulk
// loaded in sort-tile-recursive order (preferred; SINDEX_LEAF_ORDER=hilbert
// orders its leaves along a Hilbert curve instead), and a dynamic R-tree
// (fallback). Either can be left out of a binary with the build tags
// sindex_nostrtree and sindex_nortree, and the SINDEX_BACKEND
// environment variable narrows the choice. The backend is chosen once
// per process; if none is available a warning is logged,
// HasSpatialIndexSupport returns false and Build returns
// ErrNoBackendAvailable.
//
// # Predicates
//
// Candidates are refined by predicate.Planar unless WithEvaluator or
// SINDEX_EVALUATOR says otherwise. SINDEX_EVALUATOR=exact selects
// predicate.Exact, which computes exact DE-9IM relations but rejects
// invalid polygons with an error.
//
// # Concurrency
//
// Building reads the GeometrySet once and must not race with changes
// to it. A built Index is immutable, so any number of goroutines may
// query it at once. Rebuilding produces a new Index; callers that swap
// indexes under running queries must synchronize the swap themselves.
package sindex

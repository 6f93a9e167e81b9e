// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gogama/sindex/packedrtree"
	"github.com/gogama/sindex/predicate"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// Index is an immutable spatial index over a snapshot of a
// GeometrySet. It is safe for concurrent queries.
//
// An Index never sees later changes to the set it was built from. To
// reflect changes, build a new Index and discard the old one.
type Index[K comparable] struct {
	kind    BackendKind
	tree    Tree
	entries []Entry[K]
	indexed *roaring.Bitmap
	bounds  packedrtree.Box
	eval    predicate.Evaluator
	logger  log.Logger
	metrics *Metrics
	cfg     Config
}

// Match is one result of an object-mode query: the identifier and the
// geometry the index holds for it.
type Match[K comparable] struct {
	ID       K
	Geometry orb.Geometry
}

// Build builds an index over every non-null, non-empty geometry in
// set. Identifiers are kept as given. A set with no usable geometries
// yields an empty index, not an error.
//
// Build returns ErrNoBackendAvailable if no backend is available.
func Build[K comparable](set GeometrySet[K], opts ...Option) (*Index[K], error) {
	o := options{
		logger: defaultLogger,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var cfg Config
	backend := o.backend
	if o.cfg != nil {
		cfg = *o.cfg
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if backend == nil {
			var ok bool
			if backend, ok = selectBackend(cfg, availableBackends, o.logger); !ok {
				return nil, ErrNoBackendAvailable
			}
		}
	} else {
		cfg = processConfig()
		if backend == nil {
			var ok bool
			if backend, ok = SelectBackend(); !ok {
				return nil, ErrNoBackendAvailable
			}
		}
	}

	if o.evaluator == nil {
		o.evaluator = cfg.evaluator()
	}

	n := set.Len()
	idx := &Index[K]{
		kind:    backend.Kind(),
		entries: make([]Entry[K], 0, n),
		indexed: roaring.New(),
		bounds:  packedrtree.EmptyBox,
		eval:    o.evaluator,
		logger:  o.logger,
		metrics: o.metrics,
		cfg:     cfg,
	}
	boxes := make([]packedrtree.Box, 0, n)
	for i := 0; i < n; i++ {
		id, g := set.At(i)
		b, err := BoundsOf(g)
		if err != nil {
			continue
		}
		idx.entries = append(idx.entries, Entry[K]{ID: id, Geometry: g})
		idx.indexed.Add(uint32(i))
		idx.bounds.Expand(&b)
		boxes = append(boxes, b)
	}
	if len(boxes) > 0 {
		idx.tree = backend.Build(boxes)
	}

	level.Debug(idx.logger).Log("msg", "built spatial index", "backend", idx.kind, "size", len(boxes), "skipped", n-len(boxes))
	idx.metrics.observeBuild(idx.kind, len(boxes))
	return idx, nil
}

// Size returns the number of indexed geometries.
func (idx *Index[K]) Size() int {
	return len(idx.entries)
}

// IsEmpty reports whether the index holds no geometries.
func (idx *Index[K]) IsEmpty() bool {
	return len(idx.entries) == 0
}

// Bounds returns the box around every indexed geometry, or
// packedrtree.EmptyBox if the index is empty.
func (idx *Index[K]) Bounds() packedrtree.Box {
	return idx.bounds
}

// Backend returns the kind of tree the index was built with.
func (idx *Index[K]) Backend() BackendKind {
	return idx.kind
}

// Indexed returns the set positions, in the GeometrySet the index was
// built from, of the geometries that were indexed. The caller owns the
// returned bitmap.
func (idx *Index[K]) Indexed() *roaring.Bitmap {
	return idx.indexed.Clone()
}

// Tracks reports whether the geometry at set position pos was indexed.
// Null and empty geometries are not.
func (idx *Index[K]) Tracks(pos int) bool {
	return pos >= 0 && uint64(pos) <= uint64(^uint32(0)) && idx.indexed.Contains(uint32(pos))
}

// ValidQueryPredicates returns the predicates queries accept.
func (idx *Index[K]) ValidQueryPredicates() []predicate.Predicate {
	return predicate.All()
}

func (idx *Index[K]) String() string {
	return fmt.Sprintf("Index{Backend:%s,Size:%d,Bounds:%s}", idx.kind, len(idx.entries), idx.bounds)
}

// QueryBox returns the identifiers of every geometry whose bounding
// box intersects b. Touching boxes intersect.
func (idx *Index[K]) QueryBox(b packedrtree.Box) []K {
	hits := idx.candidates(b)
	idx.metrics.observeQuery(queryKindBox, predicate.None, len(hits), len(hits))
	return idx.ids(hits)
}

// Query returns the identifiers of the indexed geometries matching g.
//
// If g is an orb.Bound, Query behaves like QueryBox and p is ignored:
// a bound is a box, not a geometry, and only the tree's box test
// applies to it. Pass b.ToPolygon() to refine a box with a predicate.
//
// Otherwise Query finds the geometries whose bounding boxes intersect
// g's and, unless p is predicate.None, keeps those for which p holds
// with g as the left operand and the candidate as the right one. With
// predicate.None the box test is the final answer, so results may
// include geometries that do not actually intersect g.
//
// Query returns ErrInvalidQueryArgument if g is nil or a collection
// holding nil, and ErrUnsupportedPredicate if p is not valid.
// An empty geometry matches nothing. The order of the results is
// fixed for a given index and query but is otherwise unspecified.
func (idx *Index[K]) Query(g orb.Geometry, p predicate.Predicate) ([]K, error) {
	hits, err := idx.query(queryKindGeom, g, p)
	if err != nil {
		return nil, err
	}
	return idx.ids(hits), nil
}

// QueryObjects is like Query but returns each match together with the
// geometry the index holds for it.
func (idx *Index[K]) QueryObjects(g orb.Geometry, p predicate.Predicate) ([]Match[K], error) {
	hits, err := idx.query(queryKindGeom, g, p)
	if err != nil {
		return nil, err
	}
	return idx.matches(hits), nil
}

// QueryBulk runs Query for every geometry in gs and returns the
// results as two parallel slices with one element per match: inputs
// holds the position in gs of the query geometry and ids the
// identifier it matched. An input with no matches contributes nothing.
//
// Results are grouped by ascending input position, and within a group
// are in the order Query would return them. Large batches are spread
// across goroutines. All inputs are checked before any is queried; an
// invalid one fails the whole call with an error wrapping
// ErrInvalidQueryArgument that names its position.
func (idx *Index[K]) QueryBulk(gs []orb.Geometry, p predicate.Predicate) (inputs []int, ids []K, err error) {
	if !p.Valid() {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
	}
	for i := range gs {
		if err = checkQueryArg(gs[i]); err != nil {
			return nil, nil, wrapErr("input %d", err, i)
		}
	}

	results := make([][]int, len(gs))
	candidates := make([]int, len(gs))
	run := func(i int) error {
		hits, n, err := idx.match(gs[i], p)
		if err != nil {
			return wrapErr("input %d", err, i)
		}
		results[i], candidates[i] = hits, n
		return nil
	}

	workers := idx.cfg.BulkWorkers
	if workers > 1 && len(gs) > 1 && len(gs) >= idx.cfg.BulkParallelThreshold {
		var eg errgroup.Group
		eg.SetLimit(workers)
		chunk := (len(gs) + workers - 1) / workers
		for start := 0; start < len(gs); start += chunk {
			start, end := start, min(start+chunk, len(gs))
			eg.Go(func() error {
				for i := start; i < end; i++ {
					if err := run(i); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err = eg.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for i := range gs {
			if err = run(i); err != nil {
				return nil, nil, err
			}
		}
	}

	var total, numCandidates int
	for i := range results {
		total += len(results[i])
		numCandidates += candidates[i]
	}
	inputs = make([]int, 0, total)
	ids = make([]K, 0, total)
	for i := range results {
		for _, hit := range results[i] {
			inputs = append(inputs, i)
			ids = append(ids, idx.entries[hit].ID)
		}
	}
	idx.metrics.observeQuery(queryKindBulk, p, numCandidates, total)
	return inputs, ids, nil
}

// Intersection returns the identifiers of every geometry whose bounding
// box intersects b.
func (idx *Index[K]) Intersection(b orb.Bound) []K {
	return idx.QueryBox(boxOf(b))
}

// IntersectionObjects is like Intersection but returns each match
// together with its geometry.
func (idx *Index[K]) IntersectionObjects(b orb.Bound) []Match[K] {
	hits := idx.candidates(boxOf(b))
	idx.metrics.observeQuery(queryKindBox, predicate.None, len(hits), len(hits))
	return idx.matches(hits)
}

// Contains returns the identifiers of the geometries that g contains.
// Unlike Query, an orb.Bound argument is treated as the rectangle it
// describes and refined with predicate.Contains.
func (idx *Index[K]) Contains(g orb.Geometry) ([]K, error) {
	if b, ok := g.(orb.Bound); ok {
		if c := boxOf(b); c.IsEmpty() {
			return []K{}, nil
		}
		g = boundGeometry(b)
	}
	return idx.Query(g, predicate.Contains)
}

func checkQueryArg(g orb.Geometry) error {
	if _, ok := g.(orb.Bound); ok {
		return nil
	} else if g == nil {
		return fmtErr("%w: nil geometry", ErrInvalidQueryArgument)
	} else if !Recognized(g) {
		return fmtErr("%w: %T holds a nil geometry", ErrInvalidQueryArgument, g)
	}
	return nil
}

func (idx *Index[K]) query(kind string, g orb.Geometry, p predicate.Predicate) ([]int, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
	} else if err := checkQueryArg(g); err != nil {
		return nil, err
	}
	hits, n, err := idx.match(g, p)
	if err != nil {
		return nil, err
	}
	if _, ok := g.(orb.Bound); ok {
		p = predicate.None
	}
	idx.metrics.observeQuery(kind, p, n, len(hits))
	return hits, nil
}

// match returns the entry positions matching a checked query argument,
// and the number of tree candidates considered.
func (idx *Index[K]) match(g orb.Geometry, p predicate.Predicate) ([]int, int, error) {
	if b, ok := g.(orb.Bound); ok {
		hits := idx.candidates(boxOf(b))
		return hits, len(hits), nil
	}
	b, err := BoundsOf(g)
	if err != nil {
		return []int{}, 0, nil
	}
	hits := idx.candidates(b)
	n := len(hits)
	if p == predicate.None {
		return hits, n, nil
	}
	kept := hits[:0]
	for _, hit := range hits {
		ok, err := idx.eval.Evaluate(p, g, idx.entries[hit].Geometry)
		if err != nil {
			return nil, n, err
		} else if ok {
			kept = append(kept, hit)
		}
	}
	return kept, n, nil
}

// candidates returns the entry positions whose boxes intersect b, in
// tree order.
func (idx *Index[K]) candidates(b packedrtree.Box) []int {
	hits := make([]int, 0)
	if idx.tree == nil || b.IsEmpty() {
		return hits
	}
	idx.tree.Search(b, func(pos int) bool {
		hits = append(hits, pos)
		return true
	})
	return hits
}

func (idx *Index[K]) ids(hits []int) []K {
	ids := make([]K, len(hits))
	for i, hit := range hits {
		ids[i] = idx.entries[hit].ID
	}
	return ids
}

func (idx *Index[K]) matches(hits []int) []Match[K] {
	ms := make([]Match[K], len(hits))
	for i, hit := range hits {
		ms[i] = Match[K]{ID: idx.entries[hit].ID, Geometry: idx.entries[hit].Geometry}
	}
	return ms
}

// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package predicate

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultEpsilon is the tolerance Planar uses when its Epsilon field is
// zero.
const DefaultEpsilon = 1e-9

// Planar evaluates predicates between planar orb geometries.
//
// Each operand is reduced to points, line strings and polygons. The
// evaluator then builds a finite set of sample points from both
// operands: every vertex, every point where an edge of one operand
// meets an edge of the other, the midpoint of every edge piece between
// two such points, and one interior point per polygon. Classifying the
// samples as interior, boundary or exterior to each operand is enough
// to decide the DE-9IM relations behind each predicate.
//
// Components of a multi-geometry or collection are located
// independently, so a point on an edge shared by two polygons of the
// same MultiPolygon is treated as boundary, not interior.
//
// The zero value is ready to use and is safe for concurrent use.
type Planar struct {
	// Epsilon is the largest distance at which a point is considered
	// to lie on a segment or to coincide with another point. Zero means
	// DefaultEpsilon.
	Epsilon float64
}

// Evaluate reports whether predicate p holds with a as the left
// operand and b as the right one. None always holds. If either operand
// is nil or empty, every other predicate is false.
func (pl Planar) Evaluate(p Predicate, a, b orb.Geometry) (bool, error) {
	if !p.Valid() {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
	} else if p == None {
		return true, nil
	}

	eps := pl.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	r := newRelation(a, b, eps)
	if r == nil {
		return false, nil
	}

	switch p {
	case Intersects:
		return r.intersects(), nil
	case Within:
		return r.transpose().contains(), nil
	case Contains:
		return r.contains(), nil
	case Overlaps:
		return r.overlaps(), nil
	case Crosses:
		return r.crosses(), nil
	case Touches:
		return r.intersects() && !r.interiorsIntersect(), nil
	case Covers:
		return r.covers(), nil
	case CoveredBy:
		return r.transpose().covers(), nil
	case ContainsProperly:
		return r.containsProperly(), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
	}
}

type location uint8

const (
	exterior location = iota
	boundary
	interior
)

type sampleKind uint8

const (
	// kindPoint is a point component.
	kindPoint sampleKind = iota
	// kindVertex is a vertex or a cut point on an edge.
	kindVertex
	// kindMid is the midpoint of an edge piece between two cuts.
	kindMid
	// kindInner is a point strictly inside a polygon.
	kindInner
)

type sample struct {
	p    orb.Point
	kind sampleKind
}

// shape is a geometry reduced to its point, line and polygon parts.
type shape struct {
	points []orb.Point
	lines  []orb.LineString
	polys  []orb.Polygon
}

func newShape(g orb.Geometry) *shape {
	s := &shape{}
	s.add(g)
	return s
}

func (s *shape) add(g orb.Geometry) {
	switch g := g.(type) {
	case orb.Point:
		s.points = append(s.points, g)
	case orb.MultiPoint:
		s.points = append(s.points, g...)
	case orb.LineString:
		s.addLine(g)
	case orb.MultiLineString:
		for i := range g {
			s.addLine(g[i])
		}
	case orb.Ring:
		s.addPolygon(orb.Polygon{g})
	case orb.Polygon:
		s.addPolygon(g)
	case orb.MultiPolygon:
		for i := range g {
			s.addPolygon(g[i])
		}
	case orb.Bound:
		s.addBound(g)
	case orb.Collection:
		for i := range g {
			s.add(g[i])
		}
	}
}

func (s *shape) addLine(ls orb.LineString) {
	ls = dedupe(ls)
	switch len(ls) {
	case 0:
	case 1:
		s.points = append(s.points, ls[0])
	default:
		s.lines = append(s.lines, ls)
	}
}

func (s *shape) addPolygon(p orb.Polygon) {
	if len(p) == 0 {
		return
	}
	outer := closeRing(p[0])
	if len(outer) < 4 || planar.Area(outer) == 0 {
		s.addLine(orb.LineString(outer))
		return
	}
	poly := orb.Polygon{outer}
	for _, hole := range p[1:] {
		hole = closeRing(hole)
		if len(hole) >= 4 && planar.Area(hole) != 0 {
			poly = append(poly, hole)
		}
	}
	s.polys = append(s.polys, poly)
}

func (s *shape) addBound(b orb.Bound) {
	switch {
	case b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1]:
	case b.Min == b.Max:
		s.points = append(s.points, b.Min)
	case b.Min[0] == b.Max[0] || b.Min[1] == b.Max[1]:
		s.lines = append(s.lines, orb.LineString{b.Min, b.Max})
	default:
		s.polys = append(s.polys, b.ToPolygon())
	}
}

func (s *shape) isEmpty() bool {
	return len(s.points) == 0 && len(s.lines) == 0 && len(s.polys) == 0
}

// dim returns the highest topological dimension among the parts.
func (s *shape) dim() int {
	switch {
	case len(s.polys) > 0:
		return 2
	case len(s.lines) > 0:
		return 1
	case len(s.points) > 0:
		return 0
	default:
		return -1
	}
}

// eachEdge calls fn for every segment of every line and polygon ring.
func (s *shape) eachEdge(fn func(c, d orb.Point)) {
	for _, ls := range s.lines {
		for i := 0; i+1 < len(ls); i++ {
			fn(ls[i], ls[i+1])
		}
	}
	for _, poly := range s.polys {
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				fn(ring[i], ring[i+1])
			}
		}
	}
}

func (s *shape) locate(p orb.Point, eps float64) location {
	loc := exterior
	for i := range s.polys {
		switch locatePolygon(p, s.polys[i], eps) {
		case interior:
			return interior
		case boundary:
			loc = boundary
		}
	}
	for i := range s.lines {
		switch locateLine(p, s.lines[i], eps) {
		case interior:
			return interior
		case boundary:
			loc = boundary
		}
	}
	for i := range s.points {
		if near(p, s.points[i], eps) {
			return interior
		}
	}
	return loc
}

func locatePolygon(p orb.Point, poly orb.Polygon, eps float64) location {
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			if onSegment(p, ring[i], ring[i+1], eps) {
				return boundary
			}
		}
	}
	if !planar.RingContains(poly[0], p) {
		return exterior
	}
	for _, hole := range poly[1:] {
		if planar.RingContains(hole, p) {
			return exterior
		}
	}
	return interior
}

func locateLine(p orb.Point, ls orb.LineString, eps float64) location {
	last := len(ls) - 1
	if ls[0] != ls[last] && (near(p, ls[0], eps) || near(p, ls[last], eps)) {
		return boundary
	}
	for i := 0; i < last; i++ {
		if onSegment(p, ls[i], ls[i+1], eps) {
			return interior
		}
	}
	return exterior
}

// samples returns the sample points of s, with s's edges cut wherever
// they meet other.
func (s *shape) samples(other *shape, eps float64) []sample {
	out := make([]sample, 0, len(s.points)+8)
	for _, p := range s.points {
		out = append(out, sample{p, kindPoint})
	}
	for _, ls := range s.lines {
		out = appendPath(out, ls, other, eps)
	}
	for _, poly := range s.polys {
		for _, ring := range poly {
			out = appendPath(out, orb.LineString(ring), other, eps)
		}
		if p, ok := interiorPoint(poly); ok {
			out = append(out, sample{p, kindInner})
		}
	}
	return out
}

func appendPath(out []sample, path orb.LineString, other *shape, eps float64) []sample {
	ts := make([]float64, 0, 8)
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		ts = append(ts[:0], 0, 1)
		for _, p := range other.points {
			if onSegment(p, a, b, eps) {
				ts = append(ts, param(p, a, b))
			}
		}
		other.eachEdge(func(c, d orb.Point) {
			ts = appendCuts(ts, a, b, c, d, eps)
		})
		ts = uniq(ts)
		for j, t := range ts {
			out = append(out, sample{lerp(a, b, t), kindVertex})
			if j+1 < len(ts) {
				out = append(out, sample{lerp(a, b, (t+ts[j+1])/2), kindMid})
			}
		}
	}
	return out
}

// appendCuts appends the parameters along segment ab at which segment
// cd touches it.
func appendCuts(ts []float64, a, b, c, d orb.Point, eps float64) []float64 {
	r := sub(b, a)
	s := sub(d, c)
	rr := dot(r, r)
	if rr == 0 {
		return ts
	}
	denom := cross(r, s)
	if math.Abs(denom) > eps*math.Sqrt(rr*dot(s, s)) {
		qp := sub(c, a)
		t := cross(qp, s) / denom
		u := cross(qp, r) / denom
		tolT := eps / math.Sqrt(rr)
		tolU := eps / math.Sqrt(dot(s, s))
		if t >= -tolT && t <= 1+tolT && u >= -tolU && u <= 1+tolU {
			ts = append(ts, clamp01(t))
		}
		return ts
	}
	if onSegment(c, a, b, eps) {
		ts = append(ts, param(c, a, b))
	}
	if onSegment(d, a, b, eps) {
		ts = append(ts, param(d, a, b))
	}
	return ts
}

// interiorPoint finds a point strictly inside poly by scanning a
// horizontal line through the widest gap between vertex ordinates.
func interiorPoint(poly orb.Polygon) (orb.Point, bool) {
	var ys []float64
	for _, ring := range poly {
		for _, p := range ring {
			ys = append(ys, p[1])
		}
	}
	sort.Float64s(ys)
	var y, gap float64
	for i := 1; i < len(ys); i++ {
		if g := ys[i] - ys[i-1]; g > gap {
			gap = g
			y = (ys[i] + ys[i-1]) / 2
		}
	}
	if gap == 0 {
		return orb.Point{}, false
	}

	var xs []float64
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			p, q := ring[i], ring[i+1]
			if (p[1] > y) != (q[1] > y) {
				xs = append(xs, p[0]+(y-p[1])*(q[0]-p[0])/(q[1]-p[1]))
			}
		}
	}
	sort.Float64s(xs)
	var x, width float64
	for i := 0; i+1 < len(xs); i += 2 {
		if w := xs[i+1] - xs[i]; w > width {
			width = w
			x = (xs[i] + xs[i+1]) / 2
		}
	}
	if width == 0 {
		return orb.Point{}, false
	}
	return orb.Point{x, y}, true
}

// relation holds two non-empty shapes and their sample points.
type relation struct {
	a, b   *shape
	sa, sb []sample
	eps    float64
}

func newRelation(a, b orb.Geometry, eps float64) *relation {
	sa, sb := newShape(a), newShape(b)
	if sa.isEmpty() || sb.isEmpty() {
		return nil
	}
	return &relation{
		a:   sa,
		b:   sb,
		sa:  sa.samples(sb, eps),
		sb:  sb.samples(sa, eps),
		eps: eps,
	}
}

func (r *relation) transpose() *relation {
	return &relation{a: r.b, b: r.a, sa: r.sb, sb: r.sa, eps: r.eps}
}

func (r *relation) intersects() bool {
	for _, s := range r.sa {
		if r.b.locate(s.p, r.eps) != exterior {
			return true
		}
	}
	for _, s := range r.sb {
		if r.a.locate(s.p, r.eps) != exterior {
			return true
		}
	}
	return false
}

// interiorsIntersect reports whether the interiors of a and b meet. A
// boundary point of one operand inside the interior of an areal
// operand is enough, because interior points lie arbitrarily close to
// every boundary point.
func (r *relation) interiorsIntersect() bool {
	aAreal, bAreal := r.a.dim() == 2, r.b.dim() == 2
	for _, s := range r.sa {
		if r.b.locate(s.p, r.eps) == interior && (bAreal || r.a.locate(s.p, r.eps) == interior) {
			return true
		}
	}
	for _, s := range r.sb {
		if r.a.locate(s.p, r.eps) == interior && (aAreal || r.b.locate(s.p, r.eps) == interior) {
			return true
		}
	}
	return false
}

// interiorMeetsExterior reports whether the interior of r.a meets the
// exterior of r.b.
func (r *relation) interiorMeetsExterior() bool {
	if r.a.dim() > r.b.dim() {
		return true
	}
	for _, s := range r.sa {
		if r.b.locate(s.p, r.eps) == exterior {
			return true
		}
	}
	if r.a.dim() == 2 {
		for _, s := range r.sb {
			if s.kind != kindInner && r.a.locate(s.p, r.eps) == interior {
				return true
			}
		}
	}
	return false
}

// linesOverlap reports whether the interiors of a and b share a piece
// of positive length.
func (r *relation) linesOverlap() bool {
	for _, s := range r.sa {
		if s.kind == kindMid && r.b.locate(s.p, r.eps) == interior {
			return true
		}
	}
	return false
}

func (r *relation) covers() bool {
	return !r.transpose().interiorMeetsExterior()
}

func (r *relation) contains() bool {
	return r.covers() && r.interiorsIntersect()
}

func (r *relation) containsProperly() bool {
	for _, s := range r.sb {
		if r.a.locate(s.p, r.eps) != interior {
			return false
		}
	}
	for _, s := range r.sa {
		if r.a.locate(s.p, r.eps) == boundary && r.b.locate(s.p, r.eps) != exterior {
			return false
		}
	}
	return true
}

func (r *relation) overlaps() bool {
	d := r.a.dim()
	if d != r.b.dim() {
		return false
	}
	if d == 1 && !r.linesOverlap() {
		return false
	}
	return r.interiorsIntersect() && r.interiorMeetsExterior() && r.transpose().interiorMeetsExterior()
}

func (r *relation) crosses() bool {
	da, db := r.a.dim(), r.b.dim()
	switch {
	case da < db:
		return r.interiorsIntersect() && r.interiorMeetsExterior()
	case da > db:
		return r.interiorsIntersect() && r.transpose().interiorMeetsExterior()
	case da == 1:
		return r.interiorsIntersect() && !r.linesOverlap() && !r.transpose().linesOverlap()
	default:
		return false
	}
}

// uniq sorts ts and removes duplicates in place.
func uniq(ts []float64) []float64 {
	sort.Float64s(ts)
	n := 1
	for i := 1; i < len(ts); i++ {
		if ts[i] != ts[n-1] {
			ts[n] = ts[i]
			n++
		}
	}
	return ts[:n]
}

func dedupe(ls orb.LineString) orb.LineString {
	if len(ls) < 2 {
		return ls
	}
	out := make(orb.LineString, 1, len(ls))
	out[0] = ls[0]
	for _, p := range ls[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func closeRing(r orb.Ring) orb.Ring {
	r = orb.Ring(dedupe(orb.LineString(r)))
	if len(r) > 0 && r[0] != r[len(r)-1] {
		closed := make(orb.Ring, len(r), len(r)+1)
		copy(closed, r)
		r = append(closed, r[0])
	}
	return r
}

func near(p, q orb.Point, eps float64) bool {
	return math.Abs(p[0]-q[0]) <= eps && math.Abs(p[1]-q[1]) <= eps
}

func onSegment(p, a, b orb.Point, eps float64) bool {
	if p[0] < math.Min(a[0], b[0])-eps || p[0] > math.Max(a[0], b[0])+eps ||
		p[1] < math.Min(a[1], b[1])-eps || p[1] > math.Max(a[1], b[1])+eps {
		return false
	}
	r := sub(b, a)
	l := math.Hypot(r[0], r[1])
	if l == 0 {
		return near(p, a, eps)
	}
	return math.Abs(cross(r, sub(p, a)))/l <= eps
}

func param(p, a, b orb.Point) float64 {
	r := sub(b, a)
	return clamp01(dot(sub(p, a), r) / dot(r, r))
}

func lerp(a, b orb.Point, t float64) orb.Point {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

func sub(p, q orb.Point) orb.Point { return orb.Point{p[0] - q[0], p[1] - q[1]} }

func dot(p, q orb.Point) float64 { return p[0]*q[0] + p[1]*q[1] }

func cross(p, q orb.Point) float64 { return p[0]*q[1] - p[1]*q[0] }

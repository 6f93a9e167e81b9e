// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package predicate

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/peterstace/simplefeatures/geom"
)

// containsProperlyMatrix is the DE-9IM pattern of ContainsProperly.
const containsProperlyMatrix = "T**FF*FF*"

// Exact evaluates predicates with the exact DE-9IM relate operation of
// github.com/peterstace/simplefeatures.
//
// Operands are normalized the same way Planar normalizes them:
// unclosed rings are closed, rings with no area become line strings,
// and nil components of collections are dropped. The polygons of a
// multi-geometry are related as a collection, so they may overlap or
// share edges. Any other invalid geometry, such as a self-intersecting
// ring, makes Evaluate return an error.
//
// The zero value is ready to use and is safe for concurrent use.
type Exact struct{}

// Evaluate reports whether predicate p holds with a as the left
// operand and b as the right one. None always holds. If either operand
// is nil or empty, every other predicate is false.
func (Exact) Evaluate(p Predicate, a, b orb.Geometry) (bool, error) {
	if !p.Valid() {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
	} else if p == None {
		return true, nil
	}

	ga, err := toGeom(a)
	if err != nil {
		return false, err
	}
	gb, err := toGeom(b)
	if err != nil {
		return false, err
	}
	if ga.IsEmpty() || gb.IsEmpty() {
		return false, nil
	}

	switch p {
	case Intersects:
		return geom.Intersects(ga, gb), nil
	case Within:
		return geom.Within(ga, gb)
	case Contains:
		return geom.Contains(ga, gb)
	case Overlaps:
		return geom.Overlaps(ga, gb)
	case Crosses:
		return geom.Crosses(ga, gb)
	case Touches:
		return geom.Touches(ga, gb)
	case Covers:
		return geom.Covers(ga, gb)
	case CoveredBy:
		return geom.CoveredBy(ga, gb)
	case ContainsProperly:
		m, err := geom.Relate(ga, gb)
		if err != nil {
			return false, err
		}
		return geom.RelateMatches(m, containsProperlyMatrix)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedPredicate, p)
	}
}

// toGeom converts an orb geometry into a simplefeatures geometry by way
// of WKB.
func toGeom(g orb.Geometry) (geom.Geometry, error) {
	data, err := wkb.Marshal(newShape(g).geometry())
	if err != nil {
		return geom.Geometry{}, fmt.Errorf(packageName+"encoding %T: %w", g, err)
	}
	out, err := geom.UnmarshalWKB(data)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf(packageName+"decoding %T: %w", g, err)
	}
	return out, nil
}

// geometry returns the simplest orb geometry holding the parts of s.
func (s *shape) geometry() orb.Geometry {
	var c orb.Collection
	switch len(s.points) {
	case 0:
	case 1:
		c = append(c, s.points[0])
	default:
		c = append(c, orb.MultiPoint(s.points))
	}
	switch len(s.lines) {
	case 0:
	case 1:
		c = append(c, s.lines[0])
	default:
		c = append(c, orb.MultiLineString(s.lines))
	}
	for i := range s.polys {
		c = append(c, s.polys[i])
	}
	if len(c) == 1 {
		return c[0]
	}
	return c
}

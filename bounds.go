// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"github.com/gogama/sindex/packedrtree"
	"github.com/paulmach/orb"
)

// BoundsOf returns the axis-aligned bounding box of a geometry. It
// returns ErrEmptyGeometry if g is nil or has no coordinates.
func BoundsOf(g orb.Geometry) (packedrtree.Box, error) {
	b := packedrtree.EmptyBox
	expand(&b, g)
	if b.IsEmpty() {
		return b, ErrEmptyGeometry
	}
	return b, nil
}

// IsEmpty reports whether g is nil or has no coordinates. Empty
// geometries are never indexed.
func IsEmpty(g orb.Geometry) bool {
	_, err := BoundsOf(g)
	return err != nil
}

// Recognized reports whether queries accept g. Every orb geometry is
// accepted except nil and a Collection holding nil at any depth.
func Recognized(g orb.Geometry) bool {
	switch g := g.(type) {
	case nil:
		return false
	case orb.Collection:
		for i := range g {
			if !Recognized(g[i]) {
				return false
			}
		}
	}
	return true
}

func expand(b *packedrtree.Box, g orb.Geometry) {
	switch g := g.(type) {
	case nil:
	case orb.Point:
		b.ExpandXY(g[0], g[1])
	case orb.MultiPoint:
		expandPoints(b, g)
	case orb.LineString:
		expandPoints(b, g)
	case orb.MultiLineString:
		for i := range g {
			expandPoints(b, g[i])
		}
	case orb.Ring:
		expandPoints(b, g)
	case orb.Polygon:
		// Holes lie inside the outer ring.
		if len(g) > 0 {
			expandPoints(b, g[0])
		}
	case orb.MultiPolygon:
		for i := range g {
			if len(g[i]) > 0 {
				expandPoints(b, g[i][0])
			}
		}
	case orb.Bound:
		c := boxOf(g)
		if !c.IsEmpty() {
			b.Expand(&c)
		}
	case orb.Collection:
		for i := range g {
			expand(b, g[i])
		}
	}
}

func expandPoints(b *packedrtree.Box, ps []orb.Point) {
	for _, p := range ps {
		b.ExpandXY(p[0], p[1])
	}
}

func boxOf(b orb.Bound) packedrtree.Box {
	return packedrtree.Box{XMin: b.Min[0], YMin: b.Min[1], XMax: b.Max[0], YMax: b.Max[1]}
}

// boundGeometry converts a bound into the simplest geometry covering
// the same points.
func boundGeometry(b orb.Bound) orb.Geometry {
	switch {
	case b.Min == b.Max:
		return b.Min
	case b.Min[0] == b.Max[0] || b.Min[1] == b.Max[1]:
		return orb.LineString{b.Min, b.Max}
	default:
		return b.ToPolygon()
	}
}

// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import "github.com/paulmach/orb"

// A GeometrySet is an ordered sequence of geometries, each labelled
// with a caller-assigned identifier. Identifiers must be unique but
// need not be contiguous. A nil Geometry represents a null entry.
//
// The set must not change while Build reads it.
type GeometrySet[K comparable] interface {
	// Len returns the number of entries, including null and empty
	// ones.
	Len() int
	// At returns the identifier and geometry at position i, where
	// 0 <= i < Len().
	At(i int) (K, orb.Geometry)
}

// Entry is one element of a GeometrySet.
type Entry[K comparable] struct {
	ID       K
	Geometry orb.Geometry
}

// Entries is the slice implementation of GeometrySet.
type Entries[K comparable] []Entry[K]

// Len returns the number of entries.
func (es Entries[K]) Len() int {
	return len(es)
}

// At returns the identifier and geometry at position i.
func (es Entries[K]) At(i int) (K, orb.Geometry) {
	return es[i].ID, es[i].Geometry
}

// Without returns a copy of es with every entry whose ID is in ids
// removed. The receiver is not modified.
func (es Entries[K]) Without(ids ...K) Entries[K] {
	drop := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make(Entries[K], 0, len(es))
	for _, e := range es {
		if _, ok := drop[e.ID]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// FromGeometries labels each geometry with its position in gs.
func FromGeometries(gs []orb.Geometry) Entries[int] {
	es := make(Entries[int], len(gs))
	for i := range gs {
		es[i] = Entry[int]{ID: i, Geometry: gs[i]}
	}
	return es
}

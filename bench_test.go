// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-kit/log"
	"github.com/gogama/sindex/packedrtree"
	"github.com/gogama/sindex/predicate"
	"github.com/paulmach/orb"
)

var benchGeomTypes = []string{"mixed", "points", "polygons"}

// benchData returns reproducible point, polygon and mixed sets over a
// 1000x1000 plane.
func benchData() map[string][]orb.Geometry {
	r := rand.New(rand.NewSource(0))
	points := make([]orb.Geometry, 2000)
	for i := range points {
		points[i] = orb.Point{r.Float64() * 1000, r.Float64() * 1000}
	}
	polygons := make([]orb.Geometry, 500)
	for i := range polygons {
		polygons[i] = randomPolygon(r, 1000, 40)
	}
	mixed := make([]orb.Geometry, 0, len(points)/4+len(polygons))
	mixed = append(mixed, points[:len(points)/4]...)
	mixed = append(mixed, polygons...)
	return map[string][]orb.Geometry{
		"mixed":    mixed,
		"points":   points,
		"polygons": polygons,
	}
}

// randomPolygon returns a star-shaped polygon of up to size across.
func randomPolygon(r *rand.Rand, extent, size float64) orb.Polygon {
	cx, cy := r.Float64()*extent, r.Float64()*extent
	n := 5 + r.Intn(10)
	ring := make(orb.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		d := size / 2 * (0.3 + 0.7*r.Float64())
		ring = append(ring, orb.Point{cx + d*math.Cos(a), cy + d*math.Sin(a)})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

func benchIndexes(b *testing.B, data map[string][]orb.Geometry) map[string]*Index[int] {
	idxs := make(map[string]*Index[int], len(data))
	for name, gs := range data {
		idx, err := Build[int](FromGeometries(gs), WithLogger(log.NewNopLogger()))
		if err != nil {
			b.Fatal(err)
		}
		idxs[name] = idx
	}
	return idxs
}

func BenchmarkBuild(b *testing.B) {
	data := benchData()
	for _, tree := range benchGeomTypes {
		set := FromGeometries(data[tree])
		b.Run(tree, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Build[int](set, WithLogger(log.NewNopLogger())); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkIntersection(b *testing.B) {
	data := benchData()
	idxs := benchIndexes(b, data)
	for _, input := range benchGeomTypes {
		boxes := make([]packedrtree.Box, len(data[input]))
		for i, g := range data[input] {
			boxes[i], _ = BoundsOf(g)
		}
		for _, tree := range benchGeomTypes {
			idx := idxs[tree]
			b.Run(input+"/"+tree, func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					for j := range boxes {
						idx.QueryBox(boxes[j])
					}
				}
			})
		}
	}
}

func BenchmarkQuery(b *testing.B) {
	data := benchData()
	idxs := benchIndexes(b, data)
	for _, p := range predicate.All() {
		for _, input := range benchGeomTypes {
			for _, tree := range benchGeomTypes {
				idx, gs := idxs[tree], data[input]
				b.Run(p.String()+"/"+input+"/"+tree, func(b *testing.B) {
					for i := 0; i < b.N; i++ {
						for _, g := range gs {
							if _, err := idx.Query(g, p); err != nil {
								b.Fatal(err)
							}
						}
					}
				})
			}
		}
	}
}

func BenchmarkQueryBulk(b *testing.B) {
	data := benchData()
	idxs := benchIndexes(b, data)
	for _, p := range predicate.All() {
		for _, input := range benchGeomTypes {
			for _, tree := range benchGeomTypes {
				idx, gs := idxs[tree], data[input]
				b.Run(p.String()+"/"+input+"/"+tree, func(b *testing.B) {
					for i := 0; i < b.N; i++ {
						if _, _, err := idx.QueryBulk(gs, p); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		}
	}
}

// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !sindex_nortree

package sindex

import (
	"github.com/gogama/sindex/packedrtree"
	"github.com/tidwall/rtree"
)

func init() {
	registerBackend(BackendRTree, func(Config) Backend {
		return NewRTreeBackend()
	})
}

type rTreeBackend struct{}

// NewRTreeBackend returns a backend building dynamic R-trees, inserting
// every box in list order.
func NewRTreeBackend() Backend {
	return rTreeBackend{}
}

func (rTreeBackend) Kind() BackendKind {
	return BackendRTree
}

func (rTreeBackend) Build(boxes []packedrtree.Box) Tree {
	t := &rtree.RTreeG[int]{}
	for i := range boxes {
		t.Insert(
			[2]float64{boxes[i].XMin, boxes[i].YMin},
			[2]float64{boxes[i].XMax, boxes[i].YMax},
			i,
		)
	}
	return rTree{t}
}

type rTree struct {
	t *rtree.RTreeG[int]
}

func (t rTree) Search(b packedrtree.Box, fn func(pos int) bool) {
	t.t.Search(
		[2]float64{b.XMin, b.YMin},
		[2]float64{b.XMax, b.YMax},
		func(_, _ [2]float64, pos int) bool {
			return fn(pos)
		},
	)
}

func (t rTree) Len() int {
	return t.t.Len()
}

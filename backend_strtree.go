// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !sindex_nostrtree

package sindex

import "github.com/gogama/sindex/packedrtree"

func init() {
	registerBackend(BackendSTRTree, func(cfg Config) Backend {
		if cfg.LeafOrder == LeafOrderHilbert {
			return NewHilbertTreeBackend(cfg.NodeSize)
		}
		return NewSTRTreeBackend(cfg.NodeSize)
	})
}

type strTreeBackend struct {
	nodeSize uint16
	hilbert  bool
}

// NewSTRTreeBackend returns a backend building static packed R-trees
// with the given node size, leaves ordered sort-tile-recursive. Panics
// if nodeSize is less than 2.
func NewSTRTreeBackend(nodeSize uint16) Backend {
	if nodeSize < 2 {
		panic(packageName + "node size must be at least 2")
	}
	return strTreeBackend{nodeSize: nodeSize}
}

// NewHilbertTreeBackend is like NewSTRTreeBackend but orders the leaves
// along a Hilbert curve over the extent of the indexed boxes. Its kind
// is still BackendSTRTree.
func NewHilbertTreeBackend(nodeSize uint16) Backend {
	if nodeSize < 2 {
		panic(packageName + "node size must be at least 2")
	}
	return strTreeBackend{nodeSize: nodeSize, hilbert: true}
}

func (b strTreeBackend) Kind() BackendKind {
	return BackendSTRTree
}

func (b strTreeBackend) Build(boxes []packedrtree.Box) Tree {
	refs := make([]packedrtree.Ref, len(boxes))
	for i := range boxes {
		refs[i] = packedrtree.Ref{Box: boxes[i], Index: i}
	}
	if b.hilbert {
		extent := packedrtree.EmptyBox
		for i := range boxes {
			extent.Expand(&boxes[i])
		}
		packedrtree.HilbertSort(refs, extent)
	} else {
		packedrtree.STRSort(refs, b.nodeSize)
	}
	prt, err := packedrtree.New(refs, b.nodeSize)
	if err != nil {
		// Only possible when the node count overflows int, which would
		// have exhausted memory long before.
		panic(err)
	}
	return strTree{prt}
}

type strTree struct {
	prt *packedrtree.PackedRTree
}

func (t strTree) Search(b packedrtree.Box, fn func(pos int) bool) {
	t.prt.Visit(b, func(r packedrtree.Result) bool {
		return fn(r.Index)
	})
}

func (t strTree) Len() int {
	return t.prt.NumRefs()
}

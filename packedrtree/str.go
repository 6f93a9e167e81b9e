// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package packedrtree

import (
	"math"
	"sort"
)

// STRSort sorts a list of refs into Sort-Tile-Recursive order for a
// packed R-Tree with the given node size.
//
// The refs are sorted by the X-coordinate of their centers and cut
// into ceil(sqrt(P)) vertical slices, where P is the number of leaf
// groups needed to hold them; each slice is then sorted by the
// Y-coordinate of the centers. Packing the result nodeSize refs at a
// time yields leaf nodes that tile the plane with little overlap.
//
// The sort is stable, so refs with identical centers keep their
// relative input order. Panics if nodeSize is less than 2.
func STRSort(refs []Ref, nodeSize uint16) {
	if nodeSize < 2 {
		textPanic("node size must be at least 2")
	}
	n := len(refs)
	if n <= int(nodeSize) {
		sortByMidY(refs)
		return
	}

	numLeafGroups := (n + int(nodeSize) - 1) / int(nodeSize)
	numSlices := int(math.Ceil(math.Sqrt(float64(numLeafGroups))))
	sliceLen := numSlices * int(nodeSize)

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].midX() < refs[j].midX()
	})
	for start := 0; start < n; start += sliceLen {
		end := start + sliceLen
		if end > n {
			end = n
		}
		sortByMidY(refs[start:end])
	}
}

func sortByMidY(refs []Ref) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].midY() < refs[j].midY()
	})
}

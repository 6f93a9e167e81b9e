// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package packedrtree

import (
	"fmt"
	"math"
)

// DefaultNodeSize is the node size used when the caller has no
// particular preference.
const DefaultNodeSize uint16 = 16

// A Ref is a single item within the PackedRTree. Each Ref consists of
// the Box bounding the item plus the caller's Index for it, typically
// the item's position in some list the caller owns.
type Ref struct {
	Box

	// Index identifies the referenced item to the caller.
	Index int
}

// String returns a summary description of the Ref.
func (r Ref) String() string {
	return fmt.Sprintf("Ref{%s,Index:%d}", r.Box, r.Index)
}

// A node is a private version of Ref used to reduce confusion. A leaf
// node is exactly the same as a Ref and has the same meaning. A
// non-leaf node is subtly different: the Box is the extent of the
// entire subtree rooted at the non-leaf node; and the Index represents
// the node index of the node's first child node.
type node struct {
	Ref
}

func validateParams(numRefs int, nodeSize uint16) {
	if numRefs < 1 {
		textPanic("empty tree not allowed (num refs must be > 0)")
	} else if nodeSize < 2 {
		textPanic("node size must be at least 2")
	}
}

// totalNodes sums numRefs and numInternal, returning an error if
// integer overflow occurs.
func totalNodes(numRefs, numInternal int) (n int, err error) {
	if numInternal > math.MaxInt-numRefs {
		err = textErr("total node count overflows int")
	} else {
		n = numRefs + numInternal
	}
	return
}

// A levelRange represents the range of node indices that comprise a
// level. Each levelRange is a closed/open node index pair [start, end)
// where start is the index (into packedRTree's nodes list) of the first
// node in the level and end is the index that is one past the last node
// in the level.
type levelRange struct {
	start, end int
}

// levelify creates the list of levelRange structures which
// deterministically results from a given leaf node count (numRefs) and
// child node count (nodeSize).
//
// For example, assume numRefs = 4, nodeSize = 2. The output of this
// function will be [[3, 7], [1, 3], [0, 1]], where first item in the
// list represents the leaf node level, and the last item in the list is
// the root level.
func levelify(numRefs, nodeSize int) ([]levelRange, error) {
	// numInternal is the number of internal nodes in the tree, a number
	// strictly less than numRefs.
	var numInternal int

	// Generate a list of node counts per level, in the same order as
	// the final levelRange list, i.e. the leaf level 0 is first and the
	// root level is last.
	//
	// Keeping with the example numRefs = 4, nodeSize = 2, the result of
	// this logic is nodesPerLevel = [4, 2, 1].
	nodesThisLevel := numRefs
	nodesPerLevel := make([]int, 1, 16)
	nodesPerLevel[0] = nodesThisLevel
	for {
		nodesThisLevel = (nodesThisLevel + nodeSize - 1) / nodeSize
		nodesPerLevel = append(nodesPerLevel, nodesThisLevel)
		numInternal += nodesThisLevel
		if nodesThisLevel == 1 {
			break
		}
	}

	// Sum up the total number of nodes.
	numNodes, err := totalNodes(numRefs, numInternal)
	if err != nil {
		return nil, err
	}

	// Generate a list of node start indices per level, in the same
	// order as the final levelRange list.
	//
	// Keeping with the example numRefs = 4, nodeSize = 2, the result of
	// this logic is levelIndices = [3, 1, 0].
	levelIndices := make([]int, len(nodesPerLevel))
	nodesRemaining := numNodes
	for i := range nodesPerLevel {
		nodesRemaining -= nodesPerLevel[i]
		levelIndices[i] = nodesRemaining
	}

	// Generate and return the final list of levelRange structures.
	levels := make([]levelRange, len(levelIndices))
	for i := range levelIndices {
		levels[i].start = levelIndices[i]
		levels[i].end = levelIndices[i] + nodesPerLevel[i]
	}
	return levels, nil
}

// A ticket is a pending work item to be executed during a search loop.
type ticket struct {
	// nodeIndex is the index of the first node to search.
	nodeIndex int
	// level is the R-Tree level that nodeIndex belongs to. Recall that
	// level 0 contains the leaf nodes.
	level int
}

// A ticketBag is a stack of pending work items to be executed during a
// search loop. Popping from the top makes the traversal depth-first,
// which bounds the bag's size by the tree height times the node size.
type ticketBag []ticket

func (tb *ticketBag) push(t ticket) {
	*tb = append(*tb, t)
}

func (tb *ticketBag) pop() ticket {
	old := *tb
	n := len(old)
	t := old[n-1]
	*tb = old[0 : n-1]
	return t
}

// Result is a single index search result.
type Result struct {
	// Index is the Index field of the matching Ref.
	Index int
	// RefIndex is the position of the matching Ref in the sorted list
	// of Ref values passed to New when creating the PackedRTree.
	RefIndex int
}

// Results is a slice of Result structures which implements
// sort.Interface. The sort.Sort function will sort Results in
// ascending order of Result.Index.
type Results []Result

// Len returns the length of the slice. It implements the corresponding
// method of sort.Interface.
func (rs Results) Len() int {
	return len(rs)
}

// Less establishes an absolute ordering by ascending order of
// Result.Index. It implements the corresponding method of
// sort.Interface.
func (rs Results) Less(i, j int) bool {
	return rs[i].Index < rs[j].Index
}

// Swap swaps two elements of the slice. It implements the corresponding
// method of sort.Interface.
func (rs Results) Swap(i, j int) {
	rs[i], rs[j] = rs[j], rs[i]
}

// PackedRTree is a static packed R-Tree. The tree shape is determined
// entirely by the number of refs and the node size, and the leaf order
// by the order of the refs passed to New.
type PackedRTree struct {
	// numRefs is the number of leaf nodes, i.e. Ref values, in the
	// tree.
	numRefs int
	// nodeSize is the number of child nodes per parent node.
	nodeSize int
	// levels is the list of levelRange boundaries. The leaf nodes are
	// at levelRange 0 and the root node is at len(levels)-1.
	levels []levelRange
	// nodes is the complete list of nodes in the tree, including
	// internal and leaf nodes. The root is nodes[0].
	nodes []node
}

// New creates a new packed R-Tree from a non-empty, sorted list of refs
// and a given R-Tree node size. Panics if the reference list is empty
// or node size is less than 2.
//
// Use STRSort or HilbertSort to sort the refs first. An unsorted list
// still produces a correct tree, but one whose searches visit many more
// nodes.
func New(refs []Ref, nodeSize uint16) (*PackedRTree, error) {
	validateParams(len(refs), nodeSize)

	levels, err := levelify(len(refs), int(nodeSize))
	if err != nil {
		return nil, err
	}

	prt := &PackedRTree{
		numRefs:  len(refs),
		nodeSize: int(nodeSize),
		levels:   levels,
		nodes:    make([]node, levels[0].end),
	}

	// Save copies of the leaf nodes.
	i := prt.levels[0].start
	for j := range refs {
		prt.nodes[i] = node{refs[j]}
		i++
	}

	// Generate the internal nodes.
	for i = 0; i < len(prt.levels)-1; i++ {
		level := prt.levels[i]
		nodeIndex := level.start
		parentIndex := prt.levels[i+1].start
		for nodeIndex < level.end {
			parent := &prt.nodes[parentIndex]
			*parent = node{Ref: Ref{EmptyBox, nodeIndex}}
			var j int
			for {
				parent.Expand(&prt.nodes[nodeIndex].Box)
				j++
				nodeIndex++
				if j == prt.nodeSize || nodeIndex == level.end {
					break
				}
			}
			parentIndex++
		}
	}

	return prt, nil
}

// Bounds returns the bounding box around all refs in the tree.
func (prt *PackedRTree) Bounds() Box {
	return prt.nodes[0].Box
}

// NumRefs returns the number of refs stored in the tree.
func (prt *PackedRTree) NumRefs() int {
	return prt.numRefs
}

// NodeSize returns the child node count of the tree.
func (prt *PackedRTree) NodeSize() uint16 {
	return uint16(prt.nodeSize)
}

// Height returns the number of levels in the tree, including the leaf
// level and the root.
func (prt *PackedRTree) Height() int {
	return len(prt.levels)
}

// String returns a summary description of the tree.
func (prt *PackedRTree) String() string {
	return fmt.Sprintf("PackedRTree{Bounds:%s,NumRefs:%d,NodeSize:%d}", prt.Bounds(), prt.numRefs, prt.nodeSize)
}

// Search searches the tree for refs whose bounding boxes intersect the
// query box. The order of the results is not defined, but is the same
// every time a given tree is searched with a given box.
func (prt *PackedRTree) Search(b Box) Results {
	r := make(Results, 0)
	prt.Visit(b, func(res Result) bool {
		r = append(r, res)
		return true
	})
	return r
}

// Visit calls fn for each ref whose bounding box intersects the query
// box, in the same order Search would return them. Visiting stops
// early if fn returns false.
func (prt *PackedRTree) Visit(b Box, fn func(Result) bool) {
	q := make(ticketBag, 1, 2*prt.nodeSize)
	q[0] = ticket{nodeIndex: 0, level: len(prt.levels) - 1}
	leafStart := prt.levels[0].start

	for len(q) > 0 {
		// Pop the next work ticket from the top of the stack.
		t := q.pop()
		// Find the end node index to search this iteration and decide
		// if the target nodes to search are leaves.
		end := t.nodeIndex + prt.nodeSize
		if prt.levels[t.level].end < end {
			end = prt.levels[t.level].end
		}
		isLeafLevel := t.nodeIndex >= leafStart
		// Search the nodes.
		for pos := t.nodeIndex; pos < end; pos++ {
			n := &prt.nodes[pos]
			if !b.Intersects(&n.Box) {
				continue
			} else if isLeafLevel {
				if !fn(Result{Index: n.Index, RefIndex: pos - leafStart}) {
					return
				}
			} else {
				q.push(ticket{nodeIndex: n.Index, level: t.level - 1})
			}
		}
	}
}

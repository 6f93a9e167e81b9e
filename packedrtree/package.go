// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package packedrtree provides a static, bulk-loaded packed R-Tree
// over two-dimensional bounding boxes, plus the leaf ordering
// algorithms used to pack it: sort-tile-recursive (STR) and Hilbert
// curve.
//
// A PackedRTree is built once from the complete list of boxes and is
// immutable thereafter, so any number of goroutines may search it
// concurrently without synchronization.
package packedrtree

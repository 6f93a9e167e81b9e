// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package packedrtree

import (
	"math"
	"strconv"
	"strings"
)

// Box is an axis-aligned bounding rectangle. A valid Box has
// XMin <= XMax and YMin <= YMax; a degenerate Box whose minimum and
// maximum coincide on one or both axes is valid and represents a line
// or point.
type Box struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// EmptyBox is the identity element for Expand. It intersects nothing,
// so it is the right starting value when accumulating the bounds of a
// set of boxes, and searching a tree with it yields no results.
var EmptyBox = Box{
	XMin: math.Inf(1),
	YMin: math.Inf(1),
	XMax: math.Inf(-1),
	YMax: math.Inf(-1),
}

// Width returns the extent of the box along the X axis.
func (b *Box) Width() float64 {
	return b.XMax - b.XMin
}

// Height returns the extent of the box along the Y axis.
func (b *Box) Height() float64 {
	return b.YMax - b.YMin
}

// IsEmpty reports whether the box is inverted on either axis, as
// EmptyBox is.
func (b *Box) IsEmpty() bool {
	return b.XMin > b.XMax || b.YMin > b.YMax
}

func (b *Box) midX() float64 {
	return (b.XMin + b.XMax) / 2
}

func (b *Box) midY() float64 {
	return (b.YMin + b.YMax) / 2
}

// Expand grows the box, if necessary, to cover c.
func (b *Box) Expand(c *Box) {
	if c.XMin < b.XMin {
		b.XMin = c.XMin
	}
	if c.YMin < b.YMin {
		b.YMin = c.YMin
	}
	if c.XMax > b.XMax {
		b.XMax = c.XMax
	}
	if c.YMax > b.YMax {
		b.YMax = c.YMax
	}
}

// ExpandXY grows the box, if necessary, to cover the point (x, y).
func (b *Box) ExpandXY(x, y float64) {
	if x < b.XMin {
		b.XMin = x
	}
	if y < b.YMin {
		b.YMin = y
	}
	if x > b.XMax {
		b.XMax = x
	}
	if y > b.YMax {
		b.YMax = y
	}
}

// Intersects reports whether the box shares at least one point with o.
// Boxes that only touch along an edge or at a corner intersect.
func (b *Box) Intersects(o *Box) bool {
	return b.XMin <= o.XMax && o.XMin <= b.XMax && b.YMin <= o.YMax && o.YMin <= b.YMax
}

// Contains reports whether o lies entirely inside the box, boundary
// included.
func (b *Box) Contains(o *Box) bool {
	return b.XMin <= o.XMin && o.XMax <= b.XMax && b.YMin <= o.YMin && o.YMax <= b.YMax
}

// String returns the box as "[XMin,YMin,XMax,YMax]" with each
// coordinate printed at single precision.
func (b Box) String() string {
	var s strings.Builder
	s.WriteByte('[')
	s.WriteString(strconv.FormatFloat(b.XMin, 'g', -1, 32))
	s.WriteByte(',')
	s.WriteString(strconv.FormatFloat(b.YMin, 'g', -1, 32))
	s.WriteByte(',')
	s.WriteString(strconv.FormatFloat(b.XMax, 'g', -1, 32))
	s.WriteByte(',')
	s.WriteString(strconv.FormatFloat(b.YMax, 'g', -1, 32))
	s.WriteByte(']')
	return s.String()
}

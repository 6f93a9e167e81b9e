// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package predicate names the binary spatial relations a spatial index
// can refine its bounding-box candidates with, and provides a planar
// evaluator for them.
//
// A Predicate is a closed enumeration. Names coming from outside the
// program, for example from a query string, are converted with Parse,
// which is the only place a string is ever matched against the set.
package predicate

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
)

// ErrUnsupportedPredicate is returned when a predicate name or value
// is not one of the predicates in this package.
var ErrUnsupportedPredicate = errors.New(packageName + "unsupported predicate")

const packageName = "predicate: "

// Predicate is a binary spatial relation between a query geometry (the
// left operand) and a candidate geometry (the right operand).
type Predicate uint8

const (
	// None means no geometric refinement: the bounding-box overlap
	// found by the tree is the final answer.
	None Predicate = iota
	Intersects
	Within
	Contains
	Overlaps
	Crosses
	Touches
	Covers
	CoveredBy
	ContainsProperly
	numPredicates
)

var predicateNames = [numPredicates]string{
	None:             "none",
	Intersects:       "intersects",
	Within:           "within",
	Contains:         "contains",
	Overlaps:         "overlaps",
	Crosses:          "crosses",
	Touches:          "touches",
	Covers:           "covers",
	CoveredBy:        "covered_by",
	ContainsProperly: "contains_properly",
}

// String returns the snake-case name of the predicate, as accepted by
// Parse.
func (p Predicate) String() string {
	if p < numPredicates {
		return predicateNames[p]
	}
	return "Predicate(" + strconv.Itoa(int(p)) + ")"
}

// Valid reports whether p is one of the predicates in this package.
func (p Predicate) Valid() bool {
	return p < numPredicates
}

// All returns every valid predicate, None first.
func All() []Predicate {
	ps := make([]Predicate, numPredicates)
	for i := range ps {
		ps[i] = Predicate(i)
	}
	return ps
}

// Parse converts a snake-case predicate name into a Predicate. The
// empty string parses as None.
func Parse(name string) (Predicate, error) {
	if name == "" {
		return None, nil
	}
	for i := range predicateNames {
		if predicateNames[i] == name {
			return Predicate(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnsupportedPredicate, name)
}

// An Evaluator decides whether a predicate holds between two
// geometries. The operand order is fixed: a is the query geometry and b
// the candidate, so Evaluate(Contains, a, b) asks whether a contains b.
//
// Implementations must return an error wrapping ErrUnsupportedPredicate
// for predicates they do not implement, and must be safe for concurrent
// use.
type Evaluator interface {
	Evaluate(p Predicate, a, b orb.Geometry) (bool, error)
}

// EvaluatorFunc adapts an ordinary function to the Evaluator interface.
type EvaluatorFunc func(p Predicate, a, b orb.Geometry) (bool, error)

// Evaluate calls f(p, a, b).
func (f EvaluatorFunc) Evaluate(p Predicate, a, b orb.Geometry) (bool, error) {
	return f(p, a, b)
}

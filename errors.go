// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"errors"
	"fmt"

	"github.com/gogama/sindex/predicate"
)

var (
	// ErrNoBackendAvailable is returned when building an index in a
	// process where no spatial index backend is available. Check
	// HasSpatialIndexSupport to branch without attempting a build.
	ErrNoBackendAvailable = textErr("no spatial index backend available")
	// ErrInvalidQueryArgument is returned when a query argument is
	// neither an orb.Bound nor a recognized geometry.
	ErrInvalidQueryArgument = textErr("invalid query argument")
	// ErrEmptyGeometry is returned by BoundsOf for a nil or empty
	// geometry, which has no bounds.
	ErrEmptyGeometry = textErr("empty geometry")
	// ErrUnsupportedPredicate is returned when a query names a
	// predicate the index or its evaluator does not implement.
	ErrUnsupportedPredicate = predicate.ErrUnsupportedPredicate
)

const packageName = "sindex: "

func textErr(text string) error {
	return errors.New(packageName + text)
}

func fmtErr(format string, a ...interface{}) error {
	return fmt.Errorf(packageName+format, a...)
}

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

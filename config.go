// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gogama/sindex/packedrtree"
	"github.com/gogama/sindex/predicate"
	"github.com/joho/godotenv"
)

// Environment variables read by ConfigFromEnv and LoadConfig.
const (
	EnvBackend       = "SINDEX_BACKEND"
	EnvNodeSize      = "SINDEX_NODE_SIZE"
	EnvBulkWorkers   = "SINDEX_BULK_WORKERS"
	EnvBulkThreshold = "SINDEX_BULK_THRESHOLD"
	EnvLeafOrder     = "SINDEX_LEAF_ORDER"
	EnvEvaluator     = "SINDEX_EVALUATOR"
)

// Leaf orders of the packed tree backend.
const (
	LeafOrderSTR     = "str"
	LeafOrderHilbert = "hilbert"
)

// Predicate evaluators selectable by name.
const (
	EvaluatorPlanar = "planar"
	EvaluatorExact  = "exact"
)

// Config holds the tunables of the spatial index.
type Config struct {
	// Backend narrows the backend preference: "auto" tries every
	// available backend in preference order, "strtree" or "rtree"
	// allows only that backend, and "none" disables indexing.
	Backend string
	// NodeSize is the number of children per node of the STR-tree
	// backend. Must be at least 2.
	NodeSize uint16
	// LeafOrder is the order the STR-tree backend packs its leaves in:
	// LeafOrderSTR (sort-tile-recursive) or LeafOrderHilbert. Empty
	// means LeafOrderSTR.
	LeafOrder string
	// Evaluator names the evaluator that refines query candidates when
	// none is given with WithEvaluator: EvaluatorPlanar for
	// predicate.Planar or EvaluatorExact for predicate.Exact. Empty
	// means EvaluatorPlanar.
	Evaluator string
	// BulkWorkers is the maximum number of goroutines a bulk query
	// fans out to. Must be at least 1.
	BulkWorkers int
	// BulkParallelThreshold is the smallest number of bulk query
	// inputs that are worth spreading across goroutines.
	BulkParallelThreshold int
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Backend:               "auto",
		NodeSize:              packedrtree.DefaultNodeSize,
		LeafOrder:             LeafOrderSTR,
		Evaluator:             EvaluatorPlanar,
		BulkWorkers:           runtime.GOMAXPROCS(0),
		BulkParallelThreshold: 256,
	}
}

// Validate returns an error describing the first invalid field of c.
func (c Config) Validate() error {
	if _, err := parsePreference(c.Backend); err != nil {
		return err
	} else if c.NodeSize < 2 {
		return fmtErr("node size must be at least 2, got %d", c.NodeSize)
	} else if c.LeafOrder != "" && c.LeafOrder != LeafOrderSTR && c.LeafOrder != LeafOrderHilbert {
		return fmtErr("unknown leaf order %q", c.LeafOrder)
	} else if c.Evaluator != "" && c.Evaluator != EvaluatorPlanar && c.Evaluator != EvaluatorExact {
		return fmtErr("unknown evaluator %q", c.Evaluator)
	} else if c.BulkWorkers < 1 {
		return fmtErr("bulk workers must be at least 1, got %d", c.BulkWorkers)
	} else if c.BulkParallelThreshold < 0 {
		return fmtErr("bulk threshold must not be negative, got %d", c.BulkParallelThreshold)
	}
	return nil
}

// ConfigFromEnv returns DefaultConfig overridden by any SINDEX_*
// variables set in the process environment.
func ConfigFromEnv() (Config, error) {
	return configFrom(os.LookupEnv)
}

// LoadConfig reads SINDEX_* variables from the named .env files, or
// from ".env" in the working directory if no files are named, over
// DefaultConfig. A variable in a later file overrides the same
// variable in an earlier one, and variables set to a non-blank value in
// the process environment override all files.
func LoadConfig(files ...string) (Config, error) {
	vars, err := godotenv.Read(files...)
	if err != nil {
		return Config{}, wrapErr("reading config", err)
	}
	return configFrom(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	})
}

func configFrom(lookup func(string) (string, bool)) (Config, error) {
	c := DefaultConfig()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvBackend); ok {
		c.Backend = strings.ToLower(v)
	}
	if v, ok := get(EnvNodeSize); ok {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return Config{}, wrapErr("invalid %s %q", err, EnvNodeSize, v)
		}
		c.NodeSize = uint16(n)
	}
	if v, ok := get(EnvLeafOrder); ok {
		c.LeafOrder = strings.ToLower(v)
	}
	if v, ok := get(EnvEvaluator); ok {
		c.Evaluator = strings.ToLower(v)
	}
	if v, ok := get(EnvBulkWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, wrapErr("invalid %s %q", err, EnvBulkWorkers, v)
		}
		c.BulkWorkers = n
	}
	if v, ok := get(EnvBulkThreshold); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, wrapErr("invalid %s %q", err, EnvBulkThreshold, v)
		}
		c.BulkParallelThreshold = n
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) evaluator() predicate.Evaluator {
	if c.Evaluator == EvaluatorExact {
		return predicate.Exact{}
	}
	return predicate.Planar{}
}

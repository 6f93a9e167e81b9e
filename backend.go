// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"strconv"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gogama/sindex/packedrtree"
)

// BackendKind identifies a tree implementation.
type BackendKind uint8

const (
	// BackendNone means no backend: spatial indexing is disabled.
	BackendNone BackendKind = iota
	// BackendSTRTree is the static packed R-tree, bulk loaded in
	// sort-tile-recursive order. It is the preferred backend.
	BackendSTRTree
	// BackendRTree is a dynamic R-tree loaded from the complete set of
	// bounds at build time. It is the fallback backend.
	BackendRTree
)

func (k BackendKind) String() string {
	switch k {
	case BackendNone:
		return "none"
	case BackendSTRTree:
		return "strtree"
	case BackendRTree:
		return "rtree"
	default:
		return "BackendKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// A Tree is a built, immutable tree over a list of boxes. Search calls
// fn with the position in that list of every box intersecting b,
// stopping early if fn returns false. The visiting order is fixed for a
// given tree and box. Trees are safe for concurrent searches.
type Tree interface {
	Search(b packedrtree.Box, fn func(pos int) bool)
	Len() int
}

// A Backend builds Trees. Build receives the complete, non-empty list
// of boxes in one call.
type Backend interface {
	Kind() BackendKind
	Build(boxes []packedrtree.Box) Tree
}

// backendPreference is the fixed order in which "auto" tries backends.
var backendPreference = []BackendKind{BackendSTRTree, BackendRTree}

// availableBackends holds a constructor for each backend compiled into
// the binary. Backend files register themselves in init unless their
// build tag excludes them.
var availableBackends = map[BackendKind]func(Config) Backend{}

func registerBackend(kind BackendKind, newBackend func(Config) Backend) {
	availableBackends[kind] = newBackend
}

func parsePreference(setting string) ([]BackendKind, error) {
	switch setting {
	case "", "auto":
		return backendPreference, nil
	case "strtree":
		return []BackendKind{BackendSTRTree}, nil
	case "rtree":
		return []BackendKind{BackendRTree}, nil
	case "none":
		return nil, nil
	default:
		return nil, fmtErr("unknown backend %q (want auto, strtree, rtree or none)", setting)
	}
}

// selectBackend returns the first backend in the configured preference
// that is available. If there is none, it logs a warning and returns
// false.
func selectBackend(cfg Config, available map[BackendKind]func(Config) Backend, logger log.Logger) (Backend, bool) {
	pref, err := parsePreference(cfg.Backend)
	if err != nil {
		level.Warn(logger).Log("msg", "ignoring invalid backend setting", "err", err)
		pref = backendPreference
	}
	for _, kind := range pref {
		if newBackend, ok := available[kind]; ok {
			return newBackend(cfg), true
		}
	}
	level.Warn(logger).Log("msg", "cannot generate spatial index: no backend available", "backend", cfg.Backend)
	return nil, false
}

var process struct {
	once    sync.Once
	cfg     Config
	backend Backend
	ok      bool
}

func initProcess() {
	process.once.Do(func() {
		cfg, err := ConfigFromEnv()
		if err != nil {
			level.Warn(defaultLogger).Log("msg", "ignoring invalid environment configuration", "err", err)
			cfg = DefaultConfig()
		}
		process.cfg = cfg
		process.backend, process.ok = selectBackend(cfg, availableBackends, defaultLogger)
	})
}

// SelectBackend returns the process-wide backend. The choice is made
// once, on first use, from the backends compiled into the binary and
// the SINDEX_BACKEND environment variable. It returns false, after
// logging a warning once, if no backend is available.
func SelectBackend() (Backend, bool) {
	initProcess()
	return process.backend, process.ok
}

// HasSpatialIndexSupport reports whether SelectBackend found a backend.
// When it returns false, Build returns ErrNoBackendAvailable.
func HasSpatialIndexSupport() bool {
	_, ok := SelectBackend()
	return ok
}

// processConfig returns the environment configuration loaded with the
// process-wide backend.
func processConfig() Config {
	initProcess()
	return process.cfg
}

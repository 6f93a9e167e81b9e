// Copyright 2023 The sindex (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sindex

import (
	"bytes"
	"math/rand"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/go-kit/log"
	"github.com/gogama/sindex/packedrtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteBackend is a Backend which searches every box.
type bruteBackend struct {
	searches *int32
}

func (b bruteBackend) Kind() BackendKind {
	return BackendKind(99)
}

func (b bruteBackend) Build(boxes []packedrtree.Box) Tree {
	return bruteTree{boxes: boxes, searches: b.searches}
}

type bruteTree struct {
	boxes    []packedrtree.Box
	searches *int32
}

func (t bruteTree) Search(b packedrtree.Box, fn func(pos int) bool) {
	if t.searches != nil {
		atomic.AddInt32(t.searches, 1)
	}
	for i := range t.boxes {
		if b.Intersects(&t.boxes[i]) && !fn(i) {
			return
		}
	}
}

func (t bruteTree) Len() int {
	return len(t.boxes)
}

func TestBackendKind_String(t *testing.T) {
	assert.Equal(t, "none", BackendNone.String())
	assert.Equal(t, "strtree", BackendSTRTree.String())
	assert.Equal(t, "rtree", BackendRTree.String())
	assert.Equal(t, "BackendKind(7)", BackendKind(7).String())
}

func TestParsePreference(t *testing.T) {
	testCases := []struct {
		setting  string
		expected []BackendKind
	}{
		{"", []BackendKind{BackendSTRTree, BackendRTree}},
		{"auto", []BackendKind{BackendSTRTree, BackendRTree}},
		{"strtree", []BackendKind{BackendSTRTree}},
		{"rtree", []BackendKind{BackendRTree}},
		{"none", nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.setting, func(t *testing.T) {
			actual, err := parsePreference(testCase.setting)

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, actual)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, err := parsePreference("pygeos")

		assert.EqualError(t, err, `sindex: unknown backend "pygeos" (want auto, strtree, rtree or none)`)
	})
}

func TestSelectBackend(t *testing.T) {
	fake := func(kind BackendKind) func(Config) Backend {
		return func(Config) Backend { return fakeKindBackend{kind} }
	}
	both := map[BackendKind]func(Config) Backend{
		BackendSTRTree: fake(BackendSTRTree),
		BackendRTree:   fake(BackendRTree),
	}
	rOnly := map[BackendKind]func(Config) Backend{
		BackendRTree: fake(BackendRTree),
	}

	testCases := []struct {
		name      string
		setting   string
		available map[BackendKind]func(Config) Backend
		expected  BackendKind
		warning   string
	}{
		{"Preferred", "auto", both, BackendSTRTree, ""},
		{"Fallback", "auto", rOnly, BackendRTree, ""},
		{"Narrowed", "rtree", both, BackendRTree, ""},
		{"NarrowedMissing", "strtree", rOnly, BackendNone, "no backend available"},
		{"Disabled", "none", both, BackendNone, "no backend available"},
		{"NothingCompiledIn", "auto", nil, BackendNone, "no backend available"},
		{"InvalidSetting", "bogus", rOnly, BackendRTree, "ignoring invalid backend setting"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := DefaultConfig()
			cfg.Backend = testCase.setting

			b, ok := selectBackend(cfg, testCase.available, log.NewLogfmtLogger(&buf))

			if testCase.expected == BackendNone {
				assert.False(t, ok)
				assert.Nil(t, b)
			} else {
				require.True(t, ok)
				assert.Equal(t, testCase.expected, b.Kind())
			}
			if testCase.warning == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), "level=warn")
				assert.Contains(t, buf.String(), testCase.warning)
			}
		})
	}
}

func TestSelectBackend_Process(t *testing.T) {
	b1, ok1 := SelectBackend()
	b2, ok2 := SelectBackend()

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, ok1, HasSpatialIndexSupport())
	if ok1 {
		assert.Contains(t, availableBackends, b1.Kind())
	}
}

type fakeKindBackend struct {
	kind BackendKind
}

func (b fakeKindBackend) Kind() BackendKind {
	return b.kind
}

func (b fakeKindBackend) Build(boxes []packedrtree.Box) Tree {
	return bruteTree{boxes: boxes}
}

// testTree checks that trees built by b find exactly the boxes a brute
// force search does, in a stable order.
func testTree(t *testing.T, b Backend) {
	t.Run("Touching", func(t *testing.T) {
		boxes := []packedrtree.Box{
			{XMin: 0, YMin: 0, XMax: 1, YMax: 1},
			{XMin: 1, YMin: 1, XMax: 2, YMax: 2},
			{XMin: 3, YMin: 3, XMax: 3, YMax: 3},
		}
		tree := b.Build(boxes)

		assert.Equal(t, 3, tree.Len())
		assert.ElementsMatch(t, []int{0, 1}, search(tree, packedrtree.Box{XMin: 1, YMin: 1, XMax: 1, YMax: 1}))
		assert.Equal(t, []int{2}, search(tree, packedrtree.Box{XMin: 3, YMin: 3, XMax: 3, YMax: 3}))
		assert.Empty(t, search(tree, packedrtree.Box{XMin: 2.5, YMin: 2.5, XMax: 2.9, YMax: 2.9}))
	})

	t.Run("StopEarly", func(t *testing.T) {
		boxes := make([]packedrtree.Box, 20)
		for i := range boxes {
			boxes[i] = packedrtree.Box{XMin: 0, YMin: 0, XMax: 1, YMax: 1}
		}
		tree := b.Build(boxes)

		var n int
		tree.Search(boxes[0], func(int) bool {
			n++
			return n < 3
		})

		assert.Equal(t, 3, n)
	})

	t.Run("Random", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		boxes := make([]packedrtree.Box, 500)
		for i := range boxes {
			x, y := r.Float64()*100, r.Float64()*100
			w, h := r.Float64()*5, r.Float64()*5
			if i%5 == 0 {
				w, h = 0, 0
			}
			boxes[i] = packedrtree.Box{XMin: x, YMin: y, XMax: x + w, YMax: y + h}
		}
		tree := b.Build(boxes)
		brute := bruteTree{boxes: boxes}

		for i := 0; i < 50; i++ {
			x, y := r.Float64()*100, r.Float64()*100
			q := packedrtree.Box{XMin: x, YMin: y, XMax: x + r.Float64()*20, YMax: y + r.Float64()*20}

			actual := search(tree, q)
			assert.Equal(t, actual, search(tree, q), "search order must be stable")
			sort.Ints(actual)
			assert.Equal(t, search(brute, q), actual)
		}
	})
}

func search(tree Tree, b packedrtree.Box) []int {
	var r []int
	tree.Search(b, func(pos int) bool {
		r = append(r, pos)
		return true
	})
	return r
}

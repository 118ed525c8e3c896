package smoke

import (
	"math"
	"math/rand"
	"testing"
)

func TestKDTreeNearestEmpty(t *testing.T) {
	var tree kdTree
	if _, ok := tree.Nearest([3]float64{0, 0, 0}); ok {
		t.Error("Expected no result from an empty tree")
	}
	if tree.Len() != 0 {
		t.Errorf("Expected empty tree length 0, got %d", tree.Len())
	}
}

func TestKDTreeInsertAndNearest(t *testing.T) {
	var tree kdTree
	entries := []struct {
		key   uint32
		point [3]float64
	}{
		{key: 1, point: [3]float64{0, 0, 0}},
		{key: 2, point: [3]float64{10, 0, 0}},
		{key: 3, point: [3]float64{0, 10, 0}},
		{key: 4, point: [3]float64{0, 0, 10}},
		{key: 5, point: [3]float64{5, 5, 5}},
	}
	for _, e := range entries {
		tree.Insert(e.point, e.key)
	}
	if tree.Len() != 5 {
		t.Fatalf("Expected tree length 5, got %d", tree.Len())
	}

	cases := []struct {
		target [3]float64
		want   uint32
	}{
		{[3]float64{1, 0, 0}, 1},
		{[3]float64{9, 1, 0}, 2},
		{[3]float64{0, 9, 1}, 3},
		{[3]float64{1, 0, 9}, 4},
		{[3]float64{4, 4, 4}, 5},
	}
	for _, c := range cases {
		key, ok := tree.Nearest(c.target)
		if !ok {
			t.Fatalf("Expected a nearest entry for %v", c.target)
		}
		if key != c.want {
			t.Errorf("Expected nearest key %d for %v, got %d", c.want, c.target, key)
		}
	}
}

func TestKDTreeRemove(t *testing.T) {
	var tree kdTree
	tree.Insert([3]float64{0, 0, 0}, 1)
	tree.Insert([3]float64{10, 0, 0}, 2)
	tree.Insert([3]float64{0, 10, 0}, 3)
	tree.Insert([3]float64{5, 5, 5}, 4)

	// Key 1 is the root; removing it forces a replacement pull.
	if !tree.Remove([3]float64{0, 0, 0}, 1) {
		t.Fatal("Expected Remove to find the root entry")
	}
	if tree.Len() != 3 {
		t.Fatalf("Expected tree length 3 after removal, got %d", tree.Len())
	}
	key, ok := tree.Nearest([3]float64{0, 0, 0})
	if !ok {
		t.Fatal("Expected a nearest entry after removal")
	}
	if key != 4 {
		t.Errorf("Expected nearest key 4 after removing the origin, got %d", key)
	}

	if !tree.Remove([3]float64{5, 5, 5}, 4) {
		t.Fatal("Expected Remove to find key 4")
	}
	if !tree.Remove([3]float64{10, 0, 0}, 2) {
		t.Fatal("Expected Remove to find key 2")
	}
	if !tree.Remove([3]float64{0, 10, 0}, 3) {
		t.Fatal("Expected Remove to find key 3")
	}
	if tree.Len() != 0 {
		t.Errorf("Expected empty tree after removing everything, got length %d", tree.Len())
	}
	if _, ok := tree.Nearest([3]float64{0, 0, 0}); ok {
		t.Error("Expected no result after removing everything")
	}
}

func TestKDTreeRemoveMissing(t *testing.T) {
	var tree kdTree
	tree.Insert([3]float64{1, 2, 3}, 1)
	if tree.Remove([3]float64{9, 9, 9}, 9) {
		t.Error("Expected Remove of an absent point to report false")
	}
	if tree.Remove([3]float64{1, 2, 3}, 2) {
		t.Error("Expected Remove with a mismatched key to report false")
	}
	if tree.Len() != 1 {
		t.Errorf("Expected tree length 1, got %d", tree.Len())
	}
}

func TestKDTreeDuplicatePoints(t *testing.T) {
	var tree kdTree
	p := [3]float64{1, 2, 3}
	tree.Insert(p, 10)
	tree.Insert(p, 11)
	tree.Insert([3]float64{50, 50, 50}, 12)

	if !tree.Remove(p, 10) {
		t.Fatal("Expected Remove to find key 10")
	}
	key, ok := tree.Nearest(p)
	if !ok {
		t.Fatal("Expected a nearest entry")
	}
	if key != 11 {
		t.Errorf("Expected the surviving duplicate key 11, got %d", key)
	}

	if !tree.Remove(p, 11) {
		t.Fatal("Expected Remove to find key 11")
	}
	key, ok = tree.Nearest(p)
	if !ok {
		t.Fatal("Expected a nearest entry")
	}
	if key != 12 {
		t.Errorf("Expected key 12 after both duplicates were removed, got %d", key)
	}
}

// TestKDTreeMatchesLinearScan interleaves inserts and removals and
// checks every nearest-neighbor answer against a brute-force scan.
func TestKDTreeMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var tree kdTree
	live := make(map[uint32][3]float64)
	var keys []uint32
	nextKey := uint32(0)

	randPoint := func() [3]float64 {
		return [3]float64{
			rng.Float64() * 100,
			rng.Float64() * 100,
			rng.Float64() * 100,
		}
	}

	for step := 0; step < 2000; step++ {
		if len(keys) == 0 || rng.Intn(3) != 0 {
			p := randPoint()
			tree.Insert(p, nextKey)
			live[nextKey] = p
			keys = append(keys, nextKey)
			nextKey++
		} else {
			i := rng.Intn(len(keys))
			k := keys[i]
			if !tree.Remove(live[k], k) {
				t.Fatalf("Step %d: Expected Remove to find key %d", step, k)
			}
			delete(live, k)
			keys[i] = keys[len(keys)-1]
			keys = keys[:len(keys)-1]
		}
		if tree.Len() != len(live) {
			t.Fatalf("Step %d: Expected tree length %d, got %d", step, len(live), tree.Len())
		}
		if len(live) == 0 {
			continue
		}

		q := randPoint()
		key, ok := tree.Nearest(q)
		if !ok {
			t.Fatalf("Step %d: Expected a nearest entry", step)
		}
		p, present := live[key]
		if !present {
			t.Fatalf("Step %d: Nearest returned removed key %d", step, key)
		}
		got := sqDist(q, p)
		want := math.Inf(1)
		for _, lp := range live {
			if d := sqDist(q, lp); d < want {
				want = d
			}
		}
		if got != want {
			t.Fatalf("Step %d: Expected nearest distance %v, got %v (key %d)",
				step, want, got, key)
		}
	}
}

// TestKDTreeInvariantAfterRemovals walks the whole tree after each
// mutation and verifies the strict-less / greater-or-equal split that
// Remove relies on to find entries.
func TestKDTreeInvariantAfterRemovals(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var tree kdTree
	live := make(map[uint32][3]float64)
	var keys []uint32
	nextKey := uint32(0)

	for step := 0; step < 200; step++ {
		if len(keys) == 0 || rng.Intn(2) == 0 {
			// Coordinates from a small integer range so duplicate
			// axis values show up often.
			p := [3]float64{
				float64(rng.Intn(8)),
				float64(rng.Intn(8)),
				float64(rng.Intn(8)),
			}
			tree.Insert(p, nextKey)
			live[nextKey] = p
			keys = append(keys, nextKey)
			nextKey++
		} else {
			i := rng.Intn(len(keys))
			k := keys[i]
			if !tree.Remove(live[k], k) {
				t.Fatalf("Step %d: Expected Remove to find key %d", step, k)
			}
			delete(live, k)
			keys[i] = keys[len(keys)-1]
			keys = keys[:len(keys)-1]
		}
		checkKDInvariant(t, step, tree.root, 0)
	}
}

func checkKDInvariant(t *testing.T, step int, n *kdNode, axis int) {
	if n == nil {
		return
	}
	eachKDNode(n.left, func(m *kdNode) {
		if m.point[axis] >= n.point[axis] {
			t.Fatalf("Step %d: left descendant %v not below %v on axis %d",
				step, m.point, n.point, axis)
		}
	})
	eachKDNode(n.right, func(m *kdNode) {
		if m.point[axis] < n.point[axis] {
			t.Fatalf("Step %d: right descendant %v below %v on axis %d",
				step, m.point, n.point, axis)
		}
	})
	next := (axis + 1) % 3
	checkKDInvariant(t, step, n.left, next)
	checkKDInvariant(t, step, n.right, next)
}

func eachKDNode(n *kdNode, fn func(*kdNode)) {
	if n == nil {
		return
	}
	fn(n)
	eachKDNode(n.left, fn)
	eachKDNode(n.right, fn)
}

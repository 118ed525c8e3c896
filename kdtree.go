package smoke

import "math"

// kdTree is a 3-dimensional k-d tree over Lab points, keyed by packed
// grid coordinates. Unlike a bulk-built median tree it supports
// interleaved Insert and Remove, which the frontier performs on every
// placement. Axes rotate with depth.
//
// Invariant per node: the left subtree is strictly less on the node's
// axis, the right subtree greater or equal. Equal points are allowed
// and are told apart by key, so Remove deletes exactly the entry it
// was given.
type kdTree struct {
	root *kdNode
	size int
}

type kdNode struct {
	point [3]float64
	key   uint32
	left  *kdNode
	right *kdNode
}

// Len returns the number of entries in the tree.
func (t *kdTree) Len() int {
	return t.size
}

// Insert adds an entry. Duplicate points are fine; the caller is
// responsible for not reusing a key that is already present.
func (t *kdTree) Insert(point [3]float64, key uint32) {
	t.root = insertNode(t.root, point, key, 0)
	t.size++
}

func insertNode(n *kdNode, point [3]float64, key uint32, axis int) *kdNode {
	if n == nil {
		return &kdNode{point: point, key: key}
	}
	if point[axis] < n.point[axis] {
		n.left = insertNode(n.left, point, key, (axis+1)%3)
	} else {
		n.right = insertNode(n.right, point, key, (axis+1)%3)
	}
	return n
}

// Remove deletes the entry matching both point and key, and reports
// whether it was present.
func (t *kdTree) Remove(point [3]float64, key uint32) bool {
	root, removed := removeNode(t.root, point, key, 0)
	t.root = root
	if removed {
		t.size--
	}
	return removed
}

func removeNode(n *kdNode, point [3]float64, key uint32, axis int) (*kdNode, bool) {
	if n == nil {
		return nil, false
	}
	next := (axis + 1) % 3
	if n.key == key && n.point == point {
		switch {
		case n.right != nil:
			min := findMin(n.right, axis, next)
			n.point, n.key = min.point, min.key
			n.right, _ = removeNode(n.right, min.point, min.key, next)
		case n.left != nil:
			// No right subtree to pull a replacement from. Take the
			// minimum of the left subtree and hang the remainder on
			// the right, where greater-or-equal entries belong.
			min := findMin(n.left, axis, next)
			n.point, n.key = min.point, min.key
			n.right, _ = removeNode(n.left, min.point, min.key, next)
			n.left = nil
		default:
			return nil, true
		}
		return n, true
	}
	var removed bool
	if point[axis] < n.point[axis] {
		n.left, removed = removeNode(n.left, point, key, next)
	} else {
		n.right, removed = removeNode(n.right, point, key, next)
	}
	return n, removed
}

// findMin returns the node with the smallest coordinate on axis within
// the subtree rooted at n. When the subtree splits on axis itself only
// the left branch can hold a strictly smaller value, so the right
// branch is skipped.
func findMin(n *kdNode, axis, curAxis int) *kdNode {
	if n == nil {
		return nil
	}
	next := (curAxis + 1) % 3
	if curAxis == axis {
		if n.left == nil {
			return n
		}
		return findMin(n.left, axis, next)
	}
	min := n
	if l := findMin(n.left, axis, next); l != nil && l.point[axis] < min.point[axis] {
		min = l
	}
	if r := findMin(n.right, axis, next); r != nil && r.point[axis] < min.point[axis] {
		min = r
	}
	return min
}

// Nearest returns the key of the entry closest to point by squared
// Euclidean distance, or ok=false on an empty tree. Ties keep the
// first entry found, so results are stable for a given tree shape.
func (t *kdTree) Nearest(point [3]float64) (key uint32, ok bool) {
	if t.root == nil {
		return 0, false
	}
	var best *kdNode
	bestDist := math.Inf(1)
	searchNearest(t.root, point, 0, &best, &bestDist)
	return best.key, true
}

func searchNearest(n *kdNode, point [3]float64, axis int, best **kdNode, bestDist *float64) {
	if n == nil {
		return
	}
	if d := sqDist(point, n.point); d < *bestDist {
		*bestDist = d
		*best = n
	}
	next := (axis + 1) % 3
	axisDist := point[axis] - n.point[axis]
	nearer, other := n.left, n.right
	if axisDist >= 0 {
		nearer, other = n.right, n.left
	}
	searchNearest(nearer, point, next, best, bestDist)

	// Check if we need to search the other branch.
	if axisDist*axisDist < *bestDist {
		searchNearest(other, point, next, best, bestDist)
	}
}

func sqDist(a, b [3]float64) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

package renderer

import (
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// patchKeyedChildren reconciles two keyed sibling lists. Common prefix and
// suffix are patched in place; the remaining middle is matched by key, and
// only nodes outside the longest increasing subsequence of matched old
// positions are moved.
func (r *Renderer) patchKeyedChildren(c1, c2 []*vdom.VNode, container, parentAnchor Node, svg bool) {
	i := 0
	e1, e2 := len(c1)-1, len(c2)-1

	for i <= e1 && i <= e2 && sameVNode(c1[i], c2[i]) {
		r.patch(c1[i], c2[i], container, svg)
		i++
	}
	for i <= e1 && i <= e2 && sameVNode(c1[e1], c2[e2]) {
		r.patch(c1[e1], c2[e2], container, svg)
		e1--
		e2--
	}

	anchorAt := func(pos int) Node {
		if pos < len(c2) {
			return firstHost(c2[pos])
		}
		return parentAnchor
	}

	switch {
	case i > e1:
		if i <= e2 {
			anchor := anchorAt(e2 + 1)
			for ; i <= e2; i++ {
				r.mount(c2[i], container, anchor, svg)
			}
		}
		return
	case i > e2:
		for ; i <= e1; i++ {
			r.unmount(c1[i], true)
		}
		return
	}

	s1, s2 := i, i
	keyToNewIndex := make(map[string]int, e2-s2+1)
	for j := s2; j <= e2; j++ {
		key := c2[j].Key
		if _, dup := keyToNewIndex[key]; dup {
			r.warn(errors.New("E103").WithField("key", key))
		}
		keyToNewIndex[key] = j
	}

	toBePatched := e2 - s2 + 1
	patched := 0
	moved := false
	maxNewIndexSoFar := 0
	// 0 marks a new node; otherwise old index + 1.
	newIndexToOldIndex := make([]int, toBePatched)

	for j := s1; j <= e1; j++ {
		prevChild := c1[j]
		if patched >= toBePatched {
			r.unmount(prevChild, true)
			continue
		}
		newIndex, ok := keyToNewIndex[prevChild.Key]
		if !ok || newIndexToOldIndex[newIndex-s2] != 0 {
			r.unmount(prevChild, true)
			continue
		}
		newIndexToOldIndex[newIndex-s2] = j + 1
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		r.patch(prevChild, c2[newIndex], container, svg)
		patched++
	}

	var seq []int
	if moved {
		seq = longestIncreasingSubsequence(newIndexToOldIndex)
	}
	k := len(seq) - 1
	for j := toBePatched - 1; j >= 0; j-- {
		nextIndex := s2 + j
		nextChild := c2[nextIndex]
		anchor := anchorAt(nextIndex + 1)
		switch {
		case newIndexToOldIndex[j] == 0:
			r.mount(nextChild, container, anchor, svg)
		case moved:
			if k < 0 || j != seq[k] {
				r.move(nextChild, container, anchor)
			} else {
				k--
			}
		}
	}
}

// longestIncreasingSubsequence returns the indexes of a longest strictly
// increasing subsequence of arr, ignoring zero entries.
func longestIncreasingSubsequence(arr []int) []int {
	prev := make([]int, len(arr))
	var result []int
	for i, v := range arr {
		if v == 0 {
			continue
		}
		if n := len(result); n == 0 || arr[result[n-1]] < v {
			if n > 0 {
				prev[i] = result[n-1]
			}
			result = append(result, i)
			continue
		}
		lo, hi := 0, len(result)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if arr[result[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if v < arr[result[lo]] {
			if lo > 0 {
				prev[i] = result[lo-1]
			}
			result[lo] = i
		}
	}
	if n := len(result); n > 0 {
		v := result[n-1]
		for u := n - 1; u >= 0; u-- {
			result[u] = v
			v = prev[v]
		}
	}
	return result
}

package util

import "github.com/google/uuid"

// BuildTree turns a flat parent-pointer list into a forest. Sibling order follows
// the input order. Rows whose parent is not in the list are dropped.
func BuildTree[T any](rows []T, id func(T) uuid.UUID, parent func(T) *uuid.UUID, setReplies func(*T, []T)) []T {
	present := make(map[uuid.UUID]struct{}, len(rows))
	for _, r := range rows {
		present[id(r)] = struct{}{}
	}

	children := make(map[uuid.UUID][]int, len(rows))
	roots := make([]int, 0, len(rows))
	for i, r := range rows {
		p := parent(r)
		if p == nil {
			roots = append(roots, i)
			continue
		}
		if _, ok := present[*p]; ok {
			children[*p] = append(children[*p], i)
		}
	}

	var build func(i int) T
	build = func(i int) T {
		node := rows[i]
		kids := children[id(node)]
		replies := make([]T, 0, len(kids))
		for _, k := range kids {
			replies = append(replies, build(k))
		}
		setReplies(&node, replies)
		return node
	}

	out := make([]T, 0, len(roots))
	for _, i := range roots {
		out = append(out, build(i))
	}
	return out
}

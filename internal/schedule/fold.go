// Package schedule folds flat session rows into nested schedule groups.
//
// Rows arrive in the order chosen by the query's ORDER BY (favorites first,
// then name, then time).  Fold keeps that order: groups appear in the order
// their key is first seen and children keep their relative row order.  No
// sorting happens here.
package schedule

// Group is one folded group: the header taken from the first row carrying
// Key, and one child per row carrying Key.
type Group[K comparable, H any, C any] struct {
	Key      K
	Header   H
	Children []C
}

// Fold is a stable single-pass group-by.  key extracts the grouping key,
// header builds the group header (called once per key, on its first row)
// and child derives the child record (called once per row).
//
// It runs in O(n) time with O(g) auxiliary space for g distinct keys.
func Fold[R any, K comparable, H any, C any](rows []R, key func(R) K, header func(R) H, child func(R) C) []Group[K, H, C] {
	groups := make([]Group[K, H, C], 0)
	index := make(map[K]int)
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, H, C]{Key: k, Header: header(r)})
		}
		groups[i].Children = append(groups[i].Children, child(r))
	}
	return groups
}

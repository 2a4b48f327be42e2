package util

import (
	"cmp"
	"maps"
	"slices"
)

func MapsKeysSorted[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m))
}

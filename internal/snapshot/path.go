package snapshot

import (
	"strconv"
	"strings"
)

// Lookup resolves a dotted path such as "items.0.title". Numeric segments
// index arrays.
func (o Object) Lookup(path string) (Value, bool) {
	return o.lookup(strings.Split(path, "."))
}

// ResolvePath implements ltl.PathResolver. The resolved Value is compared
// by deep equality, so Int(1) and Int(1) are equal wherever they sit.
func (o Object) ResolvePath(segments []string) (any, bool) {
	v, ok := o.lookup(segments)
	if !ok {
		return nil, false
	}
	return v, true
}

func (o Object) lookup(segments []string) (Value, bool) {
	var cur Value = o
	for _, seg := range segments {
		switch node := cur.(type) {
		case Object:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case Array:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

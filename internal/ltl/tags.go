package ltl

import "slices"

// mergeTags returns the sorted union of the given tag sets in a fresh slice.
func mergeTags(sets ...[]string) []string {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// applyTags attaches tags to a step result. True carries no blame, so tags
// applied to it are dropped.
func applyTags[S any](f Formula[S], tags []string) Formula[S] {
	if len(tags) == 0 || f == nil {
		return f
	}
	if _, ok := f.(trueNode[S]); ok {
		return True[S]()
	}
	return f.withTags(tags)
}

// falseTags returns the blame carried by a False result, nil otherwise.
func falseTags[S any](f Formula[S]) []string {
	if ff, ok := f.(falseNode[S]); ok {
		return ff.tags
	}
	return nil
}

// collectTags returns the blame set of a residual: empty unless the
// residual's verdict is false, and then only the tags of the branches
// responsible for it.
func collectTags[S any](f Formula[S]) []string {
	v, err := EvaluateValidity(f)
	if err != nil || v.Value() {
		return nil
	}
	return blame(f)
}

// blame assumes the verdict of f is false.
func blame[S any](f Formula[S]) []string {
	switch f := f.(type) {
	case falseNode[S]:
		return mergeTags(f.tags)
	case nextNode[S]:
		// Only a strong next is false at the end of a trace; the obligation
		// it defers is what failed to be discharged.
		return mergeTags(f.tags, f.term.ownTags())
	case andNode[S]:
		sets := [][]string{f.tags}
		for _, child := range []Formula[S]{f.left, f.right} {
			if v, err := EvaluateValidity(child); err == nil && !v.Value() {
				sets = append(sets, blame(child))
			}
		}
		return mergeTags(sets...)
	case orNode[S]:
		return mergeTags(f.tags, blame(f.left), blame(f.right))
	case impliesNode[S]:
		// (a -> c) is false only if c is.
		return mergeTags(f.tags, blame(f.consequent))
	case notNode[S]:
		return mergeTags(f.tags)
	default:
		return mergeTags(f.ownTags())
	}
}

package ltl

import (
	"reflect"
	"strconv"
	"strings"
)

// PathResolver is implemented by states that resolve dotted paths
// themselves. Other states are walked by reflection.
type PathResolver interface {
	ResolvePath(segments []string) (any, bool)
}

// UnchangedPaths holds when every dotted path (e.g. "b.c") resolves to
// deeply equal values in the current and next states. A path missing
// from either state is an error, not a false verdict.
func UnchangedPaths[S any](paths ...string) Formula[S] {
	return pathComparison[S]("unchanged", paths, true)
}

// ChangedPaths holds when at least one dotted path resolves to different
// values in the current and next states.
func ChangedPaths[S any](paths ...string) Formula[S] {
	return pathComparison[S]("changed", paths, false)
}

func pathComparison[S any](name string, paths []string, unchanged bool) Formula[S] {
	split := make([][]string, len(paths))
	for i, p := range paths {
		split[i] = strings.Split(p, ".")
	}
	label := name + "(" + strings.Join(paths, ",") + ")"

	return NamedComparison(label, func(prev, next S) (bool, error) {
		same := true
		for i, segs := range split {
			a, err := resolvePath(prev, paths[i], segs)
			if err != nil {
				return false, err
			}
			b, err := resolvePath(next, paths[i], segs)
			if err != nil {
				return false, err
			}
			if !reflect.DeepEqual(a, b) {
				same = false
			}
		}
		if unchanged {
			return same, nil
		}
		return !same, nil
	})
}

func resolvePath(state any, path string, segments []string) (any, error) {
	if r, ok := state.(PathResolver); ok {
		v, found := r.ResolvePath(segments)
		if !found {
			return nil, missingPathError(path)
		}
		return v, nil
	}

	v := reflect.ValueOf(state)
	for _, seg := range segments {
		next, ok := lookupSegment(v, seg)
		if !ok {
			return nil, missingPathError(path)
		}
		v = next
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

func lookupSegment(v reflect.Value, seg string) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		val := v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
		if !val.IsValid() {
			return reflect.Value{}, false
		}
		return val, true
	case reflect.Struct:
		return structField(v, seg)
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(i), true
	}
	return reflect.Value{}, false
}

// structField matches seg against the json tag name first, then the
// exported field name.
func structField(v reflect.Value, seg string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name == seg {
			return v.Field(i), true
		}
	}
	sf, ok := t.FieldByName(seg)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, false
	}
	return v.FieldByIndex(sf.Index), true
}

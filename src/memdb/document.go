package memdb

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

/*
	Documents are plain bson.M values. Every value stored in a collection is
	first rewritten into a closed set of canonical kinds so that equality,
	ordering and deep copies are well defined no matter what shape the caller
	handed us:

		nil, bool, int64, float64, string, bson.A, bson.M

	Anything else (custom slices, map[string]interface{}, the smaller int
	kinds) is converted on the way in. Values never leave a collection without
	passing through deepCopy, so callers can mutate results freely.
*/

// normalizeValue rewrites v into one of the canonical kinds.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case bool, int64, float64, string:
		return val
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return float64(val)
	case bson.A:
		out := make(bson.A, len(val))
		for i, elem := range val {
			out[i] = normalizeValue(elem)
		}
		return out
	case []interface{}:
		out := make(bson.A, len(val))
		for i, elem := range val {
			out[i] = normalizeValue(elem)
		}
		return out
	case []string:
		out := make(bson.A, len(val))
		for i, elem := range val {
			out[i] = elem
		}
		return out
	case bson.M:
		out := make(bson.M, len(val))
		for k, elem := range val {
			out[k] = normalizeValue(elem)
		}
		return out
	case map[string]interface{}:
		out := make(bson.M, len(val))
		for k, elem := range val {
			out[k] = normalizeValue(elem)
		}
		return out
	default:
		// Unknown kinds are kept as-is. They will compare unequal to
		// everything, which is the safest thing we can do with them.
		return val
	}
}

// normalizeDocument rewrites every value in doc into canonical kinds.
func normalizeDocument(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

// deepCopy clones a canonical value. Scalars are immutable and returned
// as-is; sequences and mappings are cloned recursively.
func deepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.A:
		out := make(bson.A, len(val))
		for i, elem := range val {
			out[i] = deepCopy(elem)
		}
		return out
	case bson.M:
		out := make(bson.M, len(val))
		for k, elem := range val {
			out[k] = deepCopy(elem)
		}
		return out
	default:
		return val
	}
}

// deepCopyDocument clones a whole document.
func deepCopyDocument(doc bson.M) bson.M {
	return deepCopy(doc).(bson.M)
}

// asNumber reports a value as float64 when it is one of the numeric kinds.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// valuesEqual compares two canonical values. Numbers compare by value across
// int64 and float64; sequences and mappings compare element-wise.
func valuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if aNum, ok := asNumber(a); ok {
		bNum, ok := asNumber(b)
		return ok && aNum == bNum
	}

	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bson.A:
		bv, ok := b.(bson.A)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case bson.M:
		bv, ok := b.(bson.M)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, elem := range av {
			other, exists := bv[k]
			if !exists || !valuesEqual(elem, other) {
				return false
			}
		}
		return true
	}

	return false
}

// compareValues orders two canonical values. The second return is false when
// the pair has no defined order (mixed kinds other than the numeric pair,
// sequences, mappings, nil).
func compareValues(a, b interface{}) (int, bool) {
	if aNum, aOK := asNumber(a); aOK {
		if bNum, bOK := asNumber(b); bOK {
			switch {
			case aNum < bNum:
				return -1, true
			case aNum > bNum:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}

	aStr, aOK := a.(string)
	bStr, bOK := b.(string)
	if aOK && bOK {
		switch {
		case aStr < bStr:
			return -1, true
		case aStr > bStr:
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

// resolvePath walks a dotted field path through nested mappings. Any missing
// key or non-mapping intermediate yields absent; sequences are never indexed.
func resolvePath(doc bson.M, path string) (interface{}, bool) {
	var value interface{} = doc
	for _, segment := range strings.Split(path, ".") {
		m, ok := value.(bson.M)
		if !ok {
			return nil, false
		}
		value, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return value, true
}

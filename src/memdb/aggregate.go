package memdb

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

/*
	A very small aggregation engine: $unwind, $group and $sort, applied left
	to right, each stage consuming the previous stage's output. That subset is
	all the registration API ever needed (distinct schedule days), but the
	stages are generic over any document set.
*/

// Aggregate runs a pipeline over docs. The caller owns the input slice; every
// emitted document is independently owned.
func Aggregate(docs []bson.M, pipeline []bson.M) ([]bson.M, error) {
	for i, stage := range pipeline {
		if len(stage) != 1 {
			return nil, fmt.Errorf("pipeline stage %d must have exactly one key", i)
		}

		var err error
		for name, spec := range stage {
			switch name {
			case "$unwind":
				docs, err = unwindStage(docs, spec)
			case "$group":
				docs, err = groupStage(docs, spec)
			case "$sort":
				docs, err = sortStage(docs, spec)
			default:
				err = fmt.Errorf("%w: %s", ErrUnsupportedStage, name)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline stage %d: %w", i, err)
		}
	}
	return docs, nil
}

// unwindStage emits one document per element of the sequence at the given
// path, with the sequence field replaced by the single element. A scalar at
// the path passes the document through unchanged; an absent or empty sequence
// drops the document.
func unwindStage(docs []bson.M, spec interface{}) ([]bson.M, error) {
	pathExpr, ok := spec.(string)
	if !ok {
		return nil, fmt.Errorf("$unwind requires a field path string, got %T", spec)
	}
	path := strings.TrimPrefix(pathExpr, "$")
	segments := strings.Split(path, ".")

	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		value, present := resolvePath(doc, path)
		if !present {
			continue
		}

		seq, isSeq := value.(bson.A)
		if !isSeq {
			out = append(out, doc)
			continue
		}

		for _, elem := range seq {
			clone := deepCopyDocument(doc)
			// Resolution succeeded, so every parent segment is a mapping in
			// the clone as well.
			parent := clone
			for _, segment := range segments[:len(segments)-1] {
				parent = parent[segment].(bson.M)
			}
			parent[segments[len(segments)-1]] = deepCopy(elem)
			out = append(out, clone)
		}
	}
	return out, nil
}

// groupStage partitions documents by the resolved grouping key and emits one
// {_id: key} document per distinct key, in first-seen order. No accumulators.
func groupStage(docs []bson.M, spec interface{}) ([]bson.M, error) {
	groupSpec, ok := asMapping(spec)
	if !ok {
		return nil, fmt.Errorf("$group requires a mapping, got %T", spec)
	}
	idExpr, ok := groupSpec["_id"]
	if !ok {
		return nil, fmt.Errorf("$group requires an _id expression")
	}

	keyPath := ""
	if s, isStr := idExpr.(string); isStr && strings.HasPrefix(s, "$") {
		keyPath = strings.TrimPrefix(s, "$")
	}

	var keys []interface{}
	for _, doc := range docs {
		var key interface{}
		if keyPath != "" {
			key, _ = resolvePath(doc, keyPath)
		} else {
			key = normalizeValue(idExpr)
		}

		seen := false
		for _, existing := range keys {
			if valuesEqual(existing, key) {
				seen = true
				break
			}
		}
		if !seen {
			keys = append(keys, key)
		}
	}

	out := make([]bson.M, 0, len(keys))
	for _, key := range keys {
		out = append(out, bson.M{"_id": deepCopy(key)})
	}
	return out, nil
}

// sortStage sorts documents by one or more keys. The spec must be ordered
// (bson.D) so the declared key order is meaningful; a single-key bson.M is
// accepted as a convenience. Keys are applied in reverse order with a stable
// sort at each step, so the first declared key dominates.
func sortStage(docs []bson.M, spec interface{}) ([]bson.M, error) {
	var ordered bson.D
	switch s := spec.(type) {
	case bson.D:
		ordered = s
	case bson.M:
		if len(s) > 1 {
			return nil, fmt.Errorf("multi-key $sort requires an ordered (bson.D) spec")
		}
		for k, v := range s {
			ordered = append(ordered, bson.E{Key: k, Value: v})
		}
	default:
		return nil, fmt.Errorf("$sort requires a sort spec, got %T", spec)
	}

	for i := len(ordered) - 1; i >= 0; i-- {
		field := ordered[i].Key
		direction, ok := asNumber(normalizeValue(ordered[i].Value))
		if !ok || (direction != 1 && direction != -1) {
			return nil, fmt.Errorf("$sort direction for %q must be 1 or -1", field)
		}
		descending := direction == -1

		sort.SliceStable(docs, func(a, b int) bool {
			if descending {
				return sortLess(docs[b], docs[a], field)
			}
			return sortLess(docs[a], docs[b], field)
		})
	}
	return docs, nil
}

// sortLess orders two documents by one field. Absent values fall back to the
// zero value of the other side's kind, so documents missing the field sort
// first ascending rather than failing.
func sortLess(a, b bson.M, field string) bool {
	av, aPresent := resolvePath(a, field)
	bv, bPresent := resolvePath(b, field)
	if !aPresent && !bPresent {
		return false
	}
	if !aPresent {
		av = zeroOf(bv)
	}
	if !bPresent {
		bv = zeroOf(av)
	}

	cmp, ok := compareValues(av, bv)
	return ok && cmp < 0
}

func zeroOf(v interface{}) interface{} {
	switch v.(type) {
	case int64, float64:
		return int64(0)
	case bool:
		return false
	default:
		return ""
	}
}

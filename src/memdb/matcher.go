package memdb

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

/*
	The matcher evaluates a MongoDB-style filter against one document. Only
	the operators the registration API actually issues are supported: literal
	equality, $in, $gte and $lte. Top-level fields are ANDed, and so are
	multiple operators inside one condition. Anything else is a configuration
	error, not a silent no-match.
*/

// Matches evaluates filter against doc. An empty filter matches everything.
func Matches(doc bson.M, filter bson.M) (bool, error) {
	for path, condition := range filter {
		value, present := resolvePath(doc, path)

		operators, ok := conditionOperators(condition)
		if !ok {
			// Literal equality on the resolved value. An absent value only
			// matches a nil literal.
			if !present {
				if condition != nil {
					return false, nil
				}
				continue
			}
			if !valuesEqual(value, normalizeValue(condition)) {
				return false, nil
			}
			continue
		}

		for op, operand := range operators {
			matched, err := matchOperator(op, value, present, normalizeValue(operand))
			if err != nil {
				return false, err
			}
			if !matched {
				return false, nil
			}
		}
	}
	return true, nil
}

// conditionOperators reports whether a condition is an operator mapping
// rather than a literal. A mapping counts as operators when any key carries
// the $ prefix.
func conditionOperators(condition interface{}) (bson.M, bool) {
	var m bson.M
	switch c := condition.(type) {
	case bson.M:
		m = c
	case map[string]interface{}:
		m = c
	default:
		return nil, false
	}
	for key := range m {
		if strings.HasPrefix(key, "$") {
			return m, true
		}
	}
	return nil, false
}

func matchOperator(op string, value interface{}, present bool, operand interface{}) (bool, error) {
	switch op {
	case "$in":
		members, ok := operand.(bson.A)
		if !ok {
			return false, fmt.Errorf("%w: $in requires an array operand", ErrUnsupportedOperator)
		}
		// Array-containment semantics: a sequence value matches when any
		// of its elements is a member of the operand set.
		if seq, isSeq := value.(bson.A); isSeq {
			for _, elem := range seq {
				if containsValue(members, elem) {
					return true, nil
				}
			}
			return false, nil
		}
		return containsValue(members, value), nil

	case "$gte":
		if !present {
			return false, nil
		}
		cmp, ok := compareValues(value, operand)
		return ok && cmp >= 0, nil

	case "$lte":
		if !present {
			return false, nil
		}
		cmp, ok := compareValues(value, operand)
		return ok && cmp <= 0, nil

	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}
}

func containsValue(members bson.A, value interface{}) bool {
	for _, member := range members {
		if valuesEqual(member, value) {
			return true
		}
	}
	return false
}

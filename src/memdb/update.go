package memdb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ApplyUpdate applies an update expression to a single already-selected
// document, mutating it in place. Operators apply independently; $set
// overwrites, $push appends, $pull removes one matching element. The _id
// field is immutable once stored.
func ApplyUpdate(doc bson.M, update bson.M) error {
	for op, spec := range update {
		switch op {
		case "$set", "$push", "$pull":
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
		}

		fields, ok := asMapping(spec)
		if !ok {
			return fmt.Errorf("%s requires a field mapping, got %T", op, spec)
		}

		for field, raw := range fields {
			if field == "_id" {
				return fmt.Errorf("%w: _id cannot be updated", ErrBadDocumentID)
			}
			value := normalizeValue(raw)

			switch op {
			case "$set":
				doc[field] = value

			case "$push":
				existing, exists := doc[field]
				if !exists {
					doc[field] = bson.A{value}
					continue
				}
				seq, isSeq := existing.(bson.A)
				if !isSeq {
					return fmt.Errorf("$push target %q is not an array", field)
				}
				doc[field] = append(seq, value)

			case "$pull":
				seq, isSeq := doc[field].(bson.A)
				if !isSeq {
					continue
				}
				for i, elem := range seq {
					if valuesEqual(elem, value) {
						doc[field] = append(seq[:i], seq[i+1:]...)
						break
					}
				}
			}
		}
	}
	return nil
}

func asMapping(v interface{}) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]interface{}:
		return m, true
	}
	return nil, false
}

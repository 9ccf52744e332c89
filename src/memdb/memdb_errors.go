package memdb

// Add custom error definitions here
import "errors"

// ErrUnsupportedOperator is returned when a filter or update uses an operator
// outside the supported subset.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// ErrUnsupportedStage is returned when an aggregation pipeline uses a stage
// outside the supported subset.
var ErrUnsupportedStage = errors.New("unsupported pipeline stage")

// ErrBadDocumentID is returned when a document carries a non-string _id, or
// when an update tries to rewrite one.
var ErrBadDocumentID = errors.New("invalid document _id")

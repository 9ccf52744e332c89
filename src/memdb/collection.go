package memdb

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Collection owns a set of documents keyed by their string _id. Iteration
// order is insertion order, which keeps scans and find results deterministic
// within a process. Every document crossing the collection boundary is deep
// copied; the one exception is UpdateOne, which mutates the stored document
// so the change persists.
//
// There is no locking here. Callers exposing a collection to concurrent
// requests serialize access themselves, the way the directors layer does.
type Collection struct {
	name   string
	docs   map[string]bson.M
	order  []string
	logger *zap.SugaredLogger
}

// NewCollection creates an empty collection.
func NewCollection(name string, logger *zap.SugaredLogger) *Collection {
	return &Collection{
		name:   name,
		docs:   make(map[string]bson.M),
		logger: logger,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Count returns the number of documents matching filter. An empty or nil
// filter counts everything.
func (c *Collection) Count(filter bson.M) (int, error) {
	if len(filter) == 0 {
		return len(c.docs), nil
	}
	count := 0
	for _, id := range c.order {
		matched, err := Matches(c.docs[id], filter)
		if err != nil {
			return 0, err
		}
		if matched {
			count++
		}
	}
	return count, nil
}

// InsertOne stores a deep copy of doc keyed by its _id and returns the id.
// A document without an _id gets a generated UUID; a document with an
// existing _id silently replaces the stored one, keeping its position in
// iteration order. The _id must be a string.
func (c *Collection) InsertOne(doc bson.M) (string, error) {
	// Normalization allocates fresh containers at every level, so this is
	// also the insert-boundary deep copy.
	stored := normalizeDocument(doc)

	var id string
	switch rawID := stored["_id"].(type) {
	case nil:
		id = uuid.NewString()
		stored["_id"] = id
		c.logger.Debugf("collection %s assigned generated _id %s", c.name, id)
	case string:
		id = rawID
	default:
		return "", ErrBadDocumentID
	}

	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = stored
	return id, nil
}

// FindOne returns a deep copy of the first document matching filter in
// iteration order, or nil when nothing matches. A filter containing only a
// literal _id is a direct lookup rather than a scan.
func (c *Collection) FindOne(filter bson.M) (bson.M, error) {
	if id, ok := directIDLookup(filter); ok {
		doc, exists := c.docs[id]
		if !exists {
			return nil, nil
		}
		return deepCopyDocument(doc), nil
	}

	for _, id := range c.order {
		matched, err := Matches(c.docs[id], filter)
		if err != nil {
			return nil, err
		}
		if matched {
			return deepCopyDocument(c.docs[id]), nil
		}
	}
	return nil, nil
}

// Find returns deep copies of all documents matching filter, in iteration
// order. A nil or empty filter returns every document.
func (c *Collection) Find(filter bson.M) ([]bson.M, error) {
	results := make([]bson.M, 0, len(c.order))
	for _, id := range c.order {
		if len(filter) > 0 {
			matched, err := Matches(c.docs[id], filter)
			if err != nil {
				return nil, err
			}
			if !matched {
				continue
			}
		}
		results = append(results, deepCopyDocument(c.docs[id]))
	}
	return results, nil
}

// UpdateOne applies update to the first document matching filter and returns
// the number of documents modified (0 or 1). The update runs against the
// stored document, so the mutation persists.
func (c *Collection) UpdateOne(filter bson.M, update bson.M) (int, error) {
	var target bson.M
	if id, ok := directIDLookup(filter); ok {
		target = c.docs[id]
	} else {
		for _, id := range c.order {
			matched, err := Matches(c.docs[id], filter)
			if err != nil {
				return 0, err
			}
			if matched {
				target = c.docs[id]
				break
			}
		}
	}
	if target == nil {
		return 0, nil
	}

	if err := ApplyUpdate(target, update); err != nil {
		return 0, err
	}
	c.logger.Debugf("collection %s updated document %v", c.name, target["_id"])
	return 1, nil
}

// Aggregate snapshots every stored document and runs the pipeline over the
// snapshot.
func (c *Collection) Aggregate(pipeline []bson.M) ([]bson.M, error) {
	snapshot := make([]bson.M, 0, len(c.order))
	for _, id := range c.order {
		snapshot = append(snapshot, deepCopyDocument(c.docs[id]))
	}
	return Aggregate(snapshot, pipeline)
}

// directIDLookup reports whether filter is a bare {_id: "..."} literal.
func directIDLookup(filter bson.M) (string, bool) {
	if len(filter) != 1 {
		return "", false
	}
	id, ok := filter["_id"].(string)
	return id, ok
}

package memdb

import (
	"fmt"
	"io"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Store is the process-wide registry of named collections. It is constructed
// explicitly and handed to consumers by reference; there is no ambient global
// instance.
type Store struct {
	collections map[string]*Collection
	logger      *zap.SugaredLogger
}

// NewStore creates an empty store.
func NewStore(logger *zap.SugaredLogger) *Store {
	return &Store{
		collections: make(map[string]*Collection),
		logger:      logger,
	}
}

// Collection returns the named collection, creating it empty on first use.
func (s *Store) Collection(name string) *Collection {
	if col, exists := s.collections[name]; exists {
		return col
	}
	col := NewCollection(name, s.logger)
	s.collections[name] = col
	return col
}

// CollectionNames returns the registered collection names, sorted.
func (s *Store) CollectionNames() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Seed populates each named collection from its seed documents, but only
// when the collection is currently empty. Seeding twice is a no-op, so
// repeated initialization is safe. Failures are collected per collection
// rather than aborting the whole run.
func (s *Store) Seed(data map[string][]bson.M) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		col := s.Collection(name)
		count, err := col.Count(bson.M{})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seeding %s: %w", name, err))
			continue
		}
		if count > 0 {
			s.logger.Debugf("collection %s already has %d documents, skipping seed", name, count)
			continue
		}

		for _, doc := range data[name] {
			if _, err := col.InsertOne(doc); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("seeding %s: %w", name, err))
			}
		}
		s.logger.Infof("seeded collection %s with %d documents", name, len(data[name]))
	}
	return errs
}

// Dump writes every collection's documents to w as a deterministic BSON
// snapshot, one {collection, documents} record per collection. Field order is
// canonicalized (sorted keys at every level), so two dumps of identical
// content are byte-identical.
func (s *Store) Dump(w io.Writer) error {
	for _, name := range s.CollectionNames() {
		col := s.collections[name]

		records := make(bson.A, 0, len(col.order))
		for _, id := range col.order {
			records = append(records, orderedValue(col.docs[id]))
		}

		raw, err := bson.Marshal(bson.D{
			{Key: "collection", Value: name},
			{Key: "documents", Value: records},
		})
		if err != nil {
			return fmt.Errorf("dumping %s: %w", name, err)
		}
		if _, err := w.Write(raw); err != nil {
			return fmt.Errorf("dumping %s: %w", name, err)
		}
	}
	return nil
}

// orderedValue rewrites mappings into sorted-key bson.D so BSON encoding is
// deterministic regardless of map iteration order.
func orderedValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(bson.D, 0, len(keys))
		for _, k := range keys {
			out = append(out, bson.E{Key: k, Value: orderedValue(val[k])})
		}
		return out
	case bson.A:
		out := make(bson.A, len(val))
		for i, elem := range val {
			out[i] = orderedValue(elem)
		}
		return out
	default:
		return val
	}
}

package directors

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"mergington/src/memdb"
	"mergington/src/seed"
	"mergington/src/settings"
)

// ActivityService fronts the activities collection for the route handlers.
// The store itself carries no locks, so the service serializes every call
// with one mutex per collection.
type ActivityService struct {
	col      *memdb.Collection
	settings *settings.Arguments
	logger   *zap.SugaredLogger
	mu       sync.Mutex
}

func NewActivityService(store *memdb.Store, args *settings.Arguments, logger *zap.SugaredLogger) *ActivityService {
	return &ActivityService{
		col:      store.Collection(seed.ActivitiesCollection),
		settings: args,
		logger:   logger,
	}
}

// List returns activities filtered by schedule. Each argument is optional:
// day restricts to activities meeting on that weekday, startTime/endTime
// restrict to activities starting no earlier / ending no later than the
// given HH:MM times.
func (s *ActivityService) List(day, startTime, endTime string) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filter := bson.M{}
	if day != "" {
		filter["schedule_details.days"] = bson.M{"$in": bson.A{day}}
	}
	if startTime != "" {
		filter["schedule_details.start_time"] = bson.M{"$gte": startTime}
	}
	if endTime != "" {
		filter["schedule_details.end_time"] = bson.M{"$lte": endTime}
	}

	return s.col.Find(filter)
}

// Get returns one activity by name, or ErrActivityNotFound.
func (s *ActivityService) Get(name string) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(name)
}

func (s *ActivityService) get(name string) (bson.M, error) {
	doc, err := s.col.FindOne(bson.M{"_id": name})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrActivityNotFound
	}
	return doc, nil
}

// Signup registers a student email for an activity. It rejects duplicates
// and signups beyond max_participants.
func (s *ActivityService) Signup(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.get(name)
	if err != nil {
		return err
	}

	participants := participantList(doc)
	for _, p := range participants {
		if p == email {
			return ErrAlreadySignedUp
		}
	}
	if max, ok := doc["max_participants"].(int64); ok && int64(len(participants)) >= max {
		return ErrActivityFull
	}

	modified, err := s.col.UpdateOne(
		bson.M{"_id": name},
		bson.M{"$push": bson.M{"participants": email}},
	)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrActivityNotFound
	}

	s.logger.Infof("signed up %s for %s", email, name)
	return nil
}

// Unregister removes a student email from an activity's participant list.
func (s *ActivityService) Unregister(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.get(name)
	if err != nil {
		return err
	}

	found := false
	for _, p := range participantList(doc) {
		if p == email {
			found = true
			break
		}
	}
	if !found {
		return ErrNotSignedUp
	}

	modified, err := s.col.UpdateOne(
		bson.M{"_id": name},
		bson.M{"$pull": bson.M{"participants": email}},
	)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrActivityNotFound
	}

	s.logger.Infof("unregistered %s from %s", email, name)
	return nil
}

// Days returns the distinct weekday names on which any activity meets,
// sorted ascending.
func (s *ActivityService) Days() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.col.Aggregate([]bson.M{
		{"$unwind": "$schedule_details.days"},
		{"$group": bson.M{"_id": "$schedule_details.days"}},
		{"$sort": bson.D{{Key: "_id", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregating activity days: %w", err)
	}

	days := make([]string, 0, len(results))
	for _, doc := range results {
		if day, ok := doc["_id"].(string); ok {
			days = append(days, day)
		}
	}
	return days, nil
}

func participantList(doc bson.M) []string {
	seq, _ := doc["participants"].(bson.A)
	out := make([]string, 0, len(seq))
	for _, elem := range seq {
		if email, ok := elem.(string); ok {
			out = append(out, email)
		}
	}
	return out
}

package directors

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"mergington/src/auth"
	"mergington/src/memdb"
	"mergington/src/seed"
	"mergington/src/settings"
)

// TeacherService fronts the teachers collection: account lookup and login.
type TeacherService struct {
	col      *memdb.Collection
	settings *settings.Arguments
	logger   *zap.SugaredLogger
	mu       sync.Mutex
}

func NewTeacherService(store *memdb.Store, args *settings.Arguments, logger *zap.SugaredLogger) *TeacherService {
	return &TeacherService{
		col:      store.Collection(seed.TeachersCollection),
		settings: args,
		logger:   logger,
	}
}

// Login verifies a username/password pair and returns the account document
// with the password hash removed. An unknown username and a wrong password
// both come back as ErrInvalidCredentials.
func (s *TeacherService) Login(username, password string) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.col.FindOne(bson.M{"_id": username})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		s.logger.Debugf("login attempt for unknown user %s", username)
		return nil, ErrInvalidCredentials
	}

	hashed, _ := doc["password"].(string)
	if !auth.VerifyPassword(hashed, password) {
		s.logger.Debugf("failed login for %s", username)
		return nil, ErrInvalidCredentials
	}

	// Don't include password
	delete(doc, "password")
	s.logger.Infof("user %s logged in", username)
	return doc, nil
}

// Get returns one account by username with the password hash removed, or
// nil when the account does not exist.
func (s *TeacherService) Get(username string) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.col.FindOne(bson.M{"_id": username})
	if err != nil || doc == nil {
		return nil, err
	}
	delete(doc, "password")
	return doc, nil
}

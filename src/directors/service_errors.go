package directors

// Add custom error definitions here
import "errors"

var ErrActivityNotFound = errors.New("activity not found")
var ErrAlreadySignedUp = errors.New("student is already signed up")
var ErrActivityFull = errors.New("activity is full")
var ErrNotSignedUp = errors.New("student is not signed up for this activity")
var ErrInvalidCredentials = errors.New("invalid username or password")

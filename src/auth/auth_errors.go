package auth

// Add custom error definitions here
import "errors"

// ErrMalformedHash is returned internally when an encoded hash cannot be
// parsed. VerifyPassword folds it into a plain false.
var ErrMalformedHash = errors.New("malformed password hash")

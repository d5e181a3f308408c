package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// User is a configured API user. IDs are derived deterministically from the
// username so that memory sessions keyed by user ID survive restarts.
type User struct {
	ID       string
	Username string
	Email    string
	password string
}

// UserStore holds the users configured through the environment
type UserStore struct {
	byUsername map[string]User
}

// ParseUsers builds a store from the AUTH_USERS format: a comma-separated
// list of username:password[:email] entries. A missing email defaults to
// username@triforge.local.
func ParseUsers(raw string) (*UserStore, error) {
	store := &UserStore{byUsername: make(map[string]User)}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return store, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed user entry %q: want username:password[:email]", entry)
		}

		username := strings.TrimSpace(parts[0])
		password := parts[1]
		if username == "" || password == "" {
			return nil, fmt.Errorf("malformed user entry %q: empty username or password", entry)
		}
		if _, exists := store.byUsername[username]; exists {
			return nil, fmt.Errorf("duplicate user %q", username)
		}

		email := username + "@triforge.local"
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			email = strings.TrimSpace(parts[2])
		}

		store.byUsername[username] = User{
			ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String(),
			Username: username,
			Email:    email,
			password: password,
		}
	}

	return store, nil
}

// Authenticate verifies a username/password pair
func (s *UserStore) Authenticate(username, password string) (User, bool) {
	user, ok := s.byUsername[strings.TrimSpace(username)]
	if !ok {
		return User{}, false
	}
	if subtle.ConstantTimeCompare([]byte(user.password), []byte(password)) != 1 {
		return User{}, false
	}
	return user, true
}

// Lookup returns a configured user by username
func (s *UserStore) Lookup(username string) (User, bool) {
	user, ok := s.byUsername[strings.TrimSpace(username)]
	return user, ok
}

// Len returns the number of configured users
func (s *UserStore) Len() int {
	return len(s.byUsername)
}

// ABOUTME: Session model and Store for client authentication state
// ABOUTME: Synchronizes token/role/user to a KeyValueStore across restarts

package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/openhealth/carebridge/internal/kvstore"
)

// Role identifies which dashboard a user belongs to
type Role string

// Known roles
const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
)

// Known returns true for the two roles the application understands.
func (r Role) Known() bool {
	return r == RolePatient || r == RoleProvider
}

// User is the authenticated user's identity record
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserPatch is a partial update applied to the session user.
// Nil fields are left unchanged. ID and Role are deliberately absent: both
// are fixed at login and changing either would invalidate the token issued
// alongside them, so only the display fields are patchable.
type UserPatch struct {
	Name  *string
	Email *string
}

// Session is the in-memory authentication state. Token, Role, and User are
// set and cleared together; a Session is either fully populated or empty.
type Session struct {
	Token string
	Role  Role
	User  *User
}

// Authenticated returns true when a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Persistence keys for the three session entries
const (
	keyToken = "token"
	keyRole  = "role"
	keyUser  = "user"
)

// Store owns the Session and keeps it synchronized with a KeyValueStore.
// All mutations are atomic: no caller ever observes a half-updated session.
type Store struct {
	mu      sync.RWMutex
	kv      kvstore.KeyValueStore
	logger  *slog.Logger
	current Session

	subMu   sync.Mutex
	subs    map[int]func(Session)
	nextSub int
}

// NewStore creates a session store backed by the given KeyValueStore.
func NewStore(kv kvstore.KeyValueStore) *Store {
	return &Store{
		kv:     kv,
		logger: slog.Default().With("component", "session"),
		subs:   make(map[int]func(Session)),
	}
}

// Restore loads the persisted session, if any. It returns a populated Session
// only when all three entries are present and the user decodes as valid JSON
// with a known role; anything else yields the empty Session. Restore never
// fails: a damaged persisted session is logged and treated as "no session".
// Called once at process start.
func (s *Store) Restore() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.kv.Get(keyToken)
	if err != nil {
		s.logNoSession(err)
		return Session{}
	}
	roleStr, err := s.kv.Get(keyRole)
	if err != nil {
		s.logNoSession(err)
		return Session{}
	}
	userStr, err := s.kv.Get(keyUser)
	if err != nil {
		s.logNoSession(err)
		return Session{}
	}

	var user User
	if err := json.Unmarshal([]byte(userStr), &user); err != nil {
		s.logger.Warn("persisted user entry is unparsable, discarding session", "error", err)
		return Session{}
	}

	role := Role(roleStr)
	if token == "" || !role.Known() {
		s.logger.Warn("persisted session entries are invalid, discarding session")
		return Session{}
	}

	s.current = Session{Token: token, Role: role, User: &user}
	return s.current
}

// logNoSession records why restore produced an empty session. A plain
// missing key is the normal logged-out state and stays at debug level.
func (s *Store) logNoSession(err error) {
	if errors.Is(err, kvstore.ErrNotFound) {
		s.logger.Debug("no persisted session")
		return
	}
	s.logger.Warn("reading persisted session failed, treating as no session", "error", err)
}

// Current returns a copy of the session as of this call.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetAuth replaces the session wholesale and persists all three entries.
// Called after successful login or registration.
func (s *Store) SetAuth(token string, role Role, user User) error {
	s.mu.Lock()
	s.current = Session{Token: token, Role: role, User: &user}

	encoded, err := json.Marshal(user)
	if err != nil {
		// User is a plain struct; this only fires on a programming error.
		s.mu.Unlock()
		return err
	}

	err = firstErr(
		s.kv.Set(keyToken, token),
		s.kv.Set(keyRole, string(role)),
		s.kv.Set(keyUser, string(encoded)),
	)
	snapshot := s.current
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("persisting session failed", "error", err)
	}
	s.notify(snapshot)
	return err
}

// ClearAuth resets the session to empty and deletes all persisted entries.
// Called on logout.
func (s *Store) ClearAuth() error {
	s.mu.Lock()
	s.current = Session{}
	err := firstErr(
		s.kv.Delete(keyToken),
		s.kv.Delete(keyRole),
		s.kv.Delete(keyUser),
	)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("clearing persisted session failed", "error", err)
	}
	s.notify(Session{})
	return err
}

// UpdateUser shallow-merges the patch into the session user and rewrites only
// the persisted user entry. Token and role are untouched. A patch applied to
// an empty session is a no-op.
func (s *Store) UpdateUser(patch UserPatch) error {
	s.mu.Lock()
	if s.current.User == nil {
		s.mu.Unlock()
		return nil
	}

	user := *s.current.User
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	s.current.User = &user

	encoded, err := json.Marshal(user)
	if err == nil {
		err = s.kv.Set(keyUser, string(encoded))
	}
	snapshot := s.current
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("persisting user update failed", "error", err)
	}
	s.notify(snapshot)
	return err
}

// Subscribe registers an observer notified after every session change.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// notify delivers the new session state to all subscribers.
func (s *Store) notify(snapshot Session) {
	s.subMu.Lock()
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Session is the part of a login session the access service reads.
type Session struct {
	ID     string
	UserID string
}

type sessionPayload struct {
	Values map[string]string `json:"values"`
	UserID string            `json:"user_id"`
}

// SessionStore resolves session cookies against the Redis keys written by the
// storefront's login flow. It never creates or extends sessions.
type SessionStore struct {
	client     *redis.Client
	cookieName string
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, cookieName string) *SessionStore {
	return &SessionStore{client: client, cookieName: cookieName}
}

// CookieName returns the cookie identifier used for sessions.
func (s *SessionStore) CookieName() string {
	return s.cookieName
}

// Load returns the session referenced by the request cookie. A missing cookie
// or an expired session yields nil without error.
func (s *SessionStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}
	id := strings.TrimSpace(cookie.Value)
	if id == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("shared: load session: %w", err)
	}

	var stored sessionPayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("shared: decode session: %w", err)
	}
	return &Session{ID: id, UserID: strings.TrimSpace(stored.UserID)}, nil
}

// SessionKey is the Redis key holding the session payload.
func SessionKey(id string) string {
	return "session:" + id
}

// EncodeSession renders a payload in the stored format.
func EncodeSession(userID string) ([]byte, error) {
	return json.Marshal(sessionPayload{Values: map[string]string{}, UserID: userID})
}

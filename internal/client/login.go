// ABOUTME: Login flow: credential lookup, continuity-token issue, session establishment
// ABOUTME: Zero credential matches surface as ErrBadCredentials

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/openhealth/carebridge/internal/session"
)

// ErrBadCredentials is returned when no user matches the email and password.
var ErrBadCredentials = errors.New("invalid email or password")

// Login authenticates against the backend users collection and establishes
// the session. On success every subsequent guard evaluation sees the new
// session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	users, err := c.api.FindUsers(ctx, email, password)
	if err != nil {
		return session.Session{}, fmt.Errorf("looking up credentials: %w", err)
	}
	if len(users) == 0 {
		return session.Session{}, ErrBadCredentials
	}

	record := users[0]
	if !record.Role.Known() {
		return session.Session{}, fmt.Errorf("user %d has unknown role %q", record.ID, record.Role)
	}

	user := session.User{ID: record.ID, Name: record.Name, Email: record.Email, Role: record.Role}
	token, err := c.issuer.Issue(user)
	if err != nil {
		return session.Session{}, fmt.Errorf("issuing token: %w", err)
	}

	if err := c.sessions.SetAuth(token, user.Role, user); err != nil {
		// Session is established in memory; persistence failure only costs
		// restore-on-restart.
		c.logger.Warn("session persisted incompletely", "error", err)
	}

	c.logger.Info("logged in", "user", user.ID, "role", user.Role)
	return c.sessions.Current(), nil
}

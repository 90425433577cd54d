// ABOUTME: Registration flow: email existence check, user creation, session establishment
// ABOUTME: An already-registered email surfaces as ErrEmailTaken

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/session"
)

// Registration errors
var (
	ErrEmailTaken  = errors.New("email is already registered")
	ErrUnknownRole = errors.New("role must be patient or provider")
)

// Register creates a backend user and logs the new user in.
func (c *Client) Register(ctx context.Context, name, email, password string, role session.Role) (session.Session, error) {
	if !role.Known() {
		return session.Session{}, ErrUnknownRole
	}

	exists, err := c.api.UserExists(ctx, email)
	if err != nil {
		return session.Session{}, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return session.Session{}, ErrEmailTaken
	}

	created, err := c.api.CreateUser(ctx, api.NewUser{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return session.Session{}, fmt.Errorf("creating user: %w", err)
	}

	user := session.User{ID: created.ID, Name: created.Name, Email: created.Email, Role: role}
	token, err := c.issuer.Issue(user)
	if err != nil {
		return session.Session{}, fmt.Errorf("issuing token: %w", err)
	}

	if err := c.sessions.SetAuth(token, role, user); err != nil {
		c.logger.Warn("session persisted incompletely", "error", err)
	}

	c.logger.Info("registered", "user", user.ID, "role", role)
	return c.sessions.Current(), nil
}

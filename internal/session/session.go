// Package session models the admin login as an explicit value instead of a
// persisted flag: the TUI holds a Session and asks the Manager to advance it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/innkeeper/internal/clock"
	"github.com/jask/innkeeper/internal/database/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrExpired            = errors.New("session expired")
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
	Expired
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

type Session struct {
	State      State
	Username   string
	LastActive time.Time
}

func (s Session) Active() bool { return s.State == Authenticated }

// UserLookup is satisfied by *repository.UserRepo.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (repository.User, error)
}

type Manager struct {
	Users UserLookup
	Clock clock.Clock
	// IdleTimeout of zero disables expiry.
	IdleTimeout time.Duration
	Logger      *zap.Logger
}

func (m *Manager) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

// Login checks the credentials and returns an authenticated session. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	u, err := m.Users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		m.logger().Info("login rejected", zap.String("user", username), zap.String("reason", "unknown user"))
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		m.logger().Info("login rejected", zap.String("user", username), zap.String("reason", "bad password"))
		return Session{}, ErrInvalidCredentials
	}
	m.logger().Info("login", zap.String("user", u.Username))
	return Session{State: Authenticated, Username: u.Username, LastActive: clock.OrReal(m.Clock).Now()}, nil
}

// Touch records activity. A session idle for longer than IdleTimeout comes
// back Expired together with ErrExpired; other non-active sessions are
// returned unchanged.
func (m *Manager) Touch(s Session) (Session, error) {
	switch s.State {
	case Expired:
		return s, ErrExpired
	case Unauthenticated:
		return s, nil
	}
	c := clock.OrReal(m.Clock)
	if m.IdleTimeout > 0 && c.Since(s.LastActive) > m.IdleTimeout {
		m.logger().Info("session expired", zap.String("user", s.Username), zap.Duration("idle", c.Since(s.LastActive)))
		s.State = Expired
		return s, ErrExpired
	}
	s.LastActive = c.Now()
	return s, nil
}

// Check reports whether s has gone idle without recording activity.
func (m *Manager) Check(s Session) (Session, error) {
	if s.State != Authenticated {
		return m.Touch(s)
	}
	if m.IdleTimeout > 0 && clock.OrReal(m.Clock).Since(s.LastActive) > m.IdleTimeout {
		s.State = Expired
		return s, ErrExpired
	}
	return s, nil
}

func (m *Manager) Logout(s Session) Session {
	if s.Username != "" {
		m.logger().Info("logout", zap.String("user", s.Username))
	}
	return Session{}
}

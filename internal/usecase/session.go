package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"kickshop/internal/clients"
	"kickshop/internal/domain"
	"kickshop/internal/notify"
	"kickshop/internal/storage"
)

var _ domain.SessionStore = (*sessionStore)(nil)

// sessionStore implements domain.SessionStore. The token and profile are the
// only shared mutable state in the client; both live behind the mutex so a
// request always authorizes with the latest committed token.
type sessionStore struct {
	api      clients.ShopAPI
	tokens   storage.TokenStore
	notifier notify.Notifier
	log      *logrus.Logger

	mu    sync.Mutex
	token string
	user  *domain.UserProfile

	hooks []func(domain.SessionEvent)
}

func NewSessionStore(api clients.ShopAPI, tokens storage.TokenStore, notifier notify.Notifier, logger *logrus.Logger) domain.SessionStore {
	return &sessionStore{
		api:      api,
		tokens:   tokens,
		notifier: notifier,
		log:      logger,
	}
}

func (s *sessionStore) OnChange(fn func(domain.SessionEvent)) {
	s.hooks = append(s.hooks, fn)
}

func (s *sessionStore) Hydrate(ctx context.Context) {
	token, err := s.tokens.Load()
	if err != nil {
		s.log.Warnf("Session: Failed to load persisted token: %v", err)
		return
	}
	if token == "" {
		s.log.Info("Session: No persisted token, starting logged out")
		return
	}

	s.log.Info("Session: Restoring persisted token, resolving profile")
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.resolveProfile(ctx)
}

func (s *sessionStore) Login(ctx context.Context, email, password string) bool {
	s.log.Infof("Session: Attempting login for %s", email)

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		// One generic message for bad credentials and network failures
		// alike; the prior session stays untouched.
		s.log.Warnf("Session: Login failed for %s: %v", email, err)
		s.notifier.Error("Invalid email or password")
		return false
	}

	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Save(token); err != nil {
		s.log.Errorf("Session: Failed to persist token: %v", err)
	}

	s.notifier.Success("Logged in successfully")

	// Session is pending-resolution until the profile fetch completes; a
	// resolution failure forces a silent logout.
	return s.resolveProfile(ctx)
}

func (s *sessionStore) Register(ctx context.Context, email, password, fullName string) bool {
	s.log.Infof("Session: Attempting registration for %s", email)

	err := s.api.Register(ctx, email, password, fullName)
	if err != nil {
		s.log.Warnf("Session: Registration failed for %s: %v", email, err)
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			s.notifier.Error(apiErr.Detail)
		} else {
			s.notifier.Error("Registration failed. Please try again.")
		}
		return false
	}

	// Registration never authenticates; the user logs in explicitly.
	s.notifier.Success("Account created successfully. You can now log in.")
	return true
}

func (s *sessionStore) Logout() {
	s.log.Info("Session: Logging out")
	s.clearSession()
	s.notifier.Success("Logged out")
}

func (s *sessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *sessionStore) CurrentUser() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// resolveProfile fetches the profile for the committed token. Any failure,
// expired token or network error alike, forces a logout instead of retrying.
func (s *sessionStore) resolveProfile(ctx context.Context) bool {
	profile, err := s.api.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, clients.ErrUnauthorized) {
			s.log.Warnf("Session: Token rejected while resolving profile, forcing logout: %v", err)
		} else {
			s.log.Errorf("Session: Failed to resolve profile, forcing logout: %v", err)
		}
		// Forced logout is silent: no notification, profile simply reads
		// as absent afterwards.
		s.clearSession()
		return false
	}

	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()

	s.log.Infof("Session: Profile resolved for %s (ID %s)", profile.Email, profile.ID)
	s.fire(domain.SessionLogin)
	return true
}

// clearSession wipes the token and profile unconditionally. Safe to call in
// any state, which makes Logout idempotent.
func (s *sessionStore) clearSession() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.log.Errorf("Session: Failed to clear persisted token: %v", err)
	}
	s.fire(domain.SessionLogout)
}

// fire runs hooks outside the mutex so they can read session state freely.
func (s *sessionStore) fire(event domain.SessionEvent) {
	for _, fn := range s.hooks {
		fn(event)
	}
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kickshop/internal/clients"
	"kickshop/internal/domain"
	"kickshop/internal/notify"
	"kickshop/internal/storage"
)

func newSessionFixture() (*fakeShopAPI, *storage.MemoryTokenStore, *notify.Recorder, domain.SessionStore) {
	api := newFakeShopAPI()
	tokens := storage.NewMemoryTokenStore()
	recorder := notify.NewRecorder()
	session := NewSessionStore(api, tokens, recorder, testLogger())
	return api, tokens, recorder, session
}

func TestLoginSuccess(t *testing.T) {
	api, tokens, recorder, session := newSessionFixture()
	api.loginFn = func(email, password string) (string, error) {
		return "tok-1", nil
	}
	api.currentUserFn = func() (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1", Email: "jane@example.com", FullName: "Jane Doe"}, nil
	}

	var events []domain.SessionEvent
	session.OnChange(func(e domain.SessionEvent) { events = append(events, e) })

	ok := session.Login(context.Background(), "jane@example.com", "pw")

	require.True(t, ok)
	assert.Equal(t, "tok-1", session.Token())
	require.NotNil(t, session.CurrentUser())
	assert.Equal(t, "Jane Doe", session.CurrentUser().FullName)

	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", persisted)

	assert.Equal(t, []domain.SessionEvent{domain.SessionLogin}, events)
	assert.Len(t, recorder.Successes(), 1)
	assert.Empty(t, recorder.Errors())
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	api, tokens, recorder, session := newSessionFixture()
	api.loginFn = func(email, password string) (string, error) {
		return "", &clients.APIError{Status: http.StatusUnauthorized, Detail: "Incorrect email or password"}
	}

	ok := session.Login(context.Background(), "jane@example.com", "wrong")

	require.False(t, ok)
	assert.Empty(t, session.Token())
	assert.Nil(t, session.CurrentUser())

	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)

	// Exactly one generic failure notification, never revealing which
	// field was wrong.
	require.Len(t, recorder.Errors(), 1)
	assert.Equal(t, "Invalid email or password", recorder.Errors()[0])
	assert.Empty(t, recorder.Successes())

	// No cart traffic follows a failed login.
	assert.Zero(t, api.getCartCalls)
}

func TestLoginNetworkFailureReportsSameGenericMessage(t *testing.T) {
	api, _, recorder, session := newSessionFixture()
	api.loginFn = func(email, password string) (string, error) {
		return "", errors.New("connection refused")
	}

	require.False(t, session.Login(context.Background(), "jane@example.com", "pw"))
	require.Len(t, recorder.Errors(), 1)
	assert.Equal(t, "Invalid email or password", recorder.Errors()[0])
}

func TestLoginProfileResolutionFailureForcesSilentLogout(t *testing.T) {
	api, tokens, recorder, session := newSessionFixture()
	api.loginFn = func(email, password string) (string, error) {
		return "tok-1", nil
	}
	api.currentUserFn = func() (*domain.UserProfile, error) {
		return nil, &clients.APIError{Status: http.StatusUnauthorized}
	}

	ok := session.Login(context.Background(), "jane@example.com", "pw")

	require.False(t, ok)
	assert.Empty(t, session.Token())
	assert.Nil(t, session.CurrentUser())

	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)

	// The login itself notified once; the forced logout added nothing.
	assert.Len(t, recorder.Successes(), 1)
	assert.Empty(t, recorder.Errors())
}

func TestHydrateRestoresPersistedSession(t *testing.T) {
	api, tokens, recorder, session := newSessionFixture()
	require.NoError(t, tokens.Save("tok-old"))
	api.currentUserFn = func() (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1", Email: "jane@example.com"}, nil
	}

	var events []domain.SessionEvent
	session.OnChange(func(e domain.SessionEvent) { events = append(events, e) })

	session.Hydrate(context.Background())

	assert.Equal(t, "tok-old", session.Token())
	require.NotNil(t, session.CurrentUser())
	assert.Equal(t, []domain.SessionEvent{domain.SessionLogin}, events)
	assert.Empty(t, recorder.Successes(), "hydration is not a user-facing operation")
}

func TestHydrateWithStaleTokenForcesSilentLogout(t *testing.T) {
	api, tokens, recorder, session := newSessionFixture()
	require.NoError(t, tokens.Save("tok-stale"))
	api.currentUserFn = func() (*domain.UserProfile, error) {
		return nil, &clients.APIError{Status: http.StatusUnauthorized, Detail: "Could not validate credentials"}
	}

	session.Hydrate(context.Background())

	assert.Empty(t, session.Token())
	assert.Nil(t, session.CurrentUser())

	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted, "stale token must be purged from storage")

	assert.Empty(t, recorder.Successes())
	assert.Empty(t, recorder.Errors())
}

func TestHydrateWithoutPersistedTokenDoesNothing(t *testing.T) {
	api, _, _, session := newSessionFixture()
	api.currentUserFn = func() (*domain.UserProfile, error) {
		t.Fatal("profile must not be resolved without a token")
		return nil, nil
	}

	session.Hydrate(context.Background())

	assert.Empty(t, session.Token())
	assert.Nil(t, session.CurrentUser())
}

func TestLogoutIsIdempotent(t *testing.T) {
	api, tokens, _, session := newSessionFixture()
	api.loginFn = func(email, password string) (string, error) { return "tok-1", nil }
	api.currentUserFn = func() (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}
	require.True(t, session.Login(context.Background(), "jane@example.com", "pw"))

	var logouts int
	session.OnChange(func(e domain.SessionEvent) {
		if e == domain.SessionLogout {
			logouts++
		}
	})

	session.Logout()
	session.Logout()

	assert.Empty(t, session.Token())
	assert.Nil(t, session.CurrentUser())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
	assert.Equal(t, 2, logouts, "repeated logouts fire hooks but never error")
}

func TestLogoutClearsCartThroughSessionHook(t *testing.T) {
	api, tokens, _, session := newSessionFixture()
	api.loginFn = func(email, password string) (string, error) { return "tok-1", nil }
	api.currentUserFn = func() (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "u1"}, nil
	}
	api.getCartFn = func() ([]domain.CartItem, error) {
		return []domain.CartItem{{ID: "l1", ProductID: "p1", Quantity: 2}}, nil
	}

	cart := NewCartEngine(api, &noopCartView{}, notify.NewRecorder(), testLogger())
	session.OnChange(func(e domain.SessionEvent) {
		switch e {
		case domain.SessionLogin:
			cart.FetchCart(context.Background())
		case domain.SessionLogout:
			cart.Reset()
		}
	})

	require.True(t, session.Login(context.Background(), "jane@example.com", "pw"))
	require.Equal(t, 2, cart.Count())

	session.Logout()

	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.Count())
	assert.Equal(t, domain.CartUninitialized, cart.State())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestRegisterSurfacesServerDetail(t *testing.T) {
	api, _, recorder, session := newSessionFixture()
	api.registerFn = func(email, password, fullName string) error {
		return &clients.APIError{Status: http.StatusBadRequest, Detail: "Email already registered"}
	}

	require.False(t, session.Register(context.Background(), "taken@example.com", "pw", "Jane Doe"))
	require.Len(t, recorder.Errors(), 1)
	assert.Equal(t, "Email already registered", recorder.Errors()[0])
}

func TestRegisterFallsBackToGenericMessage(t *testing.T) {
	api, _, recorder, session := newSessionFixture()
	api.registerFn = func(email, password, fullName string) error {
		return errors.New("connection reset")
	}

	require.False(t, session.Register(context.Background(), "jane@example.com", "pw", "Jane Doe"))
	require.Len(t, recorder.Errors(), 1)
	assert.Equal(t, "Registration failed. Please try again.", recorder.Errors()[0])
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	api, _, recorder, session := newSessionFixture()
	api.registerFn = func(email, password, fullName string) error { return nil }

	require.True(t, session.Register(context.Background(), "new@example.com", "pw", "New User"))
	assert.Empty(t, session.Token())
	assert.Nil(t, session.CurrentUser())
	assert.Len(t, recorder.Successes(), 1)
}

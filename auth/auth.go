// ABOUTME: Session store tracking the signed-in identity and its profile row
// ABOUTME: Bootstraps missing profiles and notifies subscribers on auth changes
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harperreed/pitch/logging"
	"github.com/harperreed/pitch/models"
)

type State string

const (
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Identity is what the identity provider knows about a signed-in user.
type Identity struct {
	ID    string
	Email string
	// FullName comes from the provider's user metadata and may be empty.
	FullName string
}

// Provider is the hosted identity service.
type Provider interface {
	// CurrentSession returns nil, nil when nobody is signed in.
	CurrentSession(ctx context.Context) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
	// OnAuthStateChange registers fn for sign-in and sign-out events.
	// A nil identity means signed out.
	OnAuthStateChange(fn func(*Identity)) (unsubscribe func())
}

// ProfileStore reads and creates profile rows keyed by identity id.
type ProfileStore interface {
	// GetUser returns nil, nil when no row exists.
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type Listener func(State, *models.User)

type Store struct {
	provider Provider
	profiles ProfileStore
	logger   *log.Logger

	mu    sync.RWMutex
	state State
	user  *models.User

	// resolveMu serializes profile resolution so a sign-in and its
	// provider event cannot both insert the same profile.
	resolveMu sync.Mutex

	// Provider events that arrive while a resolve is running wait here,
	// latest wins. The provider may emit from inside a profile fetch.
	pendingMu  sync.Mutex
	pending    *Identity
	hasPending bool

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int

	startOnce   sync.Once
	closeOnce   sync.Once
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewStore(provider Provider, profiles ProfileStore, logger *log.Logger) *Store {
	return &Store{
		provider: provider,
		profiles: profiles,
		logger:   logging.OrDiscard(logger),
		state:    StateLoading,
		subs:     make(map[int]Listener),
	}
}

// Start resolves the current session and subscribes to provider changes.
// Calling it again is a no-op.
func (s *Store) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.ctx, s.cancel = context.WithCancel(ctx)
		s.unsubscribe = s.provider.OnAuthStateChange(s.handleChange)

		ident, err := s.provider.CurrentSession(ctx)
		if err != nil {
			s.logger.Warn("failed to read session", "err", err)
			s.set(StateAnonymous, nil)
			return
		}
		s.resolve(ctx, ident)
	})
}

// Close stops listening to the provider. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		if s.cancel != nil {
			s.cancel()
		}
	})
}

func (s *Store) handleChange(ident *Identity) {
	if ident != nil {
		if u := s.Current(); u != nil && u.ID == ident.ID {
			return
		}
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	s.pendingMu.Lock()
	if !s.resolveMu.TryLock() {
		s.pending, s.hasPending = ident, true
		s.pendingMu.Unlock()
		return
	}
	s.pendingMu.Unlock()
	s.resolveLocked(ctx, ident)
}

// SignIn authenticates with the provider and resolves the profile.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	ident, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		var authErr *Error
		if errors.As(err, &authErr) {
			return authErr
		}
		return &Error{Kind: KindProvider, Message: err.Error(), Err: err}
	}
	s.resolve(ctx, ident)
	if s.State() != StateAuthenticated {
		return &Error{Kind: KindProfile, Message: "signed in but the profile could not be loaded"}
	}
	return nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return &Error{Kind: KindProvider, Message: fmt.Sprintf("failed to sign out: %v", err), Err: err}
	}
	s.set(StateAnonymous, nil)
	return nil
}

// Refresh re-reads the current user's profile row, e.g. after a settings change.
func (s *Store) Refresh(ctx context.Context) error {
	current := s.Current()
	if current == nil {
		return &Error{Kind: KindNotSignedIn, Message: "not signed in"}
	}
	user, err := s.profiles.GetUser(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("failed to reload profile: %w", err)
	}
	if user == nil {
		return fmt.Errorf("profile %s no longer exists", current.ID)
	}
	s.set(StateAuthenticated, user)
	return nil
}

// Current returns a copy of the signed-in profile, or nil.
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for every state change.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
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

func (s *Store) resolve(ctx context.Context, ident *Identity) {
	s.resolveMu.Lock()
	s.resolveLocked(ctx, ident)
}

// resolveLocked runs with resolveMu held, then drains queued provider
// events before releasing it.
func (s *Store) resolveLocked(ctx context.Context, ident *Identity) {
	for {
		s.apply(ctx, ident)

		s.pendingMu.Lock()
		if !s.hasPending {
			s.resolveMu.Unlock()
			s.pendingMu.Unlock()
			return
		}
		ident = s.pending
		s.pending, s.hasPending = nil, false
		s.pendingMu.Unlock()
	}
}

func (s *Store) apply(ctx context.Context, ident *Identity) {
	if ident == nil {
		s.set(StateAnonymous, nil)
		return
	}

	user, err := s.profiles.GetUser(ctx, ident.ID)
	if err != nil {
		s.logger.Error("failed to fetch profile", "user_id", ident.ID, "err", err)
		s.set(StateAnonymous, nil)
		return
	}

	if user == nil {
		user = &models.User{
			ID:    ident.ID,
			Email: ident.Email,
			Name:  DisplayName(ident),
		}
		if err := s.profiles.CreateUser(ctx, user); err != nil {
			s.logger.Error("failed to create profile", "user_id", ident.ID, "err", err)
			s.set(StateAnonymous, nil)
			return
		}
		s.logger.Info("created profile", "user_id", user.ID, "name", user.Name)
	}

	s.set(StateAuthenticated, user)
}

func (s *Store) set(state State, user *models.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.mu.Unlock()

	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	snapshot := s.Current()
	for _, fn := range listeners {
		fn(state, snapshot)
	}
}

// DisplayName picks the metadata name, else the email local part, else "User".
func DisplayName(ident *Identity) string {
	if name := strings.TrimSpace(ident.FullName); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(ident.Email, "@"); local != "" {
		return local
	}
	return "User"
}

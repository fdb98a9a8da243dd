// Package session owns the authenticated identity and the simulated
// credential registry, and gates cart access on it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/domain"
)

// State is the gate's authentication state.
type State string

const (
	StateAnonymous     State = "ANONYMOUS"
	StateAuthenticated State = "AUTHENTICATED"
)

// transitions enumerates the legal moves. Logging in while already
// authenticated replaces the identity rather than failing, and logging
// out while anonymous is an idempotent no-op.
var transitions = map[State][]State{
	StateAnonymous:     {StateAnonymous, StateAuthenticated},
	StateAuthenticated: {StateAnonymous, StateAuthenticated},
}

var (
	// ErrInvalidCredentials is the single failure reason for login;
	// unknown email and wrong password are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrIllegalTransition = errors.New("illegal session state transition")
)

// Gate is the session state machine. It is owned by exactly one logical
// session; the mutex only protects against readers on other goroutines.
type Gate struct {
	registry Registry
	hasher   Hasher
	store    SessionStore
	log      *zap.Logger

	// dummyHash is compared against when the email is unknown so a failed
	// login costs the same either way.
	dummyHash string

	mu      sync.RWMutex
	state   State
	session *domain.Session
}

func NewGate(registry Registry, hasher Hasher, store SessionStore, log *zap.Logger) (*Gate, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dummy, err := hasher.Hash("shophub-dummy-credential")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Gate{
		registry:  registry,
		hasher:    hasher,
		store:     store,
		log:       log,
		dummyHash: dummy,
		state:     StateAnonymous,
	}, nil
}

// Login authenticates against the registry and persists the session.
func (g *Gate) Login(ctx context.Context, email, password string) (domain.Session, error) {
	rec, err := g.registry.FindByEmail(ctx, email)
	if errors.Is(err, ErrRecordNotFound) {
		_ = g.hasher.Compare(g.dummyHash, password)
		return domain.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("look up credentials: %w", err)
	}

	if err := g.hasher.Compare(rec.PasswordHash, password); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	sess := rec.Session()
	if err := g.authenticate(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	g.log.Info("login succeeded", zap.Int64("user_id", sess.UserID))
	return sess, nil
}

// Register creates a credential record and immediately logs the new user
// in. A duplicate email leaves any existing session untouched.
func (g *Gate) Register(ctx context.Context, email, password, name string) (domain.Session, error) {
	hash, err := g.hasher.Hash(password)
	if err != nil {
		return domain.Session{}, err
	}

	rec, err := g.registry.Insert(ctx, email, hash, name)
	if err != nil {
		return domain.Session{}, err
	}

	sess := rec.Session()
	if err := g.authenticate(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	g.log.Info("registration succeeded", zap.Int64("user_id", sess.UserID))
	return sess, nil
}

// Logout drops the identity and clears the persisted session.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.transition(StateAnonymous, nil); err != nil {
		return err
	}
	if err := g.store.Clear(ctx); err != nil {
		g.log.Warn("clear persisted session failed", zap.Error(err))
	}
	return nil
}

// Restore re-authenticates from the persisted session at startup. The
// persisted record is trusted as-is, without a credential check. No
// persisted session is not an error.
func (g *Gate) Restore(ctx context.Context) error {
	sess, err := g.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load persisted session: %w", err)
	}
	if err := g.transition(StateAuthenticated, sess); err != nil {
		return err
	}
	g.log.Info("session restored", zap.Int64("user_id", sess.UserID))
	return nil
}

// Authenticated reports whether a visitor is signed in. It satisfies
// cart.Authorizer.
func (g *Gate) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state == StateAuthenticated
}

// Current returns the signed-in identity, if any.
func (g *Gate) Current() (domain.Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return domain.Session{}, false
	}
	return *g.session, true
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) authenticate(ctx context.Context, sess domain.Session) error {
	if err := g.transition(StateAuthenticated, &sess); err != nil {
		return err
	}
	// Persistence failure does not undo the login; the session just won't
	// survive a restart.
	if err := g.store.Save(ctx, sess); err != nil {
		g.log.Warn("persist session failed", zap.Error(err))
	}
	return nil
}

func (g *Gate) transition(to State, sess *domain.Session) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, allowed := range transitions[g.state] {
		if allowed == to {
			g.state = to
			g.session = sess
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, g.state, to)
}

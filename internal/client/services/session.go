package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/tokenstore"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// State is the lifecycle state of a session.
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SessionService owns the signed-in user and the credential.
//
// Contract:
//   - Start: resolve a stored credential into a user, once at startup.
//   - SignUp / SignIn: authenticate, persist the credential, load the user.
//   - UpdateProfile / ReplaceProfile: change preference fields only.
//   - RefreshUser: reload identity and profile from the server.
//   - SignOut: forget the credential and the user, locally only.
//   - Authorize / WithOptionalAuth: attach the credential to a call context.
//
// Readers get copies of the user; only the session writes it.
type SessionService interface {
	Start(ctx context.Context) error
	SignUp(ctx context.Context, email, password, name string) error
	SignIn(ctx context.Context, email, password string) error
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	ReplaceProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	RefreshUser(ctx context.Context) error
	SignOut(ctx context.Context) error

	State() State
	Loading() bool
	IsAuthenticated() bool
	CurrentUser() *models.User

	Authorize(ctx context.Context) (context.Context, error)
	WithOptionalAuth(ctx context.Context) context.Context
}

type sessionService struct {
	client client.Client
	store  tokenstore.Store
	log    logging.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state State
	user  *models.User
	cred  models.Credential
}

func NewSessionService(c client.Client, store tokenstore.Store, log logging.Logger) SessionService {
	if log == nil {
		log = logging.Nop()
	}
	return &sessionService{
		client: c,
		store:  store,
		log:    log.With("component", "session"),
		now:    time.Now,
	}
}

func (s *sessionService) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *sessionService) becomeAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.cred = models.Credential{}
	s.mu.Unlock()
}

func (s *sessionService) becomeAuthenticated(u models.User, cred models.Credential) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &u
	s.cred = cred
	s.mu.Unlock()
}

func (s *sessionService) fetchUser(ctx context.Context) (models.User, error) {
	id, err := s.client.Me(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch identity: %w", err)
	}
	p, err := s.client.GetProfile(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	return models.MergeUser(p, id), nil
}

func (s *sessionService) discardStored(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear stored credential", "error", err)
	}
}

// Start resolves a previously stored credential. A credential whose token has
// already expired is dropped without asking the server. Any failure to resolve
// the user drops the credential and leaves the session anonymous.
func (s *sessionService) Start(ctx context.Context) error {
	cred, ok, err := s.store.Load(ctx)
	if err != nil {
		s.becomeAnonymous()
		return fmt.Errorf("start session: %w", err)
	}
	if !ok {
		s.becomeAnonymous()
		return nil
	}

	if !cred.Valid(s.now()) {
		s.log.Info(ctx, "stored credential expired")
		s.discardStored(ctx)
		s.becomeAnonymous()
		return nil
	}

	s.setState(StateResolving)
	u, err := s.fetchUser(client.WithCredential(ctx, cred))
	if err != nil {
		s.log.Warn(ctx, "stored credential rejected", "error", err)
		s.discardStored(ctx)
		s.becomeAnonymous()
		return nil
	}

	s.becomeAuthenticated(u, cred)
	s.log.Info(ctx, "session restored", "user_id", u.ID)
	return nil
}

func (s *sessionService) SignUp(ctx context.Context, email, password, name string) error {
	if err := validateInput(signUpInput{Email: email, Password: password, Name: name}); err != nil {
		return err
	}
	res, err := s.client.Register(ctx, email, password, name)
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

func (s *sessionService) SignIn(ctx context.Context, email, password string) error {
	if err := validateInput(signInInput{Email: email, Password: password}); err != nil {
		return err
	}
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

// establish loads the profile with the issued credential, then persists the
// credential. A profile failure is returned and leaves the session and the
// store as they were. The session is usable even if persisting fails; it
// just won't survive a restart.
func (s *sessionService) establish(ctx context.Context, res models.AuthResult) error {
	p, err := s.client.GetProfile(client.WithCredential(ctx, res.Tokens))
	if err != nil {
		s.log.Warn(ctx, "profile not loaded", "user_id", res.User.ID, "error", err)
		return fmt.Errorf("load profile: %w", err)
	}

	if err := s.store.Save(ctx, res.Tokens); err != nil {
		s.log.Error(ctx, "failed to persist credential", "error", err)
	}

	s.becomeAuthenticated(models.MergeUser(p, res.User), res.Tokens)
	s.log.Info(ctx, "signed in", "user_id", res.User.ID)
	return nil
}

func (s *sessionService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	return s.updateProfile(ctx, upd, false)
}

func (s *sessionService) ReplaceProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	return s.updateProfile(ctx, upd, true)
}

func (s *sessionService) updateProfile(ctx context.Context, upd models.ProfileUpdate, replace bool) (*models.User, error) {
	authCtx, err := s.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}
	current := s.CurrentUser()
	if current == nil {
		return nil, common.ErrAuthRequired
	}
	userID := current.ID

	p, err := s.client.UpdateProfile(authCtx, upd, replace)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.ID != userID {
		return nil, common.ErrAuthRequired
	}
	s.user.ApplyProfile(p)
	return s.user.Clone(), nil
}

// RefreshUser reloads identity and profile. A rejected credential ends the
// session.
func (s *sessionService) RefreshUser(ctx context.Context) error {
	authCtx, err := s.Authorize(ctx)
	if err != nil {
		return err
	}
	cred, _ := client.CredentialFrom(authCtx)

	u, err := s.fetchUser(authCtx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.discardStored(ctx)
			s.becomeAnonymous()
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthenticated && s.cred == cred {
		s.user = &u
	}
	return nil
}

// SignOut resets the session even when the stored credential cannot be
// removed; the storage error is still returned.
func (s *sessionService) SignOut(ctx context.Context) error {
	s.becomeAnonymous()

	if err := s.store.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear stored credential", "error", err)
		return fmt.Errorf("sign out: %w", err)
	}
	s.log.Info(ctx, "signed out")
	return nil
}

func (s *sessionService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *sessionService) Loading() bool {
	return s.State() == StateResolving
}

func (s *sessionService) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *sessionService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *sessionService) Authorize(ctx context.Context) (context.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.cred.IsZero() {
		return ctx, common.ErrAuthRequired
	}
	return client.WithCredential(ctx, s.cred), nil
}

func (s *sessionService) WithOptionalAuth(ctx context.Context) context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated {
		return ctx
	}
	return client.WithCredential(ctx, s.cred)
}

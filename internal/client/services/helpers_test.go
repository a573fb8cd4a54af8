package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/testapi"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory tokenstore.Store with injectable failures.
type memStore struct {
	mu sync.Mutex

	cred  models.Credential
	saved bool

	SaveErr  error
	LoadErr  error
	ClearErr error

	Saves  int
	Clears int

	// OnLoad, when set, runs at the start of every Load.
	OnLoad func()
}

func (m *memStore) Save(ctx context.Context, c models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.cred, m.saved = c, true
	return nil
}

func (m *memStore) Load(ctx context.Context) (models.Credential, bool, error) {
	if m.OnLoad != nil {
		m.OnLoad()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return models.Credential{}, false, m.LoadErr
	}
	return m.cred, m.saved && !m.cred.IsZero(), nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.cred, m.saved = models.Credential{}, false
	return nil
}

func (m *memStore) stored() (models.Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred, m.saved
}

type fixture struct {
	srv     *testapi.Server
	api     *client.HTTPClient
	store   *memStore
	session SessionService
	recipes RecipeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := testapi.New(t)
	api, err := client.NewHTTPClient(srv.URL, 5*time.Second, logging.Nop())
	require.NoError(t, err)

	store := &memStore{}
	session := NewSessionService(api, store, logging.Nop())
	return &fixture{
		srv:     srv,
		api:     api,
		store:   store,
		session: session,
		recipes: NewRecipeService(api, session, logging.Nop(), time.Second),
	}
}

// signIn creates an account on the fake backend and signs the session in.
func (f *fixture) signIn(t *testing.T, email string, diets, allergies []string) models.Identity {
	t.Helper()
	id := f.srv.AddUser(email, "secret1", "Tester", diets, allergies)
	require.NoError(t, f.session.SignIn(context.Background(), email, "secret1"))
	require.True(t, f.session.IsAuthenticated())
	return id
}

// capturePresenter records every delivered substitution.
type capturePresenter struct {
	mu    sync.Mutex
	calls []models.SubstitutionResult
	last  models.Ingredient
}

func (p *capturePresenter) ShowSubstitution(ing models.Ingredient, res models.SubstitutionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, res)
	p.last = ing
}

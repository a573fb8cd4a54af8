package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/config"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/services"
	"github.com/dmitrijs2005/recipekeeper/internal/client/tokenstore"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/filex"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	session services.SessionService
	recipes services.RecipeService
	db      *sql.DB
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	mu    sync.Mutex
	mode  Mode
	cards map[int64]*services.RecipeCard
}

// NewApp wires storage, the API client and the services from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, os.Stderr)

	if _, err := filex.EnsureParentDir(c.DBPath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	session := services.NewSessionService(api, tokenstore.NewSQLiteStore(db), logger)
	recipes := services.NewRecipeService(api, session, logger, c.SubstitutionTimeout)

	app := newApp(session, recipes, logger, bufio.NewReader(os.Stdin), os.Stdout)
	app.config = c
	app.db = db
	return app, nil
}

func newApp(session services.SessionService, recipes services.RecipeService, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	return &App{
		config:  &config.Config{},
		session: session,
		recipes: recipes,
		log:     log,
		reader:  r,
		out:     w,
		cards:   map[int64]*services.RecipeCard{},
	}
}

// Run restores the previous session, starts the connectivity watcher and
// blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.session.Start(ctx); err != nil {
		a.log.Warn(ctx, "session not restored", "error", err)
	}

	fmt.Fprintln(a.out, "Welcome to Recipe Keeper CLI (type 'help' for commands)")
	if u := a.session.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	var parts []string
	if u := a.session.CurrentUser(); u != nil {
		parts = append(parts, u.Email)
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.recipes.Ping(pingCtx); err != nil {
			a.setMode(ctx, ModeOffline)
			return
		}
		a.setMode(ctx, ModeOnline)
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a recipe id", common.ErrValidation, raw)
	}
	return id, nil
}

// newCard renders r into a fresh card that replaces any earlier one for the
// same recipe.
func (a *App) newCard(r models.Recipe) *services.RecipeCard {
	card := a.recipes.NewCard(r, services.WithPresenter(a))
	a.mu.Lock()
	a.cards[r.ID] = card
	a.mu.Unlock()
	return card
}

// card returns the card rendered last for id, fetching the recipe if it has
// not been shown yet.
func (a *App) card(ctx context.Context, rawID string) (*services.RecipeCard, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	card, ok := a.cards[id]
	a.mu.Unlock()
	if ok {
		return card, nil
	}

	r, err := a.recipes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.newCard(r), nil
}

func (a *App) forgetCards() {
	a.mu.Lock()
	a.cards = map[int64]*services.RecipeCard{}
	a.mu.Unlock()
}

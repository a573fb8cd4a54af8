package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

const DefaultSubstitutionTimeout = 30 * time.Second

// SubstitutionPresenter receives substitution results for display.
type SubstitutionPresenter interface {
	ShowSubstitution(ingredient models.Ingredient, res models.SubstitutionResult)
}

type CardOption func(*RecipeCard)

// WithPresenter delivers successful substitutions to p.
func WithPresenter(p SubstitutionPresenter) CardOption {
	return func(c *RecipeCard) { c.presenter = p }
}

// WithSubstitutionTimeout bounds each substitution request. Zero or negative
// disables the bound.
func WithSubstitutionTimeout(d time.Duration) CardOption {
	return func(c *RecipeCard) { c.timeout = d }
}

// RecipeCard is one rendered recipe. Mutations wait for the server's answer
// and then write only the fields that answer covers.
type RecipeCard struct {
	state     *RecipeState
	session   SessionService
	client    client.Client
	log       logging.Logger
	timeout   time.Duration
	presenter SubstitutionPresenter

	subMu    sync.Mutex
	inFlight *models.Ingredient
}

func NewRecipeCard(r models.Recipe, session SessionService, c client.Client, log logging.Logger, opts ...CardOption) *RecipeCard {
	if log == nil {
		log = logging.Nop()
	}
	card := &RecipeCard{
		state:   NewRecipeState(r),
		session: session,
		client:  c,
		log:     log.With("recipe_id", r.ID),
		timeout: DefaultSubstitutionTimeout,
	}
	for _, opt := range opts {
		opt(card)
	}
	return card
}

func (c *RecipeCard) Recipe() models.Recipe {
	return c.state.Snapshot()
}

func (c *RecipeCard) Deleted() bool {
	return c.state.Deleted()
}

// IsOwner tells whether the current user authored the recipe. It only
// decides what to offer; the server still has the final word.
func (c *RecipeCard) IsOwner() bool {
	u := c.session.CurrentUser()
	return u != nil && u.ID == c.state.AuthorID()
}

func (c *RecipeCard) authorize(ctx context.Context) (context.Context, error) {
	if c.state.Deleted() {
		return ctx, fmt.Errorf("%w: recipe was deleted", common.ErrNotFound)
	}
	return c.session.Authorize(ctx)
}

// ToggleFavorite flips the favorite flag on the server and adopts the flag
// the server reports.
func (c *RecipeCard) ToggleFavorite(ctx context.Context) (bool, error) {
	authCtx, err := c.authorize(ctx)
	if err != nil {
		return false, err
	}

	fav, err := c.client.ToggleFavorite(authCtx, c.state.ID())
	if err != nil {
		c.log.Warn(ctx, "toggle favorite failed", "error", err)
		return false, err
	}

	c.state.SetFavorited(fav)
	return fav, nil
}

// Rate sends score (1..5) and adopts the server's new average.
func (c *RecipeCard) Rate(ctx context.Context, score int) (float64, error) {
	authCtx, err := c.authorize(ctx)
	if err != nil {
		return 0, err
	}
	if err := validateInput(rateInput{Score: score}); err != nil {
		return 0, err
	}

	avg, err := c.client.Rate(authCtx, c.state.ID(), score)
	if err != nil {
		c.log.Warn(ctx, "rate failed", "score", score, "error", err)
		return 0, err
	}

	c.state.SetRating(score, avg)
	return avg, nil
}

// Delete removes the recipe. Non-authors are refused without a request; a
// server refusal is returned with the server's message.
func (c *RecipeCard) Delete(ctx context.Context) error {
	authCtx, err := c.authorize(ctx)
	if err != nil {
		return err
	}
	if !c.IsOwner() {
		return fmt.Errorf("%w: only the author can delete this recipe", common.ErrPermissionDenied)
	}

	if err := c.client.DeleteRecipe(authCtx, c.state.ID()); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.state.MarkDeleted()
		}
		c.log.Warn(ctx, "delete failed", "error", err)
		return err
	}

	c.state.MarkDeleted()
	c.log.Info(ctx, "recipe deleted")
	return nil
}

// Substituting reports the ingredient whose substitution is pending.
func (c *RecipeCard) Substituting() (models.Ingredient, bool) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.inFlight == nil {
		return models.Ingredient{}, false
	}
	return *c.inFlight, true
}

func (c *RecipeCard) claim(ing models.Ingredient) (*models.Ingredient, bool) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.inFlight != nil {
		return nil, false
	}
	c.inFlight = &ing
	return c.inFlight, true
}

func (c *RecipeCard) release(token *models.Ingredient) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.inFlight == token {
		c.inFlight = nil
	}
}

// RequestSubstitution asks for alternatives to the named ingredient,
// personalized with the current user's restrictions and allergies. Only one
// request per card may be pending.
func (c *RecipeCard) RequestSubstitution(ctx context.Context, name string) (models.SubstitutionResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.SubstitutionResult{}, fmt.Errorf("%w: ingredient is required", common.ErrValidation)
	}

	ing, ok := c.state.Ingredient(name)
	if !ok {
		ing = models.Ingredient{Name: name}
	}

	token, ok := c.claim(ing)
	if !ok {
		return models.SubstitutionResult{}, common.ErrSubstitutionInFlight
	}
	defer c.release(token)

	req := models.NewSubstitutionRequest(ing.Name, c.session.CurrentUser())

	callCtx := c.session.WithOptionalAuth(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, c.timeout)
		defer cancel()
	}

	res, err := c.client.Substitute(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			c.log.Warn(ctx, "substitution timed out", "ingredient", ing.Name, "timeout", c.timeout)
			return models.SubstitutionResult{}, fmt.Errorf("%w: %s after %s", common.ErrSubstitutionTimeout, ing.Name, c.timeout)
		}
		c.log.Warn(ctx, "substitution failed", "ingredient", ing.Name, "error", err)
		return models.SubstitutionResult{}, fmt.Errorf("%w: %w", common.ErrSubstitutionFailed, err)
	}
	if res.Alternatives == nil {
		res.Alternatives = []models.Alternative{}
	}

	c.release(token)
	if c.presenter != nil {
		c.presenter.ShowSubstitution(ing, res)
	}
	return res, nil
}

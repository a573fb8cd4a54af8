package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// RecipeService browses and creates recipes and builds cards for them.
// Reads are sent with the credential when there is one, so per-user fields
// (is_favorited, user_rating) come back filled.
type RecipeService interface {
	List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error)
	ByAuthor(ctx context.Context, authorID int64) ([]models.Recipe, error)
	Favorites(ctx context.Context) ([]models.Recipe, error)
	Get(ctx context.Context, id int64) (models.Recipe, error)
	Create(ctx context.Context, d models.RecipeDraft) (models.Recipe, error)
	Generate(ctx context.Context, ingredients string) (models.RecipeDraft, error)
	Ping(ctx context.Context) error

	// NewCard wraps r in a card bound to this service's session and client.
	NewCard(r models.Recipe, opts ...CardOption) *RecipeCard
}

type recipeService struct {
	client     client.Client
	session    SessionService
	log        logging.Logger
	subTimeout time.Duration
}

func NewRecipeService(c client.Client, session SessionService, log logging.Logger, subTimeout time.Duration) RecipeService {
	if log == nil {
		log = logging.Nop()
	}
	if subTimeout <= 0 {
		subTimeout = DefaultSubstitutionTimeout
	}
	return &recipeService{
		client:     c,
		session:    session,
		log:        log,
		subTimeout: subTimeout,
	}
}

func (s *recipeService) List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	return s.client.ListRecipes(s.session.WithOptionalAuth(ctx), f)
}

func (s *recipeService) ByAuthor(ctx context.Context, authorID int64) ([]models.Recipe, error) {
	if authorID <= 0 {
		return nil, fmt.Errorf("%w: author id must be positive", common.ErrValidation)
	}
	return s.List(ctx, models.RecipeFilter{AuthorID: authorID})
}

func (s *recipeService) Favorites(ctx context.Context) ([]models.Recipe, error) {
	authCtx, err := s.session.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.MyFavorites(authCtx)
}

func (s *recipeService) Get(ctx context.Context, id int64) (models.Recipe, error) {
	if id <= 0 {
		return models.Recipe{}, fmt.Errorf("%w: recipe id must be positive", common.ErrValidation)
	}
	return s.client.GetRecipe(s.session.WithOptionalAuth(ctx), id)
}

func (s *recipeService) Create(ctx context.Context, d models.RecipeDraft) (models.Recipe, error) {
	authCtx, err := s.session.Authorize(ctx)
	if err != nil {
		return models.Recipe{}, err
	}
	if err := validateInput(d); err != nil {
		return models.Recipe{}, err
	}

	r, err := s.client.CreateRecipe(authCtx, d)
	if err != nil {
		return models.Recipe{}, err
	}
	s.log.Info(ctx, "recipe created", "recipe_id", r.ID)
	return r, nil
}

func (s *recipeService) Generate(ctx context.Context, ingredients string) (models.RecipeDraft, error) {
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return models.RecipeDraft{}, fmt.Errorf("%w: list at least one ingredient", common.ErrValidation)
	}
	return s.client.GenerateRecipe(s.session.WithOptionalAuth(ctx), ingredients)
}

func (s *recipeService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *recipeService) NewCard(r models.Recipe, opts ...CardOption) *RecipeCard {
	base := []CardOption{WithSubstitutionTimeout(s.subTimeout)}
	return NewRecipeCard(r, s.session, s.client, s.log, append(base, opts...)...)
}

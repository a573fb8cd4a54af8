package client

import (
	"context"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// Client is the backend contract consumed by the client services. Calls that
// need a signed-in user read the credential from ctx (see WithCredential).
type Client interface {
	Register(ctx context.Context, email, password, name string) (models.AuthResult, error)
	Login(ctx context.Context, email, password string) (models.AuthResult, error)
	Me(ctx context.Context) (models.Identity, error)
	GetProfile(ctx context.Context) (models.Profile, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate, replace bool) (models.Profile, error)

	ListRecipes(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error)
	MyFavorites(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (models.Recipe, error)
	CreateRecipe(ctx context.Context, d models.RecipeDraft) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error

	ToggleFavorite(ctx context.Context, id int64) (bool, error)
	Rate(ctx context.Context, id int64, score int) (float64, error)
	Substitute(ctx context.Context, req models.SubstitutionRequest) (models.SubstitutionResult, error)
	GenerateRecipe(ctx context.Context, ingredients string) (models.RecipeDraft, error)

	Ping(ctx context.Context) error
}

package services

import (
	"sync"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// RecipeState is the copy of a recipe owned by one card. Copies held by
// different cards are independent and are not kept in sync.
type RecipeState struct {
	mu      sync.RWMutex
	recipe  models.Recipe
	deleted bool
}

func NewRecipeState(r models.Recipe) *RecipeState {
	return &RecipeState{recipe: r.Clone()}
}

func (s *RecipeState) ID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipe.ID
}

func (s *RecipeState) AuthorID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipe.Author.ID
}

// Snapshot returns a deep copy safe to hand out.
func (s *RecipeState) Snapshot() models.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipe.Clone()
}

func (s *RecipeState) SetFavorited(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipe.IsFavorited = v
}

// SetRating stores the caller's score and the server-computed average.
func (s *RecipeState) SetRating(score int, avg float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipe.UserRating = &score
	s.recipe.RatingAvg = avg
}

func (s *RecipeState) MarkDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = true
}

func (s *RecipeState) Deleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleted
}

// Ingredient looks an ingredient up by name, ignoring case.
func (s *RecipeState) Ingredient(name string) (models.Ingredient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipe.IngredientByName(name)
}

// Package models defines the client-side view of the recipe service: users,
// credentials, recipes and substitution payloads, with the JSON shapes used
// on the wire.
package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Ingredient struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Notes  string `json:"notes,omitempty"`
}

// Recipe is the per-view model of a recipe as served by /recipes/.
type Recipe struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Ingredients   []Ingredient `json:"ingredients"`
	Instructions  []string     `json:"instructions"`
	PrepTime      int          `json:"prep_time"`
	CookTime      int          `json:"cook_time"`
	Servings      int          `json:"servings"`
	Category      string       `json:"category"`
	Tags          []string     `json:"tags"`
	DietaryLabels []string     `json:"dietary_labels"`
	ImageURL      string       `json:"image_url"`
	IsPublic      bool         `json:"is_public"`
	Author        Author       `json:"author"`
	IsFavorited   bool         `json:"is_favorited"`
	UserRating    *int         `json:"user_rating"`
	RatingAvg     float64      `json:"rating_avg"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Rating returns the caller's own score, 0 when not rated.
func (r Recipe) Rating() int {
	if r.UserRating == nil {
		return 0
	}
	return *r.UserRating
}

func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// IngredientByName finds an ingredient of this recipe, ignoring case.
func (r Recipe) IngredientByName(name string) (Ingredient, bool) {
	for _, ing := range r.Ingredients {
		if strings.EqualFold(ing.Name, name) {
			return ing, true
		}
	}
	return Ingredient{}, false
}

func (r Recipe) Clone() Recipe {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = append(make([]Ingredient, 0, len(r.Ingredients)), r.Ingredients...)
	}
	c.Instructions = cloneStrings(r.Instructions)
	c.Tags = cloneStrings(r.Tags)
	c.DietaryLabels = cloneStrings(r.DietaryLabels)
	if r.UserRating != nil {
		v := *r.UserRating
		c.UserRating = &v
	}
	return c
}

// RecipeDraft is the body of POST /recipes/ and the result of AI generation.
type RecipeDraft struct {
	Title        string       `json:"title" validate:"required,max=255"`
	Description  string       `json:"description" validate:"required"`
	PrepTime     int          `json:"prep_time" validate:"gte=0"`
	CookTime     int          `json:"cook_time" validate:"gte=0"`
	Servings     int          `json:"servings" validate:"gte=1"`
	Category     string       `json:"category,omitempty"`
	Ingredients  []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string     `json:"instructions"`
	Tags         []string     `json:"tags,omitempty"`
}

// RecipeFilter narrows GET /recipes/.
type RecipeFilter struct {
	Search   string
	Category string
	Ordering string
	AuthorID int64
}

func (f RecipeFilter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	if f.AuthorID != 0 {
		q.Set("author", strconv.FormatInt(f.AuthorID, 10))
	}
	return q
}

package testapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.optionalUser(w, r); !ok {
		return
	}

	var in models.SubstitutionRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Ingredient) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Ingredient is required"})
		return
	}

	s.mu.Lock()
	alts, ok := s.swaps[strings.ToLower(in.Ingredient)]
	if !ok {
		alts = []models.Alternative{
			{Name: s.faker.Vegetable(), Reason: s.faker.Sentence(6)},
			{Name: s.faker.Fruit(), Reason: s.faker.Sentence(6), TextureImpact: s.faker.Sentence(4)},
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.SubstitutionResult{Alternatives: alts})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.optionalUser(w, r); !ok {
		return
	}

	var in struct {
		Ingredients string `json:"ingredients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Ingredients) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Ingredients are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ings []models.Ingredient
	for _, name := range strings.Split(in.Ingredients, ",") {
		if name = strings.TrimSpace(name); name != "" {
			ing := s.fakeIngredient(name)
			ing.ID = 0
			ings = append(ings, ing)
		}
	}

	writeJSON(w, http.StatusOK, models.RecipeDraft{
		Title:        s.faker.Dinner(),
		Description:  s.faker.Sentence(10),
		PrepTime:     s.faker.Number(5, 20),
		CookTime:     s.faker.Number(10, 60),
		Servings:     s.faker.Number(1, 6),
		Category:     "Dinner",
		Ingredients:  ings,
		Instructions: []string{s.faker.Sentence(6), s.faker.Sentence(6), s.faker.Sentence(6)},
	})
}

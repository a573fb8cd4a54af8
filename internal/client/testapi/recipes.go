package testapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// AddRecipe stores a public recipe by author with the named ingredients.
// Everything else is filled with fake data.
func (s *Server) AddRecipe(author models.Identity, title string, ingredients ...string) models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	ings := make([]models.Ingredient, 0, len(ingredients))
	for _, name := range ingredients {
		ings = append(ings, s.fakeIngredient(name))
	}

	s.nextID++
	rec := &models.Recipe{
		ID:            s.nextID,
		Title:         title,
		Description:   s.faker.Sentence(8),
		Ingredients:   ings,
		Instructions:  []string{s.faker.Sentence(6), s.faker.Sentence(6)},
		PrepTime:      s.faker.Number(5, 30),
		CookTime:      s.faker.Number(10, 90),
		Servings:      s.faker.Number(1, 8),
		Category:      s.faker.RandomString([]string{"Breakfast", "Lunch", "Dinner", "Dessert"}),
		Tags:          []string{s.faker.Adjective()},
		DietaryLabels: []string{},
		IsPublic:      true,
		Author: models.Author{
			ID:       author.ID,
			Username: author.Username,
			Email:    author.Email,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	s.recipes[rec.ID] = rec
	s.order = append(s.order, rec.ID)

	return s.viewLocked(rec, nil)
}

// SetSubstitutes fixes the answer of the substitution route for ingredient.
func (s *Server) SetSubstitutes(ingredient string, alts []models.Alternative) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swaps[strings.ToLower(ingredient)] = alts
}

// Recipe returns the server-side view of recipe id as seen by userID
// (0 for anonymous).
func (s *Server) Recipe(id, userID int64) (models.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recipes[id]
	if !ok {
		return models.Recipe{}, false
	}
	return s.viewLocked(rec, s.accounts[userID]), true
}

func (s *Server) fakeIngredient(name string) models.Ingredient {
	s.nextID++
	return models.Ingredient{
		ID:     s.nextID,
		Name:   name,
		Amount: strconv.Itoa(s.faker.Number(1, 500)),
		Unit:   s.faker.RandomString([]string{"g", "ml", "tbsp", "cup", "pcs"}),
	}
}

func (s *Server) ratingAvgLocked(recipeID int64) float64 {
	scores := s.ratings[recipeID]
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, v := range scores {
		sum += v
	}
	return math.Round(float64(sum)/float64(len(scores))*100) / 100
}

func (s *Server) viewLocked(rec *models.Recipe, viewer *account) models.Recipe {
	v := rec.Clone()
	v.RatingAvg = s.ratingAvgLocked(rec.ID)
	zero := 0
	v.UserRating = &zero
	if viewer != nil {
		uid := viewer.identity.ID
		v.IsFavorited = s.favorites[uid][rec.ID]
		if score, ok := s.ratings[rec.ID][uid]; ok {
			v.UserRating = &score
		}
	}
	return v
}

func (s *Server) writeList(w http.ResponseWriter, items []models.Recipe) {
	if s.BareLists {
		writeJSON(w, http.StatusOK, items)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(items),
		"next":     nil,
		"previous": nil,
		"results":  items,
	})
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	viewer, ok := s.optionalUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))
	category := q.Get("category")
	var authorID int64
	if v := q.Get("author"); v != "" {
		authorID, _ = strconv.ParseInt(v, 10, 64)
	}

	s.mu.Lock()
	items := []models.Recipe{}
	for _, id := range s.order {
		rec, ok := s.recipes[id]
		if !ok {
			continue
		}
		if authorID != 0 && rec.Author.ID != authorID {
			continue
		}
		if category != "" && !strings.EqualFold(rec.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.Title), search) &&
			!strings.Contains(strings.ToLower(rec.Description), search) {
			continue
		}
		items = append(items, s.viewLocked(rec, viewer))
	}
	s.mu.Unlock()

	s.writeList(w, items)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	viewer, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	items := []models.Recipe{}
	for _, id := range s.order {
		rec, ok := s.recipes[id]
		if ok && s.favorites[viewer.identity.ID][id] {
			items = append(items, s.viewLocked(rec, viewer))
		}
	}
	s.mu.Unlock()

	s.writeList(w, items)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := s.optionalUser(w, r)
	if !ok {
		return
	}
	id, _ := pathID(r)

	s.mu.Lock()
	rec, found := s.recipes[id]
	var v models.Recipe
	if found {
		v = s.viewLocked(rec, viewer)
	}
	s.mu.Unlock()

	if !found {
		writeDetail(w, http.StatusNotFound, "No Recipe matches the given query.")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	author, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var d models.RecipeDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}
	if strings.TrimSpace(d.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field may not be blank."}})
		return
	}

	s.mu.Lock()
	ings := make([]models.Ingredient, 0, len(d.Ingredients))
	for _, in := range d.Ingredients {
		s.nextID++
		in.ID = s.nextID
		ings = append(ings, in)
	}
	s.nextID++
	rec := &models.Recipe{
		ID:            s.nextID,
		Title:         d.Title,
		Description:   d.Description,
		Ingredients:   ings,
		Instructions:  append([]string{}, d.Instructions...),
		PrepTime:      d.PrepTime,
		CookTime:      d.CookTime,
		Servings:      d.Servings,
		Category:      d.Category,
		Tags:          append([]string{}, d.Tags...),
		DietaryLabels: []string{},
		IsPublic:      true,
		Author: models.Author{
			ID:       author.identity.ID,
			Username: author.identity.Username,
			Email:    author.identity.Email,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	s.recipes[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	v := s.viewLocked(rec, author)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, _ := pathID(r)

	s.mu.Lock()
	rec, found := s.recipes[id]
	switch {
	case !found:
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "No Recipe matches the given query.")
		return
	case rec.Author.ID != viewer.identity.ID:
		s.mu.Unlock()
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}
	delete(s.recipes, id)
	delete(s.ratings, id)
	for _, favs := range s.favorites {
		delete(favs, id)
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	viewer, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, _ := pathID(r)

	s.mu.Lock()
	if _, found := s.recipes[id]; !found {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "No Recipe matches the given query.")
		return
	}
	uid := viewer.identity.ID
	if s.favorites[uid] == nil {
		s.favorites[uid] = map[int64]bool{}
	}
	now := !s.favorites[uid][id]
	if now {
		s.favorites[uid][id] = true
	} else {
		delete(s.favorites[uid], id)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"is_favorited": now})
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, _ := pathID(r)

	var in struct {
		Score int `json:"score"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Score < 1 || in.Score > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid score. Must be between 1 and 5."})
		return
	}

	s.mu.Lock()
	if _, found := s.recipes[id]; !found {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "No Recipe matches the given query.")
		return
	}
	if s.ratings[id] == nil {
		s.ratings[id] = map[int64]int{}
	}
	s.ratings[id][viewer.identity.ID] = in.Score
	avg := s.ratingAvgLocked(id)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]float64{"rating_avg": avg})
}

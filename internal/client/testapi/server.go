// Package testapi is an in-process fake of the recipe backend for tests.
// It serves the same routes and payload shapes as the real API, mints real
// HS256 JWTs, counts hits per route and can inject faults and delays.
package testapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Route keys, "METHOD pattern", used with Hits, LastRequest and Fail.
const (
	RouteRoot           = "GET /"
	RouteRegister       = "POST /auth/register/"
	RouteLogin          = "POST /auth/login/"
	RouteMe             = "GET /auth/me/"
	RouteProfile        = "GET /profiles/me/"
	RouteProfilePatch   = "PATCH /profiles/me/"
	RouteProfilePut     = "PUT /profiles/me/"
	RouteRecipes        = "GET /recipes/"
	RouteCreateRecipe   = "POST /recipes/"
	RouteFavorites      = "GET /recipes/my_favorites/"
	RouteSubstitute     = "POST /recipes/substitute/"
	RouteRecipe         = "GET /recipes/{id}/"
	RouteDeleteRecipe   = "DELETE /recipes/{id}/"
	RouteToggleFavorite = "POST /recipes/{id}/toggle_favorite/"
	RouteRate           = "POST /recipes/{id}/rate/"
	RouteGenerate       = "POST /generate-recipe/"
)

// Request is a recorded incoming request.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type fault struct {
	status int
	body   string
	delay  time.Duration
}

type account struct {
	identity  models.Identity
	password  string
	profileID int64
	avatarURL string
	diets     []string
	allergies []string
}

type Server struct {
	*httptest.Server

	// BareLists makes list endpoints answer with a bare JSON array instead
	// of a paginated envelope.
	BareLists bool
	// TokenTTL is the lifetime of minted access tokens.
	TokenTTL time.Duration

	mu        sync.Mutex
	secret    []byte
	faker     *gofakeit.Faker
	nextID    int64
	accounts  map[int64]*account
	byEmail   map[string]int64
	recipes   map[int64]*models.Recipe
	order     []int64
	favorites map[int64]map[int64]bool
	ratings   map[int64]map[int64]int
	swaps     map[string][]models.Alternative
	hits      map[string]int
	last      map[string]Request
	faults    map[string]fault
}

// New starts a fake backend that is shut down with the test.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		TokenTTL:  time.Hour,
		secret:    []byte("testapi-secret"),
		faker:     gofakeit.New(42),
		accounts:  map[int64]*account{},
		byEmail:   map[string]int64{},
		recipes:   map[int64]*models.Recipe{},
		favorites: map[int64]map[int64]bool{},
		ratings:   map[int64]map[int64]int{},
		swaps:     map[string][]models.Alternative{},
		hits:      map[string]int{},
		last:      map[string]Request{},
		faults:    map[string]fault{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s.route(r, RouteRoot, s.handleRoot)
	s.route(r, RouteRegister, s.handleRegister)
	s.route(r, RouteLogin, s.handleLogin)
	s.route(r, RouteMe, s.handleMe)
	s.route(r, RouteProfile, s.handleProfile)
	s.route(r, RouteProfilePatch, s.handleProfileUpdate)
	s.route(r, RouteProfilePut, s.handleProfileUpdate)
	s.route(r, RouteRecipes, s.handleListRecipes)
	s.route(r, RouteCreateRecipe, s.handleCreateRecipe)
	s.route(r, RouteFavorites, s.handleFavorites)
	s.route(r, RouteSubstitute, s.handleSubstitute)
	s.route(r, RouteRecipe, s.handleGetRecipe)
	s.route(r, RouteDeleteRecipe, s.handleDeleteRecipe)
	s.route(r, RouteToggleFavorite, s.handleToggleFavorite)
	s.route(r, RouteRate, s.handleRate)
	s.route(r, RouteGenerate, s.handleGenerate)

	return r
}

func (s *Server) route(r chi.Router, key string, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(key, " ")
	r.MethodFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.hits[key]++
		s.last[key] = Request{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.RawQuery,
			Header: req.Header.Clone(),
			Body:   body,
		}
		f, faulty := s.faults[key]
		s.mu.Unlock()

		if faulty {
			if f.delay > 0 {
				select {
				case <-time.After(f.delay):
				case <-req.Context().Done():
					return
				}
			}
			if f.status != 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(f.status)
				_, _ = io.WriteString(w, f.body)
				return
			}
		}

		h(w, req)
	})
}

// Fail makes route answer with status and the raw body until Reset.
func (s *Server) Fail(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.faults[route]
	f.status, f.body = status, body
	s.faults[route] = f
}

// Delay holds answers of route for d, or until the caller gives up.
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.faults[route]
	f.delay = d
	s.faults[route] = f
}

// Reset removes every injected fault.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = map[string]fault{}
}

// Hits returns how many times route was called.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits returns the number of requests over all routes.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// LastRequest returns the most recent request to route.
func (s *Server) LastRequest(route string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.last[route]
	return r, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	base := "http://" + r.Host
	writeJSON(w, http.StatusOK, map[string]string{
		"recipes":  base + "/recipes/",
		"profiles": base + "/profiles/",
	})
}

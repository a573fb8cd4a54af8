package testapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// AddUser registers an account directly and returns its identity.
func (s *Server) AddUser(email, password, name string, diets, allergies []string) models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, name, diets, allergies).identity
}

func (s *Server) addUserLocked(email, password, name string, diets, allergies []string) *account {
	s.nextID++
	a := &account{
		identity: models.Identity{
			ID:        s.nextID,
			Username:  email,
			Email:     email,
			FirstName: name,
		},
		password:  password,
		profileID: s.nextID + 1000,
		diets:     diets,
		allergies: allergies,
	}
	s.accounts[a.identity.ID] = a
	s.byEmail[strings.ToLower(email)] = a.identity.ID
	return a
}

// IssueToken mints an access token for userID that expires after ttl.
// A negative ttl yields an already expired token.
func (s *Server) IssueToken(userID int64, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// Credential mints a fresh access/refresh pair for userID.
func (s *Server) Credential(userID int64) models.Credential {
	return models.Credential{
		Access:  s.IssueToken(userID, s.TokenTTL),
		Refresh: s.IssueToken(userID, 24*time.Hour),
	}
}

// authenticate resolves the bearer token of r. present is false when the
// request carries no Authorization header at all.
func (s *Server) authenticate(r *http.Request) (acc *account, present bool, err error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return nil, false, nil
	}
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return nil, true, errors.New("bad scheme")
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, true, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, true, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok = s.accounts[id]
	if !ok {
		return nil, true, errors.New("unknown user")
	}
	return acc, true, nil
}

// optionalUser answers 401 for a bad token but lets anonymous callers in.
func (s *Server) optionalUser(w http.ResponseWriter, r *http.Request) (*account, bool) {
	acc, present, err := s.authenticate(r)
	if present && err != nil {
		writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
		return nil, false
	}
	return acc, true
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*account, bool) {
	acc, ok := s.optionalUser(w, r)
	if !ok {
		return nil, false
	}
	if acc == nil {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}
	return acc, true
}

func (s *Server) authResult(a *account) map[string]any {
	cred := s.Credential(a.identity.ID)
	return map[string]any{
		"user":   a.identity,
		"tokens": map[string]string{"access": cred.Access, "refresh": cred.Refresh},
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	fields := map[string][]string{}
	if !strings.Contains(in.Email, "@") {
		fields["email"] = []string{"Enter a valid email address."}
	}
	if len(in.Password) < 6 {
		fields["password"] = []string{"Ensure this field has at least 6 characters."}
	}
	if in.Name == "" {
		fields["name"] = []string{"This field may not be blank."}
	}

	s.mu.Lock()
	if _, taken := s.byEmail[strings.ToLower(in.Email)]; taken {
		fields["email"] = []string{"user with this email already exists."}
	}
	if len(fields) > 0 {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}
	a := s.addUserLocked(in.Email, in.Password, in.Name, []string{}, []string{})
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, s.authResult(a))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	s.mu.Lock()
	var a *account
	if id, ok := s.byEmail[strings.ToLower(in.Email)]; ok && s.accounts[id].password == in.Password {
		a = s.accounts[id]
	}
	s.mu.Unlock()

	if a == nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"Invalid credentials"},
		})
		return
	}
	writeJSON(w, http.StatusOK, s.authResult(a))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	a, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.identity)
}

func (s *Server) profileOf(a *account) models.Profile {
	return models.Profile{
		ID:                  a.profileID,
		Username:            a.identity.Username,
		Email:               a.identity.Email,
		AvatarURL:           a.avatarURL,
		DietaryRestrictions: append([]string{}, a.diets...),
		Allergies:           append([]string{}, a.allergies...),
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	p := s.profileOf(a)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	a, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var in models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error")
		return
	}

	s.mu.Lock()
	if in.DietaryRestrictions != nil {
		a.diets = append([]string{}, (*in.DietaryRestrictions)...)
	}
	if in.Allergies != nil {
		a.allergies = append([]string{}, (*in.Allergies)...)
	}
	if in.AvatarURL != nil {
		a.avatarURL = *in.AvatarURL
	}
	p := s.profileOf(a)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

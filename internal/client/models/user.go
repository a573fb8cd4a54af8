package models

import "strings"

// Identity is the account resource served by /auth/me/.
type Identity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Profile is the preference resource served by /profiles/me/. Its ID is the
// profile row id, not the user id.
type Profile struct {
	ID                  int64    `json:"id"`
	Username            string   `json:"username"`
	Email               string   `json:"email"`
	AvatarURL           string   `json:"avatar_url"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
}

// User is the merged identity + preferences record of the signed-in user.
type User struct {
	ID                  int64    `json:"id"`
	Username            string   `json:"username"`
	Email               string   `json:"email"`
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name"`
	AvatarURL           string   `json:"avatar_url"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
}

// MergeUser lays identity over profile; identity fields always win.
func MergeUser(p Profile, id Identity) User {
	u := User{
		Username:  p.Username,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
	}
	u.ApplyProfile(p)

	u.ID = id.ID
	if id.Username != "" {
		u.Username = id.Username
	}
	if id.Email != "" {
		u.Email = id.Email
	}
	u.FirstName = id.FirstName
	u.LastName = id.LastName
	return u
}

// ApplyProfile copies preference fields from p. Identity fields are untouched.
func (u *User) ApplyProfile(p Profile) {
	u.AvatarURL = p.AvatarURL
	u.DietaryRestrictions = cloneStrings(p.DietaryRestrictions)
	u.Allergies = cloneStrings(p.Allergies)
}

// Name is what the user typed as "name" at sign-up.
func (u User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Personalization joins restrictions and allergies with ", ". A nil user
// yields two empty strings.
func (u *User) Personalization() (restrictions, allergies string) {
	if u == nil {
		return "", ""
	}
	return strings.Join(u.DietaryRestrictions, ", "), strings.Join(u.Allergies, ", ")
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.DietaryRestrictions = cloneStrings(u.DietaryRestrictions)
	c.Allergies = cloneStrings(u.Allergies)
	return &c
}

// ProfileUpdate carries preference fields for PATCH/PUT /profiles/me/.
// Nil fields are left out of the request body.
type ProfileUpdate struct {
	DietaryRestrictions *[]string `json:"dietary_restrictions,omitempty"`
	Allergies           *[]string `json:"allergies,omitempty"`
	AvatarURL           *string   `json:"avatar_url,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (p ProfileUpdate) IsEmpty() bool {
	return p.DietaryRestrictions == nil && p.Allergies == nil && p.AvatarURL == nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

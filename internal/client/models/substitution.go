package models

// SubstitutionRequest is the body of POST /recipes/substitute/. All three
// keys are always sent, empty strings included.
type SubstitutionRequest struct {
	Ingredient   string `json:"ingredient"`
	Restrictions string `json:"restrictions"`
	Allergies    string `json:"allergies"`
}

// NewSubstitutionRequest composes the request from the ingredient name and
// the user's personalization profile at call time. u may be nil.
func NewSubstitutionRequest(ingredient string, u *User) SubstitutionRequest {
	restrictions, allergies := u.Personalization()
	return SubstitutionRequest{
		Ingredient:   ingredient,
		Restrictions: restrictions,
		Allergies:    allergies,
	}
}

type Alternative struct {
	Name          string `json:"name"`
	Reason        string `json:"reason"`
	TextureImpact string `json:"texture_impact,omitempty"`
}

type SubstitutionResult struct {
	Alternatives []Alternative `json:"alternatives"`
}

// Empty reports a valid "no swaps found" answer.
func (r SubstitutionResult) Empty() bool {
	return len(r.Alternatives) == 0
}

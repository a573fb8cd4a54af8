package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubstitutionRequest_ButterVegan(t *testing.T) {
	u := &User{DietaryRestrictions: []string{"Vegan"}, Allergies: []string{}}

	b, err := json.Marshal(NewSubstitutionRequest("butter", u))
	require.NoError(t, err)

	assert.JSONEq(t, `{"ingredient":"butter","restrictions":"Vegan","allergies":""}`, string(b))
}

func TestNewSubstitutionRequest_AnonymousSendsEmptyStrings(t *testing.T) {
	b, err := json.Marshal(NewSubstitutionRequest("flour", nil))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"ingredient", "restrictions", "allergies"} {
		_, ok := m[key]
		assert.True(t, ok, "key %q must be present", key)
	}
	assert.Equal(t, "", m["restrictions"])
	assert.Equal(t, "", m["allergies"])
}

func TestSubstitutionResult_Empty(t *testing.T) {
	var r SubstitutionResult
	require.NoError(t, json.Unmarshal([]byte(`{"alternatives":[]}`), &r))
	assert.True(t, r.Empty())

	require.NoError(t, json.Unmarshal([]byte(`{"alternatives":[{"name":"olive oil","reason":"plant fat"}]}`), &r))
	assert.False(t, r.Empty())
	assert.Equal(t, "", r.Alternatives[0].TextureImpact)
}

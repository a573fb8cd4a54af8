package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/testapi"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*HTTPClient, *testapi.Server) {
	t.Helper()
	srv := testapi.New(t)
	c, err := NewHTTPClient(srv.URL, 5*time.Second, logging.Nop())
	require.NoError(t, err)
	return c, srv
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	for _, u := range []string{"://nope", "ftp://example.com", "localhost:8000"} {
		_, err := NewHTTPClient(u, time.Second, nil)
		assert.Error(t, err, u)
	}
}

func TestHTTPClient_RegisterAndMe(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	res, err := c.Register(ctx, "ann@example.com", "secret1", "Ann")
	require.NoError(t, err)
	assert.False(t, res.Tokens.IsZero())
	assert.Equal(t, "ann@example.com", res.User.Email)

	id, err := c.Me(WithCredential(ctx, res.Tokens))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.ID)
	assert.Equal(t, "Ann", id.FirstName)

	req, ok := srv.LastRequest(testapi.RouteMe)
	require.True(t, ok)
	assert.Equal(t, "Bearer "+res.Tokens.Access, req.Header.Get("Authorization"))
	_, err = uuid.Parse(req.Header.Get(common.RequestIDHeaderName))
	assert.NoError(t, err)
}

func TestHTTPClient_NoCredentialNoHeader(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.ListRecipes(context.Background(), models.RecipeFilter{Search: "soup"})
	require.NoError(t, err)

	req, ok := srv.LastRequest(testapi.RouteRecipes)
	require.True(t, ok)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "search=soup", req.Query)
}

func TestHTTPClient_LoginInvalidCredentials(t *testing.T) {
	c, srv := newTestClient(t)
	srv.AddUser("bob@example.com", "secret1", "Bob", nil, nil)

	_, err := c.Login(context.Background(), "bob@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestHTTPClient_MeWithExpiredToken(t *testing.T) {
	c, srv := newTestClient(t)
	id := srv.AddUser("cat@example.com", "secret1", "Cat", nil, nil)
	cred := models.Credential{Access: srv.IssueToken(id.ID, -time.Minute)}

	_, err := c.Me(WithCredential(context.Background(), cred))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{"bad request error key", http.StatusBadRequest, `{"error":"Ingredient is required"}`, common.ErrValidation, "Ingredient is required"},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`, common.ErrUnauthorized, "Authentication credentials were not provided."},
		{"forbidden", http.StatusForbidden, `{"detail":"You do not have permission to perform this action."}`, common.ErrPermissionDenied, "You do not have permission to perform this action."},
		{"not found", http.StatusNotFound, `{"detail":"Not found."}`, common.ErrNotFound, "Not found."},
		{"server error", http.StatusInternalServerError, `{"error":"model overloaded"}`, common.ErrUnavailable, "model overloaded"},
		{"bad gateway html", http.StatusBadGateway, `<html>bad gateway</html>`, common.ErrUnavailable, "<html>bad gateway</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(t)
			srv.Fail(testapi.RouteSubstitute, tt.status, tt.body)

			_, err := c.Substitute(context.Background(), models.SubstitutionRequest{Ingredient: "butter"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Error())
		})
	}
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{``, ""},
		{`{"detail":"nope"}`, "nope"},
		{`{"error":"bad score"}`, "bad score"},
		{`{"non_field_errors":["Invalid credentials"]}`, "Invalid credentials"},
		{`{"password":["Too short."],"email":["Taken.","Invalid."]}`, "email: Taken. Invalid.; password: Too short."},
		{`["a","b"]`, "a b"},
		{`plain text`, "plain text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, serverMessage([]byte(tt.body)), tt.body)
	}
}

func TestServerMessage_TruncatesOnRuneBoundary(t *testing.T) {
	body := "a" + strings.Repeat("é", 150)

	got := serverMessage([]byte(body))

	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, 199)
	assert.True(t, strings.HasPrefix(body, got))

	short := strings.Repeat("x", 250)
	assert.Equal(t, short[:200], serverMessage([]byte(short)))
}

func TestAPIError_FallbackMessage(t *testing.T) {
	err := &APIError{Status: http.StatusConflict}
	assert.Equal(t, "request failed: 409 Conflict", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestHTTPClient_ListShapes(t *testing.T) {
	for _, bare := range []bool{false, true} {
		c, srv := newTestClient(t)
		srv.BareLists = bare
		author := srv.AddUser("dan@example.com", "secret1", "Dan", nil, nil)
		other := srv.AddUser("eve@example.com", "secret1", "Eve", nil, nil)
		srv.AddRecipe(author, "Pancakes", "flour", "milk")
		srv.AddRecipe(other, "Omelette", "egg")

		all, err := c.ListRecipes(context.Background(), models.RecipeFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := c.ListRecipes(context.Background(), models.RecipeFilter{AuthorID: author.ID})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Pancakes", mine[0].Title)
		assert.Len(t, mine[0].Ingredients, 2)
	}
}

func TestDecodeList_Empty(t *testing.T) {
	got, err := decodeList[models.Recipe](nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = decodeList[models.Recipe]([]byte(`{"count":0,"results":null}`))
	require.NoError(t, err)
	assert.NotNil(t, got)

	_, err = decodeList[models.Recipe]([]byte(`{"results":"x"}`))
	assert.ErrorIs(t, err, errMalformedResponse)
}

func TestHTTPClient_FavoriteAndRate(t *testing.T) {
	c, srv := newTestClient(t)
	author := srv.AddUser("fay@example.com", "secret1", "Fay", nil, nil)
	rec := srv.AddRecipe(author, "Stew", "beef")
	ctx := WithCredential(context.Background(), srv.Credential(author.ID))

	fav, err := c.ToggleFavorite(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	favs, err := c.MyFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.True(t, favs[0].IsFavorited)

	fav, err = c.ToggleFavorite(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	avg, err := c.Rate(ctx, rec.ID, 4)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 0.001)

	got, err := c.GetRecipe(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating())

	req, _ := srv.LastRequest(testapi.RouteRate)
	assert.JSONEq(t, `{"score":4}`, string(req.Body))
}

func TestHTTPClient_MissingConfirmationField(t *testing.T) {
	c, srv := newTestClient(t)
	author := srv.AddUser("gus@example.com", "secret1", "Gus", nil, nil)
	rec := srv.AddRecipe(author, "Salad", "lettuce")
	ctx := WithCredential(context.Background(), srv.Credential(author.ID))

	srv.Fail(testapi.RouteToggleFavorite, http.StatusOK, `{}`)
	_, err := c.ToggleFavorite(ctx, rec.ID)
	assert.ErrorIs(t, err, errMalformedResponse)

	srv.Fail(testapi.RouteRate, http.StatusOK, `{"ok":true}`)
	_, err = c.Rate(ctx, rec.ID, 3)
	assert.ErrorIs(t, err, errMalformedResponse)
}

func TestHTTPClient_CreateAndDelete(t *testing.T) {
	c, srv := newTestClient(t)
	owner := srv.AddUser("hal@example.com", "secret1", "Hal", nil, nil)
	other := srv.AddUser("ivy@example.com", "secret1", "Ivy", nil, nil)
	ownerCtx := WithCredential(context.Background(), srv.Credential(owner.ID))
	otherCtx := WithCredential(context.Background(), srv.Credential(other.ID))

	rec, err := c.CreateRecipe(ownerCtx, models.RecipeDraft{
		Title:       "Toast",
		Description: "Bread, toasted.",
		Servings:    1,
		Ingredients: []models.Ingredient{{Name: "bread", Amount: "2", Unit: "slices"}},
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, rec.Author.ID)

	err = c.DeleteRecipe(otherCtx, rec.ID)
	require.ErrorIs(t, err, common.ErrPermissionDenied)
	assert.Equal(t, "You do not have permission to perform this action.", err.Error())

	require.NoError(t, c.DeleteRecipe(ownerCtx, rec.ID))

	_, err = c.GetRecipe(ownerCtx, rec.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestHTTPClient_ProfileUpdateMethods(t *testing.T) {
	c, srv := newTestClient(t)
	id := srv.AddUser("jo@example.com", "secret1", "Jo", []string{"Vegan"}, nil)
	ctx := WithCredential(context.Background(), srv.Credential(id.ID))

	allergies := []string{"Peanuts"}
	p, err := c.UpdateProfile(ctx, models.ProfileUpdate{Allergies: &allergies}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vegan"}, p.DietaryRestrictions)
	assert.Equal(t, []string{"Peanuts"}, p.Allergies)
	assert.Equal(t, 1, srv.Hits(testapi.RouteProfilePatch))

	req, _ := srv.LastRequest(testapi.RouteProfilePatch)
	assert.JSONEq(t, `{"allergies":["Peanuts"]}`, string(req.Body))

	_, err = c.UpdateProfile(ctx, models.ProfileUpdate{Allergies: &allergies}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Hits(testapi.RouteProfilePut))
}

func TestHTTPClient_SubstituteSendsAllKeys(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SetSubstitutes("butter", []models.Alternative{{Name: "Olive oil", Reason: "Plant fat"}})

	res, err := c.Substitute(context.Background(), models.NewSubstitutionRequest("butter", nil))
	require.NoError(t, err)
	require.Len(t, res.Alternatives, 1)
	assert.Equal(t, "Olive oil", res.Alternatives[0].Name)

	req, _ := srv.LastRequest(testapi.RouteSubstitute)
	assert.JSONEq(t, `{"ingredient":"butter","restrictions":"","allergies":""}`, string(req.Body))
}

func TestHTTPClient_Generate(t *testing.T) {
	c, _ := newTestClient(t)

	d, err := c.GenerateRecipe(context.Background(), "rice, beans")
	require.NoError(t, err)
	assert.NotEmpty(t, d.Title)
	require.Len(t, d.Ingredients, 2)
	assert.Equal(t, "rice", d.Ingredients[0].Name)
	assert.Equal(t, "beans", d.Ingredients[1].Name)
}

func TestHTTPClient_DeadlineKeepsCause(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Delay(testapi.RouteSubstitute, 2*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Substitute(ctx, models.SubstitutionRequest{Ingredient: "egg"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Close()

	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestHTTPClient_Ping(t *testing.T) {
	c, srv := newTestClient(t)
	require.NoError(t, c.Ping(context.Background()))

	srv.Fail(testapi.RouteRoot, http.StatusNotFound, `{"detail":"Not found."}`)
	require.NoError(t, c.Ping(context.Background()))

	srv.Fail(testapi.RouteRoot, http.StatusServiceUnavailable, ``)
	assert.ErrorIs(t, c.Ping(context.Background()), common.ErrUnavailable)
}

func TestWithCredential(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithCredential(ctx, models.Credential{}))

	_, ok := CredentialFrom(ctx)
	assert.False(t, ok)

	ctx = WithCredential(ctx, models.Credential{Access: "a", Refresh: "r"})
	got, ok := CredentialFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "a", got.Access)
	assert.True(t, strings.HasPrefix(got.Refresh, "r"))
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// List prints public recipes, optionally filtered by a search term.
func (a *App) List(ctx context.Context, search string) error {
	items, err := a.recipes.List(ctx, models.RecipeFilter{Search: strings.TrimSpace(search)})
	if err != nil {
		return err
	}
	a.printOverview(items)
	return nil
}

// Mine prints the recipes written by the signed-in user.
func (a *App) Mine(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		return common.ErrAuthRequired
	}

	items, err := a.recipes.ByAuthor(ctx, u.ID)
	if err != nil {
		return err
	}
	a.printOverview(items)
	return nil
}

func (a *App) Favorites(ctx context.Context) error {
	items, err := a.recipes.Favorites(ctx)
	if err != nil {
		return err
	}
	a.printOverview(items)
	return nil
}

// Show fetches the recipe again and renders it in full. The fresh copy
// replaces the card any later command for this id works on.
func (a *App) Show(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	r, err := a.recipes.Get(ctx, id)
	if err != nil {
		return err
	}

	card := a.newCard(r)
	a.printRecipe(card.Recipe(), card.IsOwner())
	return nil
}

func (a *App) Favorite(ctx context.Context, rawID string) error {
	card, err := a.card(ctx, rawID)
	if err != nil {
		return err
	}

	fav, err := card.ToggleFavorite(ctx)
	if err != nil {
		return err
	}

	if fav {
		fmt.Fprintf(a.out, "Added %q to favorites.\n", card.Recipe().Title)
	} else {
		fmt.Fprintf(a.out, "Removed %q from favorites.\n", card.Recipe().Title)
	}
	return nil
}

func (a *App) Rate(ctx context.Context, rawID, rawScore string) error {
	card, err := a.card(ctx, rawID)
	if err != nil {
		return err
	}

	score, err := strconv.Atoi(rawScore)
	if err != nil {
		return fmt.Errorf("%w: score must be a number from 1 to 5", common.ErrValidation)
	}

	avg, err := card.Rate(ctx, score)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Rated %d. Average is now %.2f.\n", score, avg)
	return nil
}

// Delete asks for confirmation before removing the recipe on the server.
func (a *App) Delete(ctx context.Context, rawID string) error {
	card, err := a.card(ctx, rawID)
	if err != nil {
		return err
	}
	if card.Deleted() || !card.IsOwner() {
		return card.Delete(ctx)
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %q?", card.Recipe().Title), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := card.Delete(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Recipe deleted.")
	return nil
}

// Swap asks for alternatives to one ingredient. Results are printed by
// ShowSubstitution.
func (a *App) Swap(ctx context.Context, rawID, ingredient string) error {
	card, err := a.card(ctx, rawID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Looking for substitutes for %s...\n", strings.TrimSpace(ingredient))
	_, err = card.RequestSubstitution(ctx, ingredient)
	return err
}

// Generate drafts a recipe from ingredients on hand and offers to save it.
func (a *App) Generate(ctx context.Context) error {
	ingredients, err := getSimpleText(a.reader, "Ingredients you have (comma separated)", a.out)
	if err != nil {
		return err
	}

	draft, err := a.recipes.Generate(ctx, ingredients)
	if err != nil {
		return err
	}
	a.printDraft(draft)

	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in to save generated recipes.")
		return nil
	}

	save, err := Confirm(a.reader, "Save this recipe?", a.out)
	if err != nil || !save {
		return err
	}

	r, err := a.recipes.Create(ctx, draft)
	if err != nil {
		return err
	}
	a.newCard(r)
	fmt.Fprintf(a.out, "Saved as recipe #%d.\n", r.ID)
	return nil
}

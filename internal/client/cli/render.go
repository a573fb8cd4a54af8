package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// printOverview prints one line per recipe and keeps a card for each, so
// later commands act on the copy the user just saw.
func (a *App) printOverview(items []models.Recipe) {
	for _, r := range items {
		a.newCard(r)
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No recipes found.")
		return
	}

	for _, r := range items {
		fav := " "
		if r.IsFavorited {
			fav = "*"
		}
		fmt.Fprintf(a.out, "%s #%-5d %-40s %4.1f  %d min\n", fav, r.ID, r.Title, r.RatingAvg, r.TotalTime())
	}
}

func (a *App) printRecipe(r models.Recipe, own bool) {
	fmt.Fprintf(a.out, "#%d %s\n", r.ID, r.Title)
	if r.Description != "" {
		fmt.Fprintln(a.out, r.Description)
	}

	by := r.Author.Username
	if own {
		by += " (you)"
	}
	fmt.Fprintf(a.out, "By %s | %s | serves %d | prep %d min, cook %d min\n",
		by, orDash(r.Category), r.Servings, r.PrepTime, r.CookTime)

	rating := "not rated"
	if r.Rating() > 0 {
		rating = fmt.Sprintf("your rating %d", r.Rating())
	}
	fmt.Fprintf(a.out, "Average %.2f, %s, favorite: %t\n", r.RatingAvg, rating, r.IsFavorited)

	printIngredients(a, r.Ingredients)
	printSteps(a, r.Instructions)
}

func (a *App) printDraft(d models.RecipeDraft) {
	fmt.Fprintln(a.out, d.Title)
	if d.Description != "" {
		fmt.Fprintln(a.out, d.Description)
	}
	fmt.Fprintf(a.out, "Serves %d | prep %d min, cook %d min\n", d.Servings, d.PrepTime, d.CookTime)
	printIngredients(a, d.Ingredients)
	printSteps(a, d.Instructions)
}

func printIngredients(a *App, items []models.Ingredient) {
	fmt.Fprintln(a.out, "Ingredients:")
	for _, ing := range items {
		line := strings.TrimSpace(strings.Join([]string{ing.Amount, ing.Unit, ing.Name}, " "))
		if ing.Notes != "" {
			line += " (" + ing.Notes + ")"
		}
		fmt.Fprintln(a.out, "  - "+strings.Join(strings.Fields(line), " "))
	}
}

func printSteps(a *App, steps []string) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintln(a.out, "Steps:")
	for i, s := range steps {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, s)
	}
}

// ShowSubstitution prints the alternatives a card received for ing.
func (a *App) ShowSubstitution(ing models.Ingredient, res models.SubstitutionResult) {
	if res.Empty() {
		fmt.Fprintf(a.out, "No substitutions found for %s.\n", ing.Name)
		return
	}

	fmt.Fprintf(a.out, "Substitutes for %s:\n", ing.Name)
	for _, alt := range res.Alternatives {
		fmt.Fprintf(a.out, "  - %s: %s\n", alt.Name, alt.Reason)
		if alt.TextureImpact != "" {
			fmt.Fprintf(a.out, "    texture: %s\n", alt.TextureImpact)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

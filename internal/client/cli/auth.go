package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, name and password and creates a new account.
// On success the user is signed in right away. The password byte slice is
// wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.SignUp(ctx, email, string(password), name); err != nil {
		return err
	}

	a.forgetCards()
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(a.session.CurrentUser()))
	return nil
}

// Login prompts for credentials and signs in. Cards shown before are
// dropped because their per-user fields belong to the previous caller.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.SignIn(ctx, email, string(password)); err != nil {
		return err
	}

	a.forgetCards()
	fmt.Fprintf(a.out, "Signed in as %s\n", a.session.CurrentUser().Email)
	return nil
}

// Logout forgets the credential locally. The server is not contacted.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.SignOut(ctx)
	a.forgetCards()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.session.RefreshUser(ctx); err != nil {
		return err
	}

	u := a.session.CurrentUser()
	fmt.Fprintf(a.out, "%s <%s>\n", displayName(u), u.Email)
	fmt.Fprintf(a.out, "Dietary restrictions: %s\n", listOrNone(u.DietaryRestrictions))
	fmt.Fprintf(a.out, "Allergies: %s\n", listOrNone(u.Allergies))
	return nil
}

// Prefs edits dietary restrictions and allergies. Only the fields the user
// answered are sent.
func (a *App) Prefs(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrAuthRequired
	}

	restrictions, err := GetList(a.reader, "Dietary restrictions", a.out)
	if err != nil {
		return err
	}
	allergies, err := GetList(a.reader, "Allergies", a.out)
	if err != nil {
		return err
	}

	upd := models.ProfileUpdate{DietaryRestrictions: restrictions, Allergies: allergies}
	if upd.IsEmpty() {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}

	u, err := a.session.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved. Restrictions: %s; allergies: %s\n",
		listOrNone(u.DietaryRestrictions), listOrNone(u.Allergies))
	return nil
}

func displayName(u *models.User) string {
	if u == nil {
		return ""
	}
	if n := u.Name(); n != "" {
		return n
	}
	return u.Email
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

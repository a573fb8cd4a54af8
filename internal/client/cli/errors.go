package cli

import (
	"errors"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// describeError turns any failure into a line for the user. Messages coming
// from the server are shown as the server wrote them, except for missing
// recipes, which always read the same.
func describeError(err error) string {
	var apiErr *client.APIError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrAuthRequired):
		return "Please log in first (use 'login' or 'register')."
	case errors.Is(err, common.ErrSubstitutionInFlight):
		return "A substitution is already in progress for this recipe."
	case errors.Is(err, common.ErrSubstitutionTimeout):
		return "The substitution service took too long to answer. Please try again."
	case errors.Is(err, common.ErrSubstitutionFailed):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "Failed to get substitutions: " + apiErr.Message
		}
		return "Failed to get substitutions. Please try again."
	case errors.Is(err, common.ErrNotFound):
		return "Recipe not found."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.As(err, &apiErr) && errors.Is(err, common.ErrPermissionDenied):
		return "Failed to delete recipe. You may not have permission."
	case errors.Is(err, common.ErrUnauthorized):
		return "Your session is no longer valid. Please log in again."
	case errors.Is(err, common.ErrUnavailable):
		return "The server is unavailable. Check your connection and try again."
	default:
		return err.Error()
	}
}

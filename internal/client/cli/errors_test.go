package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestDescribeError(t *testing.T) {
	forbidden := &client.APIError{Status: 403, Message: "You do not have permission to perform this action.", Err: common.ErrPermissionDenied}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"auth required", common.ErrAuthRequired, "Please log in first (use 'login' or 'register')."},
		{"in flight", common.ErrSubstitutionInFlight, "A substitution is already in progress for this recipe."},
		{"timeout", fmt.Errorf("%w: butter after 30s", common.ErrSubstitutionTimeout), "The substitution service took too long to answer. Please try again."},
		{"substitution with server message",
			fmt.Errorf("%w: %w", common.ErrSubstitutionFailed, &client.APIError{Status: 400, Message: "Ingredient is required", Err: common.ErrValidation}),
			"Failed to get substitutions: Ingredient is required"},
		{"substitution network", fmt.Errorf("%w: %w", common.ErrSubstitutionFailed, common.ErrUnavailable), "Failed to get substitutions. Please try again."},
		{"server message verbatim", forbidden, "You do not have permission to perform this action."},
		{"wrapped server message", fmt.Errorf("delete: %w", forbidden), "You do not have permission to perform this action."},
		{"unauthorized", &client.APIError{Status: 401, Err: common.ErrUnauthorized}, "Your session is no longer valid. Please log in again."},
		{"not found", &client.APIError{Status: 404, Err: common.ErrNotFound}, "Recipe not found."},
		{"not found with server detail", &client.APIError{Status: 404, Message: "No Recipe matches the given query.", Err: common.ErrNotFound}, "Recipe not found."},
		{"local not found", fmt.Errorf("%w: recipe was deleted", common.ErrNotFound), "Recipe not found."},
		{"forbidden without body", &client.APIError{Status: 403, Err: common.ErrPermissionDenied}, "Failed to delete recipe. You may not have permission."},
		{"unavailable", fmt.Errorf("%w: %w", common.ErrUnavailable, context.DeadlineExceeded), "The server is unavailable. Check your connection and try again."},
		{"local refusal", fmt.Errorf("%w: only the author can delete this recipe", common.ErrPermissionDenied), "permission denied: only the author can delete this recipe"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}

package validation

import (
	"fmt"
	"strings"

	apperrors "go-color-mood/internal/errors"
	"go-color-mood/internal/mood"

	"github.com/arbovm/levenshtein"
)

// ModelResolver turns a user-supplied model name into a ModelID and offers
// the closest match when the name is misspelled
type ModelResolver struct {
	maxDistance int
}

// NewModelResolver creates a resolver suggesting names within three edits
func NewModelResolver() *ModelResolver {
	return &ModelResolver{maxDistance: 3}
}

// Resolve maps name to a model or returns a validation error
func (r *ModelResolver) Resolve(name string) (mood.ModelID, error) {
	if strings.TrimSpace(name) == "" {
		return 0, apperrors.NewValidationError("model name cannot be empty", nil)
	}

	id, err := mood.ParseModelID(name)
	if err == nil {
		return id, nil
	}

	appErr := apperrors.NewValidationError(fmt.Sprintf("unknown model %q", name), err)
	if suggestion, ok := r.Suggest(name); ok {
		appErr = appErr.WithDetails(fmt.Sprintf("did you mean %q?", suggestion.DisplayName()))
	}
	return 0, appErr
}

// Suggest returns the model whose name is closest to name, if any is within
// the resolver's edit distance
func (r *ModelResolver) Suggest(name string) (mood.ModelID, bool) {
	key := squash(name)
	best, bestDistance := mood.ModelID(0), r.maxDistance+1
	for _, id := range mood.AllModels() {
		for _, candidate := range []string{id.String(), id.DisplayName()} {
			if d := levenshtein.Distance(key, squash(candidate)); d < bestDistance {
				best, bestDistance = id, d
			}
		}
	}
	return best, bestDistance <= r.maxDistance
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

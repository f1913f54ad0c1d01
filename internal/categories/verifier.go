package categories

import (
	"context"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

// Verifier answers "do all of these categories exist" through a shared
// Loader, so every check made during one validation cycle coalesces
// into as few store queries as possible.
type Verifier struct {
	loader *Loader
}

func NewVerifier(loader *Loader) *Verifier {
	return &Verifier{loader: loader}
}

// VerifyCategoriesExist reports whether every title exists as a
// category of the given type. An absent or empty title list counts as
// non-existent. Titles are normalized the same way they are stored.
func (v *Verifier) VerifyCategoriesExist(ctx context.Context, ctype models.CategoryType, titles []string) (bool, error) {
	if len(titles) == 0 {
		return false, nil
	}
	keys := make([]LookupKey, len(titles))
	for i, t := range titles {
		keys[i] = LookupKey{Title: normalizeTitle(t), Type: ctype}
	}
	results, err := v.loader.Load(ctx, keys)
	if err != nil {
		return false, err
	}
	for _, c := range results {
		if c == nil {
			return false, nil
		}
	}
	return true, nil
}

package oracle

import (
	"context"

	"github.com/Mshivam2409/rustduino/internal/util/sets"
)

// Static is a fixed set of known document ids.
type Static struct {
	ids sets.Set[string]
}

// NewStatic returns an oracle knowing exactly ids.
func NewStatic(ids ...string) *Static {
	return &Static{ids: sets.New(ids...)}
}

func (s *Static) Exists(_ context.Context, id string) (bool, error) {
	return s.ids.Has(id), nil
}

func (s *Static) ExistsBatch(_ context.Context, ids []string) (sets.Set[string], error) {
	found := sets.New[string]()
	for _, id := range ids {
		if s.ids.Has(id) {
			found.Add(id)
		}
	}
	return found, nil
}

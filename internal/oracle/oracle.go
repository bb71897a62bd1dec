// Package oracle answers whether document identifiers exist.
//
// The validator consumes an Oracle. Implementations that can answer many ids
// in one round trip also implement BatchOracle; Lookup prefers it so a
// validation pass costs one call regardless of tree size.
package oracle

import (
	"context"

	"github.com/Mshivam2409/rustduino/internal/util/sets"
)

// Oracle reports whether a single document id exists.
type Oracle interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BatchOracle answers a whole set of ids at once, returning the subset that exists.
type BatchOracle interface {
	Oracle
	ExistsBatch(ctx context.Context, ids []string) (sets.Set[string], error)
}

// Lookup returns the subset of ids known to o, using one batch call when o
// supports it.
func Lookup(ctx context.Context, o Oracle, ids []string) (sets.Set[string], error) {
	if len(ids) == 0 {
		return sets.New[string](), nil
	}
	if b, ok := o.(BatchOracle); ok {
		return b.ExistsBatch(ctx, ids)
	}
	found := sets.New[string]()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := o.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			found.Add(id)
		}
	}
	return found, nil
}

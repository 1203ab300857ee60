package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/cpstool/internal/usecase/batch"
)

const defaultWriteLimit = 8

// WriteVariants serializes every variant to its ModelPath. Variants are
// independent, so writes run concurrently up to limit (<= 0 uses a default).
// The first failure cancels the remaining writes.
func WriteVariants(ctx context.Context, variants []batch.Variant, limit int) error {
	if limit <= 0 {
		limit = defaultWriteLimit
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, v := range variants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := v.Doc.Serialize(v.ModelPath); err != nil {
				return fmt.Errorf("variant %d (%s): %w", v.Index, v.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

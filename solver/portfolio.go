package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"setcover/cover"
)

// Portfolio runs independent coverers seeded seed..seed+size-1 in
// parallel and keeps the best cover. Every coverer works on private
// copies of the families.
type Portfolio struct {
	seed  int64
	size  int
	build func(seed int64) Coverer

	stats []string
}

func NewPortfolio(seed int64, size int, build func(seed int64) Coverer) *Portfolio {
	if size < 1 {
		panic("portfolio needs at least one coverer")
	}
	return &Portfolio{seed: seed, size: size, build: build}
}

func (p *Portfolio) Cover(problem, known *cover.Family) (*cover.Family, error) {
	return p.CoverContext(context.Background(), problem, known)
}

// CoverContext stops starting coverers once ctx is done. Coverers
// already running finish their work.
func (p *Portfolio) CoverContext(ctx context.Context, problem, known *cover.Family) (*cover.Family, error) {
	results := make([]*cover.Family, p.size)
	coverers := make([]Coverer, p.size)
	g, ctx := errgroup.WithContext(ctx)
	for k := 0; k < p.size; k++ {
		k := k
		coverers[k] = p.build(p.seed + int64(k))
		prob := problem.DeepClone()
		var kn *cover.Family
		if known != nil {
			kn = known.DeepClone()
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := coverers[k].Cover(prob, kn)
			if err != nil {
				return errors.Wrapf(err, "seed %d", p.seed+int64(k))
			}
			results[k] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.stats = p.stats[:0]
	var best *cover.Family
	for k, result := range results {
		p.stats = append(p.stats, fmt.Sprintf("seed %d: %s", p.seed+int64(k), coverers[k].Statistics()))
		if Better(result, best) {
			best = result
		}
	}
	return best, nil
}

func (p *Portfolio) Statistics() string {
	return strings.Join(p.stats, "\n")
}

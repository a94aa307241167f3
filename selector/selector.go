package selector

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/btree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"setcover/cover"
	"setcover/rating"
)

var log = logrus.WithField("prefix", "selector")

// entry is a member with the utility it would add again and the cost
// its removal saves. Entries are ordered by that cost.
type entry struct {
	subset  *cover.Subset
	utility float64
	cost    float64
}

func lessEntry(a, b entry) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if ha, hb := a.subset.Hash(), b.subset.Hash(); ha != hb {
		return ha < hb
	}
	return a.subset.Compare(b.subset) < 0
}

type Option func(*Selector)

// WithFactor adds a supplementary selector. It receives every subset
// and keeps max(minSubsets, factor*(size+uncovered)) of them, while the
// selector itself only keeps what it must.
func WithFactor(factor float64) Option {
	return func(s *Selector) {
		if factor < 0 {
			panic("selector factor cannot be negative")
		}
		s.factor = factor
		s.withFactor = true
	}
}

// Selector keeps a bounded family of good subsets out of a stream.
// Once more than minSubsets subsets arrive, a new subset is only kept
// when swapping it for a kept one improves the ratio of utility to
// cost. Zero-cost subsets, subsets covering a new index and subsets
// covering an index kept fewer than minCover times are always kept.
type Selector struct {
	universe int
	utility  rating.Utility
	family   *cover.Family
	buckets  map[uint64][]*cover.Subset

	// tree is nil until the capacity constrains the selection.
	tree *btree.BTreeG[entry]
	// addRequired holds the indices covered fewer than minCover times,
	// keepRequired those covered at most minCover times.
	addRequired  mapset.Set[int]
	keepRequired mapset.Set[int]

	currentUtility float64
	currentCost    float64
	minQuotient    float64

	minSubsets int
	minCover   int
	reached    bool

	withFactor       bool
	factor           float64
	supplementaryMin int
	supplementary    *Selector
}

// New returns a selector over the given universe. A negative minSubsets
// keeps every non-dominated subset. A minCover of at most 1 disables
// the required indices.
func New(universe, minSubsets, minCover int, utility rating.Utility, opts ...Option) *Selector {
	if minCover <= 1 {
		minCover = 0
	}
	s := &Selector{
		universe:     universe,
		utility:      utility,
		family:       cover.NewFamily(universe),
		buckets:      make(map[uint64][]*cover.Subset),
		addRequired:  mapset.NewThreadUnsafeSet[int](),
		keepRequired: mapset.NewThreadUnsafeSet[int](),
		minQuotient:  math.MaxFloat64,
		minSubsets:   minSubsets,
		minCover:     minCover,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.withFactor && minSubsets >= 0 {
		s.supplementaryMin = minSubsets
		s.minSubsets = 0
		s.minCover = 0
		if n := max(minSubsets, int(math.Round(float64(universe)*s.factor))); n > 0 {
			s.supplementary = New(universe, n, minCover, utility)
		}
	}
	return s
}

func (s *Selector) room() bool {
	return s.minSubsets < 0 || s.family.Len() < s.minSubsets
}

func (s *Selector) removable() bool {
	return s.currentCost > 0 && s.family.Len() > s.minSubsets && s.family.RedundantCount() > 0
}

func (s *Selector) ratio() float64 {
	return s.currentUtility / s.currentCost
}

// improvable bounds the ratio reachable by adding a subset and removing
// one whose removal saves removeCost.
func (s *Selector) improvable(utility, cost, removeCost float64) bool {
	return (utility-s.minQuotient*removeCost)/(cost-removeCost) > s.ratio()
}

func (s *Selector) independent(sub *cover.Subset, addCost float64) bool {
	return addCost == 0 || s.family.IsNecessary(sub) || !s.disjoint(sub, s.addRequired)
}

func (s *Selector) disjoint(sub *cover.Subset, indices mapset.Set[int]) bool {
	if indices.Cardinality() == 0 {
		return true
	}
	disjoint := true
	sub.Each(func(i int) {
		if disjoint && indices.Contains(i) {
			disjoint = false
		}
	})
	return disjoint
}

func (s *Selector) dominated(sub *cover.Subset) bool {
	for _, kept := range s.buckets[sub.Hash()] {
		if better, err := kept.AsGoodOrBetter(sub); err == nil && better {
			return true
		}
	}
	return false
}

func (s *Selector) track(sub *cover.Subset) {
	h := sub.Hash()
	s.buckets[h] = append(s.buckets[h], sub)
}

func (s *Selector) untrack(sub *cover.Subset) {
	h := sub.Hash()
	bucket := s.buckets[h]
	for k, kept := range bucket {
		if kept.Equal(sub) {
			bucket = append(bucket[:k], bucket[k+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(s.buckets, h)
	} else {
		s.buckets[h] = bucket
	}
}

// updateRequired maintains the required indices after sub was added to
// or removed from the family.
func (s *Selector) updateRequired(sub *cover.Subset, added bool) {
	if s.minCover == 0 {
		return
	}
	sub.Each(func(i int) {
		count := s.family.CoverCount(i)
		switch {
		case added && count == s.minCover:
			s.addRequired.Remove(i)
		case added && count == s.minCover+1:
			s.keepRequired.Remove(i)
		case !added && count == s.minCover-1:
			s.addRequired.Add(i)
		case !added && count == s.minCover:
			s.keepRequired.Add(i)
		}
	})
}

// build sets up the rating tree the first time the capacity is reached.
func (s *Selector) build() error {
	s.reached = true
	s.tree = btree.NewG[entry](16, lessEntry)
	if s.minCover > 0 {
		for i := 0; i < s.universe; i++ {
			count := s.family.CoverCount(i)
			if count <= s.minCover {
				s.keepRequired.Add(i)
				if count < s.minCover {
					s.addRequired.Add(i)
				}
			}
		}
	}
	log.WithFields(logrus.Fields{"subsets": s.family.Len(), "capacity": s.minSubsets}).Debug("Selector capacity reached")
	return s.rate()
}

// rate recomputes every member's entry and the family totals.
func (s *Selector) rate() error {
	s.tree.Clear(false)
	s.minQuotient = math.MaxFloat64
	s.family.Each(func(sub *cover.Subset) {
		e := entry{
			subset:  sub,
			utility: s.utility.AddUtilityPot(sub, s.family),
			cost:    s.family.RemoveCost(sub),
		}
		s.tree.ReplaceOrInsert(e)
		if e.cost > 0 && e.utility/e.cost < s.minQuotient {
			s.minQuotient = e.utility / e.cost
		}
	})
	s.currentUtility = s.utility.FamilyUtility(s.family)
	s.currentCost = s.family.Cost()
	if s.supplementary == nil {
		return nil
	}
	want := int(math.Round(float64(s.family.Len()+s.family.Uncovered()) * s.factor))
	return s.supplementary.SetMinSubsets(max(want, s.supplementaryMin))
}

func (s *Selector) remove(sub *cover.Subset) error {
	if err := s.family.Remove(sub); err != nil {
		return err
	}
	s.untrack(sub)
	s.updateRequired(sub, false)
	return nil
}

// worstOverall returns the redundant member whose removal leads to the
// best ratio, or nil if no removal keeps the ratio.
func (s *Selector) worstOverall() (*cover.Subset, error) {
	var worst *cover.Subset
	best := s.ratio()
	for _, sub := range s.family.RedundantSubsets() {
		if !s.disjoint(sub, s.keepRequired) {
			continue
		}
		cost := s.family.RemoveCost(sub)
		if cost == 0 {
			continue
		}
		if s.currentCost-cost == 0 {
			return sub, nil
		}
		lost, err := s.utility.RemoveUtility(sub, s.family)
		if err != nil {
			return nil, err
		}
		if r := (s.currentUtility + lost) / (s.currentCost - cost); r >= best {
			worst, best = sub, r
		}
	}
	return worst, nil
}

// betterWorst returns the member to swap out for the subset just added,
// or nil if no swap beats the current ratio.
func (s *Selector) betterWorst(utility, cost float64) (*cover.Subset, error) {
	var (
		worst *cover.Subset
		best  float64
		err   error
	)
	visit := func(e entry) bool {
		if !s.improvable(utility, cost, e.cost) {
			return false
		}
		if (utility-e.utility)/(cost-e.cost) <= s.ratio() {
			return true
		}
		if e.cost == 0 || s.family.IsNecessary(e.subset) || !s.disjoint(e.subset, s.keepRequired) {
			return true
		}
		lost, rerr := s.utility.RemoveUtility(e.subset, s.family)
		if rerr != nil {
			err = rerr
			return false
		}
		if r := (utility + lost) / (cost - s.family.RemoveCost(e.subset)); r > best {
			worst, best = e.subset, r
		}
		return true
	}
	if utility-s.minQuotient*cost > 0 {
		s.tree.Descend(visit)
	} else {
		s.tree.Ascend(visit)
	}
	if err != nil || best <= s.ratio() {
		return nil, err
	}
	return worst, nil
}

func (s *Selector) reduce() error {
	for s.removable() {
		worst, err := s.worstOverall()
		if err != nil {
			return err
		}
		if worst == nil {
			return nil
		}
		if err := s.remove(worst); err != nil {
			return err
		}
		if err := s.rate(); err != nil {
			return err
		}
	}
	return nil
}

// Add offers sub to the selector. It reports whether sub was kept, by
// the supplementary selector if there is one.
func (s *Selector) Add(sub *cover.Subset) (bool, error) {
	if sub.Universe() != s.universe {
		return false, errors.Wrapf(cover.ErrSizeMismatch, "subset over %d indices offered to selector over %d", sub.Universe(), s.universe)
	}
	var supplementaryAdded bool
	if s.supplementary != nil {
		added, err := s.supplementary.Add(sub)
		if err != nil {
			return false, err
		}
		supplementaryAdded = added
	}
	result := func(added bool) bool {
		if s.supplementary != nil {
			return supplementaryAdded
		}
		return added
	}

	if s.family.Contains(sub) || s.dominated(sub) {
		return result(false), nil
	}
	if s.room() {
		if err := s.family.Add(sub); err != nil {
			return false, err
		}
		s.track(sub)
		if s.tree != nil {
			s.updateRequired(sub, true)
			if err := s.rate(); err != nil {
				return false, err
			}
		}
		return result(true), nil
	}
	if s.tree == nil {
		if err := s.build(); err != nil {
			return false, err
		}
		if err := s.reduce(); err != nil {
			return false, err
		}
	}

	gain, err := s.utility.AddUtility(sub, s.family)
	if err != nil {
		return false, err
	}
	addCost := s.family.AddCost(sub)
	utility := s.currentUtility + gain
	cost := s.currentCost + addCost

	switch {
	case s.independent(sub, addCost):
		if err := s.family.Add(sub); err != nil {
			return false, err
		}
		s.track(sub)
		s.updateRequired(sub, true)
		if err := s.rate(); err != nil {
			return false, err
		}
	case s.currentCost == 0 || s.tree.Len() == 0:
		return result(false), nil
	default:
		first, _ := s.tree.Min()
		if utility-s.minQuotient*cost > 0 {
			first, _ = s.tree.Max()
		}
		if !s.improvable(utility, cost, first.cost) {
			return result(false), nil
		}
		if err := s.family.Add(sub); err != nil {
			return false, err
		}
		s.updateRequired(sub, true)
		worst, err := s.betterWorst(utility, cost)
		if err != nil {
			return false, err
		}
		if worst == nil {
			if err := s.family.Remove(sub); err != nil {
				return false, err
			}
			s.updateRequired(sub, false)
			return result(false), nil
		}
		s.track(sub)
		if err := s.remove(worst); err != nil {
			return false, err
		}
		if err := s.rate(); err != nil {
			return false, err
		}
	}
	if err := s.reduce(); err != nil {
		return false, err
	}
	return result(true), nil
}

// AddAll offers every subset and reports whether any was kept.
func (s *Selector) AddAll(subsets []*cover.Subset) (bool, error) {
	kept := false
	for _, sub := range subsets {
		added, err := s.Add(sub)
		if err != nil {
			return kept, err
		}
		kept = kept || added
	}
	return kept, nil
}

// SetMinSubsets changes the capacity. Lowering it evicts subsets at
// once.
func (s *Selector) SetMinSubsets(minSubsets int) error {
	s.minSubsets = minSubsets
	if s.room() {
		return nil
	}
	if s.tree == nil {
		if err := s.build(); err != nil {
			return err
		}
	}
	return s.reduce()
}

func (s *Selector) MinSubsets() int { return s.minSubsets }

// CapacityReached reports whether a subset was ever rejected or evicted
// because of the capacity.
func (s *Selector) CapacityReached() bool {
	if s.supplementary != nil {
		return s.supplementary.CapacityReached()
	}
	return s.reached
}

func (s *Selector) Len() int {
	if s.supplementary != nil {
		return s.supplementary.Len()
	}
	return s.family.Len()
}

// Selection returns a copy of the kept subsets.
func (s *Selector) Selection() *cover.Family {
	if s.supplementary != nil {
		return s.supplementary.Selection()
	}
	return s.family.Clone()
}

// Primary returns a copy of this selector's own subsets, ignoring the
// supplementary selector.
func (s *Selector) Primary() *cover.Family {
	return s.family.Clone()
}

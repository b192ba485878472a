package grouping

import (
	"cmp"
	"slices"
)

// Builder packs one day's match graph into disjoint groups.
//
// The packing is greedy: seeds are taken by match degree (highest first, then
// lowest activity id) and each seed admits its neighbors, in the same order,
// only when they match every member already admitted. Matching is not
// transitive, so A-B and A-C matching does not put B and C together unless
// B-C matches too. The result is reproducible but not a maximum clique cover.
type Builder struct {
	matcher      *Matcher
	minGroupSize int
}

// NewBuilder creates a builder
func NewBuilder(matcher *Matcher, minGroupSize int) *Builder {
	return &Builder{matcher: matcher, minGroupSize: minGroupSize}
}

// DayResult holds the groups found for one day with graph statistics
type DayResult struct {
	Cliques       [][]*Candidate // members in admission order, seed first
	PairsCompared int
	Edges         int
}

// BuildDay groups the candidates of a single day
func (b *Builder) BuildDay(cands []*Candidate) DayResult {
	var res DayResult

	n := len(cands)
	if n < b.minGroupSize {
		return res
	}

	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	degree := make([]int, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if cands[i].Activity.AthleteID == cands[j].Activity.AthleteID {
				continue
			}
			res.PairsCompared++

			// The predicate is directional; always ask it from the lower id
			// so the edge set does not depend on input order.
			x, y := cands[i], cands[j]
			if y.Activity.ActivityID < x.Activity.ActivityID {
				x, y = y, x
			}
			if b.matcher.Match(x, y) {
				adj[i][j], adj[j][i] = true, true
				degree[i]++
				degree[j]++
				res.Edges++
			}
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) int {
		if c := cmp.Compare(degree[j], degree[i]); c != 0 {
			return c
		}
		return cmp.Compare(cands[i].Activity.ActivityID, cands[j].Activity.ActivityID)
	})

	consumed := make([]bool, n)
	for _, seed := range order {
		if consumed[seed] || degree[seed] == 0 {
			continue
		}

		members := []int{seed}
		for _, j := range order {
			if j == seed || consumed[j] || !adj[seed][j] {
				continue
			}
			if adjacentToAll(adj, j, members) {
				members = append(members, j)
			}
		}

		if len(members) < b.minGroupSize {
			continue
		}

		clique := make([]*Candidate, len(members))
		for k, idx := range members {
			consumed[idx] = true
			clique[k] = cands[idx]
		}
		res.Cliques = append(res.Cliques, clique)
	}

	return res
}

func adjacentToAll(adj [][]bool, j int, members []int) bool {
	for _, m := range members {
		if !adj[j][m] {
			return false
		}
	}
	return true
}

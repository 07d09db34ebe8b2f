package scene

import (
	"context"

	"github.com/gembakit/photopair/internal/photo"
)

// JudgeFunc runs one independent judgment round over the target photos and
// returns the best-effort label per photo name. Missing entries simply
// contribute no vote; an error voids the whole round, also non-fatally.
type JudgeFunc func(ctx context.Context, round int, targets []*photo.Record) (map[string]string, error)

// Tally is the consensus outcome for one photo.
type Tally struct {
	// Value is the winning label, or the photo's prior value when no vote
	// was collected in any round.
	Value string
	// Votes lists every collected vote in round order.
	Votes []string
	// Unanimous is true when the winner equals every collected vote.
	Unanimous bool
	// Changed is false when no votes arrived and the prior value stands.
	Changed bool
}

// ReachConsensus resolves an ambiguous per-photo label by majority vote
// over several independent judgment rounds. Ties break by first occurrence:
// of two labels with equal counts, the one seen in an earlier round wins.
// That tie-break is deliberate, not incidental — round one runs at the
// lowest sampling temperature and is the most trustworthy.
//
// The prior value passed per target is its current station label; a target
// with zero collected votes keeps it unchanged.
func ReachConsensus(ctx context.Context, targets []*photo.Record, rounds int, judge JudgeFunc) (map[string]Tally, error) {
	votes := make(map[string][]string, len(targets))

	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		labels, err := judge(ctx, round, targets)
		if err != nil {
			// A failed round contributes no votes; later rounds still run.
			continue
		}
		for _, t := range targets {
			if v, ok := labels[t.Name]; ok && v != "" {
				votes[t.Name] = append(votes[t.Name], v)
			}
		}
	}

	result := make(map[string]Tally, len(targets))
	for _, t := range targets {
		prior := ""
		if t.Analysis != nil {
			prior = t.Analysis.Station
		}
		result[t.Name] = tally(votes[t.Name], prior)
	}
	return result, nil
}

// tally reduces one photo's votes to a single value by majority, breaking
// ties by first-occurrence order.
func tally(votes []string, prior string) Tally {
	if len(votes) == 0 {
		return Tally{Value: prior, Unanimous: false, Changed: false}
	}

	counts := make(map[string]int, len(votes))
	winner := votes[0]
	for _, v := range votes {
		counts[v]++
		// Strict majority comparison keeps the earliest-seen value on ties.
		if counts[v] > counts[winner] {
			winner = v
		}
	}

	unanimous := true
	for _, v := range votes {
		if v != winner {
			unanimous = false
			break
		}
	}

	return Tally{Value: winner, Votes: votes, Unanimous: unanimous, Changed: true}
}

package scene

import "github.com/gembakit/photopair/internal/photo"

// Pair is a before/after selection from one cluster, with the similarity
// score and matched-landmark evidence recomputed between the two chosen
// members so the justification always describes the actual pair.
type Pair struct {
	Before  *photo.Record
	After   *photo.Record
	Score   float64
	Matched []string

	// Fallback marks a low-confidence earliest/latest selection made when
	// ground-condition labels did not discriminate.
	Fallback bool
	Note     string
}

// Omitted explains why a cluster produced no pair. Members are always
// carried so nothing disappears silently.
type Omitted struct {
	Reason  string
	Members []*photo.Record
}

// earliest returns the member with the smallest capture time; ties keep
// the first in slice order.
func earliest(members []*photo.Record) *photo.Record {
	best := members[0]
	for _, m := range members[1:] {
		if m.CaptureMillis() < best.CaptureMillis() {
			best = m
		}
	}
	return best
}

// latest returns the member with the largest capture time; ties keep the
// last in slice order, so an all-equal cluster still yields a
// deterministic first/last split.
func latest(members []*photo.Record) *photo.Record {
	best := members[0]
	for _, m := range members[1:] {
		if m.CaptureMillis() >= best.CaptureMillis() {
			best = m
		}
	}
	return best
}

// SelectPair decides which cluster members are the before and after
// representatives. It is a total function: exactly one of the returns is
// non-nil, and a cluster that cannot be paired reports its members as
// omitted with a reason.
//
// Ground conditions drive selection in priority order: unpaved+paved,
// then unpaved+under_construction, then under_construction+paved. When
// conditions do not discriminate, the date-earliest and date-latest
// members are paired and the result is flagged as a fallback.
func SelectPair(c ClusterGroup) (*Pair, *Omitted) {
	var usable []*photo.Record
	for _, m := range c.Members {
		if m.Analysis != nil {
			usable = append(usable, m)
		}
	}
	if len(usable) < 2 {
		return nil, &Omitted{Reason: "fewer than two usable members", Members: c.Members}
	}

	byGround := make(map[photo.GroundCondition][]*photo.Record)
	for _, m := range usable {
		byGround[m.Analysis.Ground] = append(byGround[m.Analysis.Ground], m)
	}

	unpaved := byGround[photo.GroundUnpaved]
	under := byGround[photo.GroundUnderConstruction]
	paved := byGround[photo.GroundPaved]

	var before, after *photo.Record
	switch {
	case len(unpaved) > 0 && len(paved) > 0:
		before, after = earliest(unpaved), latest(paved)
	case len(unpaved) > 0 && len(under) > 0:
		before, after = earliest(unpaved), latest(under)
	case len(under) > 0 && len(paved) > 0:
		before, after = earliest(under), latest(paved)
	}

	pair := &Pair{}
	if before == nil {
		// Conditions do not discriminate; fall back to pure date order.
		before, after = earliest(usable), latest(usable)
		pair.Fallback = true
		pair.Note = "date-order fallback; ground conditions did not discriminate"
	}

	pair.Before = before
	pair.After = after
	pair.Score = Similarity(before.Analysis, after.Analysis)
	pair.Matched = MatchedLandmarks(before.Analysis, after.Analysis)
	return pair, nil
}

package scene

import (
	"sort"

	"github.com/gembakit/photopair/internal/photo"
)

// LooseResult is a display ordering over a whole collection. It is a
// permutation of the input: nothing is dropped.
type LooseResult struct {
	Ordered     []*photo.Record
	GroupCount  int
	OrphanCount int
}

// StrictResult is the pair-only ordering: only the date-earliest and
// date-latest member of each group survive, emitted as whole two-photo
// blocks. The conservation invariant always holds:
// 2*PairCount + OmittedCount == len(input).
type StrictResult struct {
	Ordered      []*photo.Record
	PairCount    int
	OmittedCount int
	Omitted      []*photo.Record
}

// looseKey groups by scene identifier when present, else by normalized
// station name. The station prefix keeps station keys from colliding with
// scene identifiers.
func looseKey(r *photo.Record) string {
	if r.Analysis == nil {
		return ""
	}
	if r.Analysis.SceneID != "" {
		return r.Analysis.SceneID
	}
	if st := photo.CanonicalStation(r.Analysis.Station); st != "" {
		return "station:" + st
	}
	return ""
}

// SortLoose orders a collection for display: photos group by scene or
// station, sort within a group by phase score then capture date, groups
// order among themselves by their latest member's date, and orphans go
// last sorted by date. The output is a permutation of the input.
func SortLoose(photos []*photo.Record) LooseResult {
	byKey := make(map[string][]*photo.Record)
	var keyOrder []string
	var orphans []*photo.Record

	for _, r := range photos {
		key := looseKey(r)
		if key == "" {
			orphans = append(orphans, r)
			continue
		}
		if _, seen := byKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	type group struct {
		members []*photo.Record
		maxDate int64
	}
	groups := make([]group, 0, len(keyOrder))
	for _, key := range keyOrder {
		members := byKey[key]
		sort.SliceStable(members, func(i, j int) bool {
			si, sj := photo.PhaseScore(members[i].Analysis), photo.PhaseScore(members[j].Analysis)
			if si != sj {
				return si < sj
			}
			return members[i].CaptureMillis() < members[j].CaptureMillis()
		})
		maxDate := int64(0)
		for _, m := range members {
			if d := m.CaptureMillis(); d > maxDate {
				maxDate = d
			}
		}
		groups = append(groups, group{members: members, maxDate: maxDate})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].maxDate < groups[j].maxDate
	})
	sort.SliceStable(orphans, func(i, j int) bool {
		return orphans[i].CaptureMillis() < orphans[j].CaptureMillis()
	})

	result := LooseResult{
		Ordered:     make([]*photo.Record, 0, len(photos)),
		GroupCount:  len(groups),
		OrphanCount: len(orphans),
	}
	for _, g := range groups {
		result.Ordered = append(result.Ordered, g.members...)
	}
	result.Ordered = append(result.Ordered, orphans...)
	return result
}

// SortStrictPairs produces the regulator-facing pair sequence: groups form
// exactly as in clustering, each group contributes only its date-earliest
// and date-latest member, and the resulting pairs order among themselves
// by the after member's date. Middle members, undersized groups and
// orphans are counted as omitted, never silently dropped.
func SortStrictPairs(photos []*photo.Record) StrictResult {
	clustering := Cluster(photos)

	type block struct {
		before, after *photo.Record
	}
	var blocks []block
	var omitted []*photo.Record

	omitted = append(omitted, clustering.Orphans...)
	for _, c := range clustering.Clusters {
		first := earliest(c.Members)
		last := latest(c.Members)
		if first == last {
			omitted = append(omitted, c.Members...)
			continue
		}
		for _, m := range c.Members {
			if m != first && m != last {
				omitted = append(omitted, m)
			}
		}
		blocks = append(blocks, block{before: first, after: last})
	}

	// Pairs move as whole blocks; members of different pairs never
	// interleave.
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].after.CaptureMillis() < blocks[j].after.CaptureMillis()
	})

	result := StrictResult{
		Ordered:      make([]*photo.Record, 0, 2*len(blocks)),
		PairCount:    len(blocks),
		OmittedCount: len(omitted),
		Omitted:      omitted,
	}
	for _, b := range blocks {
		result.Ordered = append(result.Ordered, b.before, b.after)
	}
	return result
}

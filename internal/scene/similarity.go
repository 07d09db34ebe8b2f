// Package scene groups photos into location clusters, selects before/after
// pairs, orders full collections and resolves ambiguous labels by
// multi-round consensus.
package scene

import (
	"math"

	"github.com/gembakit/photopair/internal/photo"
)

const (
	// matchDistance is the maximum grid distance between two landmarks of
	// the same category for them to count as the same physical feature.
	// Tolerates camera-angle drift between site visits.
	matchDistance = 15.0

	// viewpointBonus is added when both analyses report the same viewpoint.
	viewpointBonus = 0.1

	matchRateWeight = 0.7
	sizeWeight      = 0.3
)

// landmarkMatch records one greedy nearest-neighbor landmark match.
type landmarkMatch struct {
	a, b     photo.Landmark
	distance float64
}

// matchLandmarks pairs each landmark of a with its nearest same-category
// landmark in b, keeping only pairs closer than matchDistance. Greedy and
// order-dependent on a's landmark list, which keeps it deterministic.
func matchLandmarks(a, b *photo.Analysis) []landmarkMatch {
	var matches []landmarkMatch
	for _, la := range a.Landmarks {
		best := -1
		bestDist := math.MaxFloat64
		for i, lb := range b.Landmarks {
			if lb.Category != la.Category {
				continue
			}
			d := math.Hypot(la.X-lb.X, la.Y-lb.Y)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best >= 0 && bestDist < matchDistance {
			matches = append(matches, landmarkMatch{a: la, b: b.Landmarks[best], distance: bestDist})
		}
	}
	return matches
}

// Similarity scores how likely two analyses depict the same physical
// location, in [0,1]. The dominant term is the match rate: matched
// landmarks divided by the average landmark count of the two analyses, so
// a photo with fewer detected landmarks is not unfairly penalized. Matched
// landmarks also contribute a size-agreement term, and a small bonus is
// added when both analyses report the same viewpoint direction.
func Similarity(a, b *photo.Analysis) float64 {
	if a == nil || b == nil {
		return 0
	}

	matches := matchLandmarks(a, b)

	avgCount := float64(len(a.Landmarks)+len(b.Landmarks)) / 2
	if avgCount < 1 {
		avgCount = 1
	}
	matchRate := float64(len(matches)) / avgCount
	if matchRate > 1 {
		matchRate = 1
	}

	sizeSim := 0.0
	if len(matches) > 0 {
		sum := 0.0
		for _, m := range matches {
			s := 1 - (math.Abs(m.a.Width-m.b.Width)+math.Abs(m.a.Height-m.b.Height))/300
			if s < 0 {
				s = 0
			}
			sum += s
		}
		sizeSim = sum / float64(len(matches))
	}

	score := matchRateWeight*matchRate + sizeWeight*sizeSim
	if a.Viewpoint != "" && a.Viewpoint == b.Viewpoint {
		score += viewpointBonus
	}
	if score > 1 {
		score = 1
	}
	return score
}

// MatchedLandmarks returns human-readable descriptions of the landmarks
// matched between two analyses, used as justification evidence on a Pair.
func MatchedLandmarks(a, b *photo.Analysis) []string {
	if a == nil || b == nil {
		return nil
	}
	matches := matchLandmarks(a, b)
	descs := make([]string, 0, len(matches))
	for _, m := range matches {
		d := m.a.Description
		if d == "" {
			d = string(m.a.Category)
		}
		descs = append(descs, d)
	}
	return descs
}

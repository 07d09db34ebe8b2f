package scene

import (
	"fmt"

	"github.com/gembakit/photopair/internal/photo"
)

// similarityThreshold is the minimum pairwise similarity for a photo to
// join an existing cluster seed.
const similarityThreshold = 0.6

// ClusterGroup is a set of photos believed to depict the same physical
// location. Membership is computed once per run; re-clustering a changed
// photo set recomputes everything from scratch.
type ClusterGroup struct {
	Key     string
	Members []*photo.Record
}

// Clustering is the full result of one clustering pass. Singletons are
// never forced into a scene; they are reported as orphans.
type Clustering struct {
	Clusters []ClusterGroup
	Orphans  []*photo.Record
}

// explicitKey returns the grouping key already present on a photo: a scene
// identifier from a prior run, or a normalized station label. Empty when
// the photo has neither.
func explicitKey(r *photo.Record) string {
	if r.Analysis == nil {
		return ""
	}
	if r.Analysis.SceneID != "" {
		return r.Analysis.SceneID
	}
	return photo.CanonicalStation(r.Analysis.Station)
}

// Cluster groups photos into location clusters. Photos carrying an
// explicit key (scene identifier or station label) group by that key with
// no similarity computation; the rest are clustered by greedy single-link
// landmark similarity over input order. Output order derives only from
// input order, never from map iteration.
func Cluster(photos []*photo.Record) Clustering {
	var result Clustering

	byKey := make(map[string][]*photo.Record)
	var keyOrder []string
	var unkeyed []*photo.Record

	for _, r := range photos {
		key := explicitKey(r)
		if key == "" {
			unkeyed = append(unkeyed, r)
			continue
		}
		if _, seen := byKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	for _, key := range keyOrder {
		members := byKey[key]
		if len(members) < 2 {
			result.Orphans = append(result.Orphans, members...)
			continue
		}
		result.Clusters = append(result.Clusters, ClusterGroup{Key: key, Members: members})
	}

	// Similarity clustering for the remainder: each unvisited photo seeds
	// a cluster and pulls in every later unvisited photo similar enough to
	// the seed.
	visited := make([]bool, len(unkeyed))
	seq := 0
	for i, seed := range unkeyed {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []*photo.Record{seed}
		for j := i + 1; j < len(unkeyed); j++ {
			if visited[j] {
				continue
			}
			if Similarity(seed.Analysis, unkeyed[j].Analysis) > similarityThreshold {
				visited[j] = true
				members = append(members, unkeyed[j])
			}
		}
		if len(members) < 2 {
			result.Orphans = append(result.Orphans, seed)
			continue
		}
		seq++
		result.Clusters = append(result.Clusters, ClusterGroup{
			Key:     fmt.Sprintf("scene_%03d", seq),
			Members: members,
		})
	}

	return result
}

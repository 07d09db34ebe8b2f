package scene

import (
	"testing"

	"github.com/gembakit/photopair/internal/photo"
)

func rec(name string, takenAt int64, a *photo.Analysis) *photo.Record {
	t := takenAt
	return &photo.Record{Name: name, TakenAt: &t, Status: photo.StatusDone, Analysis: a}
}

func stationRec(name string, takenAt int64, station string) *photo.Record {
	return rec(name, takenAt, &photo.Analysis{Station: station})
}

func landmarkRec(name string, takenAt int64, landmarks ...photo.Landmark) *photo.Record {
	return rec(name, takenAt, &photo.Analysis{Landmarks: landmarks})
}

func TestCluster_ExplicitStationKeys(t *testing.T) {
	photos := []*photo.Record{
		stationRec("a.jpg", 1, "No.1"),
		stationRec("b.jpg", 2, "No.2"),
		stationRec("c.jpg", 3, "ｎｏ．１"), // full-width variant of No.1
		stationRec("d.jpg", 4, "No.2"),
	}

	c := Cluster(photos)

	if len(c.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(c.Clusters))
	}
	if c.Clusters[0].Key != "NO.1" || len(c.Clusters[0].Members) != 2 {
		t.Errorf("unexpected first cluster: %q with %d members", c.Clusters[0].Key, len(c.Clusters[0].Members))
	}
	if c.Clusters[1].Key != "NO.2" || len(c.Clusters[1].Members) != 2 {
		t.Errorf("unexpected second cluster: %q with %d members", c.Clusters[1].Key, len(c.Clusters[1].Members))
	}
	if len(c.Orphans) != 0 {
		t.Errorf("expected no orphans, got %d", len(c.Orphans))
	}
}

func TestCluster_SceneIDWinsOverStation(t *testing.T) {
	a := &photo.Analysis{Station: "No.1"}
	a.SetScene("scene_042", photo.PhaseBefore)
	b := &photo.Analysis{Station: "No.9"}
	b.SetScene("scene_042", photo.PhaseAfter)

	c := Cluster([]*photo.Record{rec("a.jpg", 1, a), rec("b.jpg", 2, b)})

	if len(c.Clusters) != 1 || c.Clusters[0].Key != "scene_042" {
		t.Fatalf("expected one cluster keyed by scene id, got %+v", c.Clusters)
	}
}

func TestCluster_SingletonsAreOrphans(t *testing.T) {
	photos := []*photo.Record{
		stationRec("a.jpg", 1, "No.1"),
		landmarkRec("b.jpg", 2, lm(photo.LandmarkTree, 5, 5, 10, 10)),
	}

	c := Cluster(photos)

	if len(c.Clusters) != 0 {
		t.Errorf("expected no clusters, got %d", len(c.Clusters))
	}
	if len(c.Orphans) != 2 {
		t.Errorf("expected 2 orphans, got %d", len(c.Orphans))
	}
}

func TestCluster_BySimilarity(t *testing.T) {
	siteA := []photo.Landmark{
		lm(photo.LandmarkBuilding, 20, 20, 30, 30),
		lm(photo.LandmarkPole, 70, 10, 5, 40),
	}
	siteADrift := []photo.Landmark{
		lm(photo.LandmarkBuilding, 24, 22, 30, 30),
		lm(photo.LandmarkPole, 73, 13, 5, 40),
	}
	siteB := []photo.Landmark{
		lm(photo.LandmarkFence, 50, 80, 40, 5),
	}

	photos := []*photo.Record{
		landmarkRec("a1.jpg", 1, siteA...),
		landmarkRec("b1.jpg", 2, siteB...),
		landmarkRec("a2.jpg", 3, siteADrift...),
	}

	c := Cluster(photos)

	if len(c.Clusters) != 1 {
		t.Fatalf("expected 1 similarity cluster, got %d", len(c.Clusters))
	}
	members := c.Clusters[0].Members
	if len(members) != 2 || members[0].Name != "a1.jpg" || members[1].Name != "a2.jpg" {
		t.Errorf("unexpected cluster members: %v", names(members))
	}
	if len(c.Orphans) != 1 || c.Orphans[0].Name != "b1.jpg" {
		t.Errorf("expected b1.jpg orphaned, got %v", names(c.Orphans))
	}
}

func TestCluster_Deterministic(t *testing.T) {
	photos := []*photo.Record{
		stationRec("a.jpg", 1, "No.3"),
		stationRec("b.jpg", 2, "No.1"),
		stationRec("c.jpg", 3, "No.3"),
		stationRec("d.jpg", 4, "No.1"),
		landmarkRec("e.jpg", 5, lm(photo.LandmarkWall, 10, 10, 20, 20)),
		landmarkRec("f.jpg", 6, lm(photo.LandmarkWall, 12, 11, 20, 20)),
	}

	first := Cluster(photos)
	for range 20 {
		again := Cluster(photos)
		if len(again.Clusters) != len(first.Clusters) {
			t.Fatal("cluster count changed between runs")
		}
		for i := range first.Clusters {
			if again.Clusters[i].Key != first.Clusters[i].Key {
				t.Fatalf("cluster order changed between runs")
			}
			for j := range first.Clusters[i].Members {
				if again.Clusters[i].Members[j] != first.Clusters[i].Members[j] {
					t.Fatal("member order changed between runs")
				}
			}
		}
	}
}

func TestCluster_ExplicitKeyIdempotent(t *testing.T) {
	// Photos already carrying scene identifiers from a prior run must
	// re-cluster into identical groups with similarity never consulted
	// (no landmarks present at all).
	mk := func(name, scene string, phase photo.Phase) *photo.Record {
		a := &photo.Analysis{}
		a.SetScene(scene, phase)
		return rec(name, 1, a)
	}
	photos := []*photo.Record{
		mk("a.jpg", "scene_001", photo.PhaseBefore),
		mk("b.jpg", "scene_002", photo.PhaseBefore),
		mk("c.jpg", "scene_001", photo.PhaseAfter),
		mk("d.jpg", "scene_002", photo.PhaseAfter),
	}

	first := Cluster(photos)
	second := Cluster(photos)

	if len(first.Clusters) != 2 || len(second.Clusters) != 2 {
		t.Fatal("expected 2 clusters in both runs")
	}
	for i := range first.Clusters {
		if first.Clusters[i].Key != second.Clusters[i].Key {
			t.Errorf("cluster %d key differs: %q vs %q", i, first.Clusters[i].Key, second.Clusters[i].Key)
		}
		if len(first.Clusters[i].Members) != len(second.Clusters[i].Members) {
			t.Errorf("cluster %d size differs", i)
		}
	}
}

func TestCluster_NoAnalysisGoesToSimilarityPathAsOrphan(t *testing.T) {
	photos := []*photo.Record{
		{Name: "raw.jpg", Status: photo.StatusError},
		stationRec("a.jpg", 1, "No.1"),
		stationRec("b.jpg", 2, "No.1"),
	}

	c := Cluster(photos)

	if len(c.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(c.Clusters))
	}
	if len(c.Orphans) != 1 || c.Orphans[0].Name != "raw.jpg" {
		t.Errorf("photo without analysis must surface as orphan, got %v", names(c.Orphans))
	}
}

func names(rs []*photo.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

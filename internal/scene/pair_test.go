package scene

import (
	"testing"

	"github.com/gembakit/photopair/internal/photo"
)

func groundRec(name string, takenAt int64, g photo.GroundCondition) *photo.Record {
	return rec(name, takenAt, &photo.Analysis{Ground: g})
}

func TestSelectPair_UnpavedPavedPriority(t *testing.T) {
	c := ClusterGroup{Key: "NO.1", Members: []*photo.Record{
		groundRec("u1.jpg", 10, photo.GroundUnpaved),
		groundRec("u2.jpg", 20, photo.GroundUnpaved),
		groundRec("p1.jpg", 30, photo.GroundPaved),
		groundRec("p2.jpg", 40, photo.GroundPaved),
	}}

	pair, omitted := SelectPair(c)
	if omitted != nil {
		t.Fatalf("expected a pair, got omitted: %s", omitted.Reason)
	}
	if pair.Before.Name != "u1.jpg" {
		t.Errorf("before should be earliest unpaved, got %s", pair.Before.Name)
	}
	if pair.After.Name != "p2.jpg" {
		t.Errorf("after should be latest paved, got %s", pair.After.Name)
	}
	if pair.Fallback {
		t.Error("ground-condition selection must not be flagged as fallback")
	}
}

func TestSelectPair_GroundPriorityIgnoresMiddleCondition(t *testing.T) {
	// One member of each condition: rule 1 (unpaved+paved) applies and the
	// under_construction member simply stays cluster-attributed.
	c := ClusterGroup{Key: "NO.2", Members: []*photo.Record{
		groundRec("u.jpg", 10, photo.GroundUnpaved),
		groundRec("m.jpg", 20, photo.GroundUnderConstruction),
		groundRec("p.jpg", 30, photo.GroundPaved),
	}}

	pair, omitted := SelectPair(c)
	if omitted != nil {
		t.Fatalf("expected a pair, got omitted: %s", omitted.Reason)
	}
	if pair.Before.Name != "u.jpg" || pair.After.Name != "p.jpg" {
		t.Errorf("expected u.jpg/p.jpg, got %s/%s", pair.Before.Name, pair.After.Name)
	}
}

func TestSelectPair_UnpavedUnderConstruction(t *testing.T) {
	c := ClusterGroup{Members: []*photo.Record{
		groundRec("u.jpg", 10, photo.GroundUnpaved),
		groundRec("m1.jpg", 20, photo.GroundUnderConstruction),
		groundRec("m2.jpg", 30, photo.GroundUnderConstruction),
	}}

	pair, _ := SelectPair(c)
	if pair == nil {
		t.Fatal("expected a pair")
	}
	if pair.Before.Name != "u.jpg" || pair.After.Name != "m2.jpg" {
		t.Errorf("expected u.jpg/m2.jpg, got %s/%s", pair.Before.Name, pair.After.Name)
	}
}

func TestSelectPair_UnderConstructionPaved(t *testing.T) {
	c := ClusterGroup{Members: []*photo.Record{
		groundRec("m.jpg", 10, photo.GroundUnderConstruction),
		groundRec("p.jpg", 20, photo.GroundPaved),
	}}

	pair, _ := SelectPair(c)
	if pair == nil {
		t.Fatal("expected a pair")
	}
	if pair.Before.Name != "m.jpg" || pair.After.Name != "p.jpg" {
		t.Errorf("expected m.jpg/p.jpg, got %s/%s", pair.Before.Name, pair.After.Name)
	}
}

func TestSelectPair_DateFallbackIsFlagged(t *testing.T) {
	c := ClusterGroup{Members: []*photo.Record{
		groundRec("a.jpg", 30, photo.GroundUnpaved),
		groundRec("b.jpg", 10, photo.GroundUnpaved),
		groundRec("c.jpg", 20, photo.GroundUnpaved),
	}}

	pair, omitted := SelectPair(c)
	if omitted != nil {
		t.Fatalf("expected fallback pair, got omitted: %s", omitted.Reason)
	}
	if !pair.Fallback {
		t.Error("uniform conditions must surface the fallback flag")
	}
	if pair.Note == "" {
		t.Error("fallback pair should carry a note")
	}
	if pair.Before.Name != "b.jpg" || pair.After.Name != "a.jpg" {
		t.Errorf("expected b.jpg/a.jpg by date, got %s/%s", pair.Before.Name, pair.After.Name)
	}
}

func TestSelectPair_TooSmall(t *testing.T) {
	c := ClusterGroup{Members: []*photo.Record{groundRec("only.jpg", 1, photo.GroundPaved)}}

	pair, omitted := SelectPair(c)
	if pair != nil {
		t.Fatal("single-member cluster must not pair")
	}
	if omitted == nil || len(omitted.Members) != 1 {
		t.Fatal("omission must carry the members")
	}
	if omitted.Reason == "" {
		t.Error("omission must carry a reason")
	}
}

func TestSelectPair_UnusableMembersDontCount(t *testing.T) {
	c := ClusterGroup{Members: []*photo.Record{
		groundRec("a.jpg", 1, photo.GroundUnpaved),
		{Name: "broken.jpg", Status: photo.StatusError}, // no analysis
	}}

	pair, omitted := SelectPair(c)
	if pair != nil {
		t.Fatal("one usable member is not enough to pair")
	}
	if omitted == nil || len(omitted.Members) != 2 {
		t.Fatal("all members, usable or not, must be reported in the omission")
	}
}

func TestSelectPair_JustificationRecomputedForChosenPair(t *testing.T) {
	shared := lm(photo.LandmarkBuilding, 30, 30, 40, 40)
	before := rec("before.jpg", 10, &photo.Analysis{
		Ground:    photo.GroundUnpaved,
		Landmarks: []photo.Landmark{shared, lm(photo.LandmarkPole, 80, 10, 5, 40)},
	})
	before.Analysis.Landmarks[0].Description = "site office"
	after := rec("after.jpg", 20, &photo.Analysis{
		Ground:    photo.GroundPaved,
		Landmarks: []photo.Landmark{shared},
	})
	middle := rec("middle.jpg", 15, &photo.Analysis{Ground: photo.GroundUnderConstruction})

	pair, _ := SelectPair(ClusterGroup{Members: []*photo.Record{before, middle, after}})
	if pair == nil {
		t.Fatal("expected a pair")
	}
	if pair.Score <= 0 {
		t.Error("score must be recomputed between the chosen members")
	}
	if len(pair.Matched) != 1 || pair.Matched[0] != "site office" {
		t.Errorf("evidence must come from the chosen pair, got %v", pair.Matched)
	}
}

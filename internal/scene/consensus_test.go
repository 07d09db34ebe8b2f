package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/gembakit/photopair/internal/photo"
)

// scriptedJudge returns pre-recorded labels per round.
func scriptedJudge(rounds []map[string]string, errs []error) JudgeFunc {
	return func(ctx context.Context, round int, targets []*photo.Record) (map[string]string, error) {
		if errs != nil && errs[round] != nil {
			return nil, errs[round]
		}
		return rounds[round], nil
	}
}

func target(name, station string) *photo.Record {
	return rec(name, 1, &photo.Analysis{Station: station})
}

func TestReachConsensus_MajorityWins(t *testing.T) {
	judge := scriptedJudge([]map[string]string{
		{"a.jpg": "H2"},
		{"a.jpg": "H1"},
		{"a.jpg": "H2"},
	}, nil)

	tallies, err := ReachConsensus(context.Background(), []*photo.Record{target("a.jpg", "old")}, 3, judge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tl := tallies["a.jpg"]
	if tl.Value != "H2" {
		t.Errorf("expected H2, got %q", tl.Value)
	}
	if tl.Unanimous {
		t.Error("2-1 vote is not unanimous")
	}
	if !tl.Changed {
		t.Error("collected votes must mark the tally as changed")
	}
	if len(tl.Votes) != 3 {
		t.Errorf("expected 3 votes recorded, got %d", len(tl.Votes))
	}
}

func TestReachConsensus_Unanimous(t *testing.T) {
	judge := scriptedJudge([]map[string]string{
		{"a.jpg": "t"},
		{"a.jpg": "t"},
		{"a.jpg": "t"},
	}, nil)

	tallies, err := ReachConsensus(context.Background(), []*photo.Record{target("a.jpg", "old")}, 3, judge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tl := tallies["a.jpg"]
	if tl.Value != "t" || !tl.Unanimous {
		t.Errorf("expected unanimous t, got %+v", tl)
	}
}

func TestReachConsensus_NoVotesKeepsPrior(t *testing.T) {
	judge := scriptedJudge([]map[string]string{{}, {}, {}}, nil)

	tallies, err := ReachConsensus(context.Background(), []*photo.Record{target("a.jpg", "No.7")}, 3, judge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tl := tallies["a.jpg"]
	if tl.Value != "No.7" {
		t.Errorf("zero votes must preserve the prior value, got %q", tl.Value)
	}
	if tl.Changed {
		t.Error("zero votes must not mark the tally as changed")
	}
	if tl.Unanimous {
		t.Error("zero votes cannot be unanimous")
	}
}

func TestReachConsensus_TieBreaksByFirstOccurrence(t *testing.T) {
	judge := scriptedJudge([]map[string]string{
		{"a.jpg": "H1"},
		{"a.jpg": "H2"},
	}, nil)

	tallies, err := ReachConsensus(context.Background(), []*photo.Record{target("a.jpg", "old")}, 2, judge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tallies["a.jpg"].Value != "H1" {
		t.Errorf("round 1 must win ties, got %q", tallies["a.jpg"].Value)
	}
}

func TestReachConsensus_FailedRoundIsNonFatal(t *testing.T) {
	judge := scriptedJudge([]map[string]string{
		{"a.jpg": "H3"},
		nil,
		{"a.jpg": "H3"},
	}, []error{nil, errors.New("model unavailable"), nil})

	tallies, err := ReachConsensus(context.Background(), []*photo.Record{target("a.jpg", "old")}, 3, judge)
	if err != nil {
		t.Fatalf("round failure must not fail consensus: %v", err)
	}

	tl := tallies["a.jpg"]
	if tl.Value != "H3" || !tl.Unanimous {
		t.Errorf("expected unanimous H3 from the two good rounds, got %+v", tl)
	}
	if len(tl.Votes) != 2 {
		t.Errorf("expected 2 votes, got %d", len(tl.Votes))
	}
}

func TestReachConsensus_MissingVoteNotCounted(t *testing.T) {
	judge := scriptedJudge([]map[string]string{
		{"a.jpg": "X", "b.jpg": "Y"},
		{"a.jpg": "X"}, // b.jpg missing from this round
		{"a.jpg": "X", "b.jpg": "Y"},
	}, nil)

	targets := []*photo.Record{target("a.jpg", ""), target("b.jpg", "")}
	tallies, err := ReachConsensus(context.Background(), targets, 3, judge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tallies["b.jpg"].Votes) != 2 {
		t.Errorf("missing vote must simply not count, got %d votes", len(tallies["b.jpg"].Votes))
	}
	if !tallies["b.jpg"].Unanimous {
		t.Error("two identical votes are unanimous")
	}
}

func TestReachConsensus_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	judge := scriptedJudge([]map[string]string{{}}, nil)
	_, err := ReachConsensus(ctx, []*photo.Record{target("a.jpg", "")}, 1, judge)
	if err == nil {
		t.Error("cancelled context must surface an error")
	}
}

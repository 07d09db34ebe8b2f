package photo

import "strings"

// Keyword tiers for phase inference when no explicit phase tag is present.
// This is a documented fallback: the explicit tag from clustering always
// wins, and the heuristic lives behind PhaseScore alone so it can be
// swapped without touching clustering or pairing.
var (
	beforeKeywords = []string{"着工前", "施工前", "着手前", "before", "pre"}
	afterKeywords  = []string{"完成", "完了", "竣工", "出来形", "done", "complete", "after"}
)

// PhaseScore maps a photo to its timeline position: before=0, status=1,
// after=2. The explicit phase tag is used when present; otherwise keyword
// matching over remark, variety and work-type text decides, defaulting to
// the in-progress middle position.
func PhaseScore(a *Analysis) int {
	if a == nil {
		return 1
	}
	switch a.Phase {
	case PhaseBefore:
		return 0
	case PhaseStatus:
		return 1
	case PhaseAfter:
		return 2
	}

	text := strings.ToLower(a.Remark + " " + a.Variety + " " + a.WorkType)
	for _, kw := range beforeKeywords {
		if strings.Contains(text, kw) {
			return 0
		}
	}
	for _, kw := range afterKeywords {
		if strings.Contains(text, kw) {
			return 2
		}
	}
	return 1
}

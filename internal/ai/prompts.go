package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed prompts/photo_analysis.txt
var photoAnalysisPrompt string

//go:embed prompts/station_vote.txt
var stationVotePrompt string

// AnalysisPrompt builds the photo-analysis prompt with the allowed
// work-type catalog injected.
func AnalysisPrompt(workTypes []string) string {
	catalogJSON, _ := json.Marshal(workTypes)
	return fmt.Sprintf(photoAnalysisPrompt, string(catalogJSON))
}

// StationVotePrompt builds the station-disambiguation prompt with the
// candidate station labels seen elsewhere in the run.
func StationVotePrompt(candidates []string) string {
	candidatesJSON, _ := json.Marshal(candidates)
	return fmt.Sprintf(stationVotePrompt, string(candidatesJSON))
}

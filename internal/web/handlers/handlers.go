// Package handlers implements the results API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gembakit/photopair/internal/photo"
	"github.com/gembakit/photopair/internal/pipeline"
	"github.com/gembakit/photopair/internal/scene"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// photoJSON is the wire form of a photo record.
type photoJSON struct {
	Name     string          `json:"name"`
	Size     int64           `json:"size"`
	ModTime  int64           `json:"mod_time"`
	TakenAt  *int64          `json:"taken_at,omitempty"`
	Analysis *photo.Analysis `json:"analysis,omitempty"`
}

type photosRequest struct {
	Photos []photoJSON `json:"photos"`
}

func (req *photosRequest) records() []*photo.Record {
	records := make([]*photo.Record, 0, len(req.Photos))
	for _, p := range req.Photos {
		records = append(records, &photo.Record{
			Name:     p.Name,
			Size:     p.Size,
			ModTime:  p.ModTime,
			TakenAt:  p.TakenAt,
			Status:   photo.StatusDone,
			Analysis: p.Analysis,
		})
	}
	return records
}

func decodePhotos(w http.ResponseWriter, r *http.Request) ([]*photo.Record, bool) {
	var req photosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	if len(req.Photos) == 0 {
		writeError(w, http.StatusBadRequest, "no photos provided")
		return nil, false
	}
	return req.records(), true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func names(photos []*photo.Record) []string {
	out := make([]string, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.Name)
	}
	return out
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pairResponse struct {
	SceneID  string   `json:"scene_id"`
	Before   string   `json:"before"`
	After    string   `json:"after"`
	Score    float64  `json:"score"`
	Matched  []string `json:"matched_landmarks,omitempty"`
	Fallback bool     `json:"fallback,omitempty"`
	Note     string   `json:"note,omitempty"`
}

type omittedResponse struct {
	Reason string   `json:"reason"`
	Photos []string `json:"photos"`
}

// Runs clusters the submitted photos into scenes and selects a
// before/after pair per scene.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	records, ok := decodePhotos(w, r)
	if !ok {
		return
	}

	clustering := pipeline.AssignScenes(records)

	var pairs []pairResponse
	var omitted []omittedResponse
	for _, group := range clustering.Clusters {
		pair, om := scene.SelectPair(group)
		if om != nil {
			omitted = append(omitted, omittedResponse{Reason: om.Reason, Photos: names(om.Members)})
			continue
		}
		pairs = append(pairs, pairResponse{
			SceneID:  group.Key,
			Before:   pair.Before.Name,
			After:    pair.After.Name,
			Score:    pair.Score,
			Matched:  pair.Matched,
			Fallback: pair.Fallback,
			Note:     pair.Note,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":  uuid.NewString(),
		"pairs":   pairs,
		"omitted": omitted,
		"orphans": names(clustering.Orphans),
	})
}

// Pairs returns the strict pair-only ordering with its conservation
// counts.
func (h *Handler) Pairs(w http.ResponseWriter, r *http.Request) {
	records, ok := decodePhotos(w, r)
	if !ok {
		return
	}

	result := scene.SortStrictPairs(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"ordered":       names(result.Ordered),
		"pair_count":    result.PairCount,
		"omitted_count": result.OmittedCount,
		"omitted":       names(result.Omitted),
	})
}

// Sort returns the loose display ordering.
func (h *Handler) Sort(w http.ResponseWriter, r *http.Request) {
	records, ok := decodePhotos(w, r)
	if !ok {
		return
	}

	result := scene.SortLoose(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"ordered":      names(result.Ordered),
		"group_count":  result.GroupCount,
		"orphan_count": result.OrphanCount,
	})
}

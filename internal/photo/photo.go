// Package photo defines the photo records and AI-derived metadata that flow
// through the pairing pipeline.
package photo

import "time"

// Status tracks where a photo is in the processing lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Phase is a photo's stage in the construction timeline.
type Phase string

const (
	PhaseBefore  Phase = "before"
	PhaseAfter   Phase = "after"
	PhaseStatus  Phase = "status"
	PhaseUnknown Phase = "unknown"
)

// GroundCondition is a coarse construction-progress classification of the
// photographed surface. It is the primary before/after discriminator.
type GroundCondition string

const (
	GroundUnpaved           GroundCondition = "unpaved"
	GroundUnderConstruction GroundCondition = "under_construction"
	GroundPaved             GroundCondition = "paved"
)

// Rank returns the ordinal position in the construction progression,
// or -1 for an unknown condition.
func (g GroundCondition) Rank() int {
	switch g {
	case GroundUnpaved:
		return 0
	case GroundUnderConstruction:
		return 1
	case GroundPaved:
		return 2
	}
	return -1
}

// LandmarkCategory is the closed set of static background features the
// model is allowed to report.
type LandmarkCategory string

const (
	LandmarkBuilding LandmarkCategory = "building"
	LandmarkPole     LandmarkCategory = "pole"
	LandmarkSign     LandmarkCategory = "sign"
	LandmarkFence    LandmarkCategory = "fence"
	LandmarkWall     LandmarkCategory = "wall"
	LandmarkTree     LandmarkCategory = "tree"
	LandmarkRoadEdge LandmarkCategory = "road_edge"
)

// Landmark is one static background feature used as a position-invariant
// fingerprint for matching photos of the same location. Coordinates and
// sizes are on a 0-100 image-relative grid. Landmarks are immutable once
// produced by inference.
type Landmark struct {
	Category    LandmarkCategory `json:"category"`
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Description string           `json:"description"`
	Confidence  float64          `json:"confidence"`
}

// Analysis contains the AI-derived structured metadata for a photo.
type Analysis struct {
	WorkType      string          `json:"work_type"`
	Variety       string          `json:"variety"`
	Detail        string          `json:"detail"`
	Station       string          `json:"station"`
	Remark        string          `json:"remark"`
	Description   string          `json:"description"`
	HasBlackboard bool            `json:"has_blackboard"`
	RawText       string          `json:"raw_text"`
	Viewpoint     string          `json:"viewpoint"`
	Ground        GroundCondition `json:"ground_condition"`
	Anchor        string          `json:"anchor"`
	Landmarks     []Landmark      `json:"landmarks"`

	// SceneID and Phase are set together or not at all; a clustering
	// decision is atomic. Use SetScene/ClearScene.
	SceneID string `json:"scene_id,omitempty"`
	Phase   Phase  `json:"phase,omitempty"`
}

// SetScene records a clustering decision. Both fields are written together
// so a reader never observes a scene without a phase.
func (a *Analysis) SetScene(sceneID string, phase Phase) {
	a.SceneID = sceneID
	a.Phase = phase
}

// ClearScene removes a prior clustering decision.
func (a *Analysis) ClearScene() {
	a.SceneID = ""
	a.Phase = ""
}

// HasScene reports whether a clustering decision is present.
func (a *Analysis) HasScene() bool {
	return a.SceneID != "" && a.Phase != ""
}

// Record is one ingested photograph. The binary payload stays with the
// caller; the record only carries enough identity to match inference
// results back and to key the cross-run cache.
type Record struct {
	Name    string // stable identifier (filename)
	Size    int64
	ModTime int64  // file modification time, epoch millis
	TakenAt *int64 // capture timestamp, epoch millis; nil when EXIF is missing
	Status  Status
	Analysis *Analysis
}

// CaptureMillis returns the capture timestamp, falling back to the file
// modification time when the photo carries no capture date.
func (r *Record) CaptureMillis() int64 {
	if r.TakenAt != nil {
		return *r.TakenAt
	}
	return r.ModTime
}

// CaptureTime is CaptureMillis as a time.Time.
func (r *Record) CaptureTime() time.Time {
	return time.UnixMilli(r.CaptureMillis())
}

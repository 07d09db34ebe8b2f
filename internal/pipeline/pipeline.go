// Package pipeline runs the full analysis flow: batched inference with
// caching, vocabulary validation, scene clustering and the consensus
// station re-read. Batches run sequentially; a failed batch marks its
// photos and the run continues.
package pipeline

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gembakit/photopair/internal/ai"
	"github.com/gembakit/photopair/internal/config"
	"github.com/gembakit/photopair/internal/inference"
	"github.com/gembakit/photopair/internal/photo"
	"github.com/gembakit/photopair/internal/scene"
	"github.com/gembakit/photopair/internal/store"
	"github.com/gembakit/photopair/internal/vocab"
)

// Invoker is the inference entry point the runner depends on.
// *inference.Orchestrator satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, items []inference.Item, prompt string, schema any) ([]inference.Result, error)
	InvokeAt(ctx context.Context, temperature float64, items []inference.Item, prompt string, schema any) ([]inference.Result, error)
}

// Options tunes a Runner. Zero values get safe defaults.
type Options struct {
	BatchSize int
	Consensus config.ConsensusConfig
	// Progress is called after each photo is resolved (cache hit,
	// analysis, or error). Nil is fine.
	Progress func(done, total int)
	Logger   zerolog.Logger
}

// Runner owns one run's working set.
type Runner struct {
	cache          store.Cache
	invoker        Invoker
	analysisSchema any
	stationSchema  any
	catalog        *vocab.Catalog
	opts           Options
}

func NewRunner(cache store.Cache, invoker Invoker, provider ai.Provider, catalog *vocab.Catalog, opts Options) *Runner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	var analysisSchema, stationSchema any
	if provider != nil {
		analysisSchema = provider.AnalysisSchema()
		stationSchema = provider.StationSchema()
	}
	return &Runner{
		cache:          cache,
		invoker:        invoker,
		analysisSchema: analysisSchema,
		stationSchema:  stationSchema,
		catalog:        catalog,
		opts:           opts,
	}
}

// Analyze fills in analyses for all photos: cached results are reused,
// the rest go to inference in fixed-size batches. Only a cancelled
// context aborts the run; batch failures mark their photos as errors
// and the run continues.
func (r *Runner) Analyze(ctx context.Context, photos []*photo.Record, payloads map[string][]byte) error {
	runID := uuid.NewString()
	log := r.opts.Logger.With().Str("run_id", runID).Logger()
	log.Info().Int("photos", len(photos)).Int("batch_size", r.opts.BatchSize).Msg("starting analysis run")

	prompt := ai.AnalysisPrompt(r.catalog.WorkTypes())
	done := 0
	advance := func(n int) {
		done += n
		if r.opts.Progress != nil {
			r.opts.Progress(done, len(photos))
		}
	}

	for start := 0; start < len(photos); start += r.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+r.opts.BatchSize, len(photos))
		if err := r.analyzeBatch(ctx, log, photos[start:end], payloads, prompt, advance); err != nil {
			return err
		}
	}

	log.Info().Int("photos", len(photos)).Msg("analysis run finished")
	return nil
}

func (r *Runner) analyzeBatch(ctx context.Context, log zerolog.Logger, batch []*photo.Record, payloads map[string][]byte, prompt string, advance func(int)) error {
	var misses []*photo.Record
	for _, p := range batch {
		p.Status = photo.StatusProcessing

		cached, err := r.cache.Get(ctx, store.Key(p.Name, p.Size, p.ModTime))
		if err != nil {
			log.Warn().Str("photo", p.Name).Err(err).Msg("cache read failed")
		}
		if cached != nil {
			p.Analysis = cached
			p.Status = photo.StatusDone
			advance(1)
			continue
		}
		misses = append(misses, p)
	}
	if len(misses) == 0 {
		return nil
	}

	items := make([]inference.Item, 0, len(misses))
	for _, p := range misses {
		items = append(items, inference.Item{Name: p.Name, Payload: payloads[p.Name]})
	}

	results, err := r.invoker.Invoke(ctx, items, prompt, r.analysisSchema)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error().Int("photos", len(misses)).Err(err).Msg("batch inference failed")
		for _, p := range misses {
			p.Status = photo.StatusError
		}
		advance(len(misses))
		return nil
	}

	byName := make(map[string]*inference.Result, len(results))
	for i := range results {
		res := &results[i]
		if _, known := payloads[res.Name]; !known {
			log.Warn().Str("photo", res.Name).Msg("result for unknown filename ignored")
			continue
		}
		byName[res.Name] = res
	}

	for _, p := range misses {
		res, ok := byName[p.Name]
		switch {
		case !ok:
			log.Warn().Str("photo", p.Name).Msg("no inference result for photo")
			p.Status = photo.StatusError
		case res.Err != "" || res.Analysis == nil:
			log.Warn().Str("photo", p.Name).Str("error", res.Err).Msg("inference result unusable")
			p.Status = photo.StatusError
		default:
			if !r.catalog.Repair(res.Analysis) {
				log.Warn().Str("photo", p.Name).Str("work_type", res.Analysis.WorkType).
					Msg("classification outside catalog, keeping as reported")
			}
			p.Analysis = res.Analysis
			p.Status = photo.StatusDone
			if err := r.cache.Put(ctx, store.Key(p.Name, p.Size, p.ModTime), p.Analysis); err != nil {
				log.Warn().Str("photo", p.Name).Err(err).Msg("cache write failed")
			}
		}
		advance(1)
	}
	return nil
}

// AssignScenes clusters the analyzed photos and stamps each member with
// its scene ID and timeline phase. Orphans get any previous scene
// cleared so re-runs converge.
func AssignScenes(photos []*photo.Record) scene.Clustering {
	clustering := scene.Cluster(photos)

	for _, group := range clustering.Clusters {
		for _, member := range group.Members {
			member.Analysis.SetScene(group.Key, phaseFor(member.Analysis))
		}
	}
	for _, orphan := range clustering.Orphans {
		if orphan.Analysis != nil {
			orphan.Analysis.ClearScene()
		}
	}
	return clustering
}

func phaseFor(a *photo.Analysis) photo.Phase {
	switch photo.PhaseScore(a) {
	case 0:
		return photo.PhaseBefore
	case 2:
		return photo.PhaseAfter
	}
	return photo.PhaseStatus
}

// Consensus re-reads station labels for photos whose remark is on the
// disambiguation allowlist, using one inference call per voting round
// at that round's temperature. Majority wins; results are written back
// to the analyses.
func (r *Runner) Consensus(ctx context.Context, photos []*photo.Record, payloads map[string][]byte) (map[string]scene.Tally, error) {
	allowed := make(map[string]bool, len(r.opts.Consensus.RemarkAllowlist))
	for _, remark := range r.opts.Consensus.RemarkAllowlist {
		allowed[remark] = true
	}

	var targets []*photo.Record
	for _, p := range photos {
		if p.Analysis != nil && allowed[p.Analysis.Remark] {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		return map[string]scene.Tally{}, nil
	}

	prompt := ai.StationVotePrompt(knownStations(photos))
	log := r.opts.Logger

	judge := func(ctx context.Context, round int, voters []*photo.Record) (map[string]string, error) {
		items := make([]inference.Item, 0, len(voters))
		for _, p := range voters {
			items = append(items, inference.Item{Name: p.Name, Payload: payloads[p.Name]})
		}

		temperature := r.opts.Consensus.TemperatureFor(round)
		results, err := r.invoker.InvokeAt(ctx, temperature, items, prompt, r.stationSchema)
		if err != nil {
			return nil, err
		}

		votes := make(map[string]string, len(results))
		for _, res := range results {
			if res.Err != "" || res.Analysis == nil {
				continue
			}
			votes[res.Name] = res.Analysis.Station
		}
		return votes, nil
	}

	rounds := r.opts.Consensus.Rounds
	if rounds <= 0 {
		rounds = 3
	}
	tallies, err := scene.ReachConsensus(ctx, targets, rounds, judge)
	if err != nil {
		return nil, err
	}

	for _, p := range targets {
		tally, ok := tallies[p.Name]
		if !ok || !tally.Changed {
			continue
		}
		if tally.Value != p.Analysis.Station {
			log.Info().Str("photo", p.Name).
				Str("from", p.Analysis.Station).Str("to", tally.Value).
				Bool("unanimous", tally.Unanimous).
				Msg("station updated by consensus")
			p.Analysis.Station = tally.Value
		}
	}
	return tallies, nil
}

// knownStations collects the distinct canonical station labels across
// the run, in sorted order, as context for the vote prompt.
func knownStations(photos []*photo.Record) []string {
	seen := make(map[string]bool)
	var stations []string
	for _, p := range photos {
		if p.Analysis == nil {
			continue
		}
		s := photo.CanonicalStation(p.Analysis.Station)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		stations = append(stations, s)
	}
	sort.Strings(stations)
	return stations
}

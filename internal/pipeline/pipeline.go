// Package pipeline sequences the staged refinement phases through an
// explicit state machine:
//
//	INIT -> EXTRACTING -> SCORING -> VALIDATING -> REFINING ->
//	GOVERNING -> PURIFYING -> LIVE_REFINING -> DONE
//
// FAILED is reachable from any phase on a hard validation failure. The
// REFINING..LIVE_REFINING phases short-circuit to empty results when the
// preceding phase produced no admitted data; that is a no-op, not an
// error.
package pipeline

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"refinery/internal/config"
	"refinery/internal/extract"
	"refinery/internal/governance"
	"refinery/internal/liverefine"
	"refinery/internal/logging"
	"refinery/internal/purity"
	"refinery/internal/record"
	"refinery/internal/refine"
	"refinery/internal/resonance"
	"refinery/internal/reward"
	"refinery/internal/session"
)

// Pipeline is the batch orchestrator. All state lives in this explicit
// context object, constructed at orchestration start and torn down at
// end; there are no process-wide mutable singletons.
type Pipeline struct {
	cfg    *config.Config
	buffer *session.Buffer

	extractor *extract.Extractor
	builder   *record.Builder
	validator *resonance.Validator
	engine    *refine.Engine
	governor  *governance.Filter
	purifier  *purity.Filter
	live      *liverefine.Refiner
	rewarder  *reward.Calculator

	phase Phase
}

// New validates the configuration and wires the phase components around a
// fresh session buffer.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buffer := session.New(cfg.Session)
	governor, err := governance.New(cfg.Governance)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		buffer:    buffer,
		extractor: extract.New(cfg.Extraction),
		builder:   record.NewBuilder(cfg.Scoring, cfg.Extraction.ClusterSize),
		validator: resonance.New(cfg.Resonance),
		engine:    refine.NewEngine(cfg.Refinement, buffer),
		governor:  governor,
		purifier:  purity.New(cfg.Purity),
		live:      liverefine.New(cfg.Live, buffer),
		rewarder:  reward.New(cfg.Reward),
		phase:     PhaseInit,
	}, nil
}

// Buffer exposes the session buffer for post-run observability. It never
// gates pipeline decisions.
func (p *Pipeline) Buffer() *session.Buffer { return p.buffer }

// Phase returns the current orchestrator state.
func (p *Pipeline) Phase() Phase { return p.phase }

// Run moves one input document through every phase and returns the
// structured report. The report is always non-nil; on failure the typed
// error is returned alongside for callers that want to branch on it, but
// the report itself carries the failing phase and reason.
func (p *Pipeline) Run(ctx context.Context, input io.Reader) (*Report, error) {
	log := logging.Get(logging.CategoryPipeline)
	report := &Report{RunID: uuid.NewString(), Status: StatusSuccess}

	// EXTRACTING
	p.transition(report, PhaseExtracting)
	units := p.extractor.Units(input)

	// SCORING drains the lazy unit iterator through the builder; unit
	// counting happens there, in the single forward pass.
	p.transition(report, PhaseScoring)
	records, unitCount, err := p.builder.BuildCounted(ctx, units)
	if err != nil {
		report.fail(PhaseScoring, err.Error())
		return report, err
	}
	report.record(PhaseExtracting, map[string]float64{"units": float64(unitCount)})
	report.record(PhaseScoring, map[string]float64{
		"units":    float64(unitCount),
		"admitted": float64(len(records)),
	})
	p.buffer.Store("pipeline/admitted", len(records))

	if unitCount < p.cfg.Extraction.MinUnits {
		failErr := &InsufficientInputError{Units: unitCount, Min: p.cfg.Extraction.MinUnits}
		report.fail(PhaseExtracting, failErr.Error())
		p.phase = PhaseFailed
		return report, failErr
	}

	// VALIDATING
	p.transition(report, PhaseValidating)
	res := p.validator.Validate(records)
	report.record(PhaseValidating, map[string]float64{
		"resonance": res.Resonance,
		"raw":       res.Raw,
		"threshold": p.validator.Threshold(),
		"inflated":  boolMetric(res.Inflated),
		"records":   float64(res.Records),
	})
	p.buffer.StoreWeighted("pipeline/resonance", res.Raw, res.Raw)
	if !res.Passed {
		failErr := &ValidationFailure{Phase: PhaseValidating, Measured: res.Raw, Threshold: p.validator.Threshold()}
		report.fail(PhaseValidating, failErr.Error())
		p.phase = PhaseFailed
		return report, failErr
	}

	// REFINING
	p.transition(report, PhaseRefining)
	seed := joinRecords(records)
	refined, err := p.engine.Run(ctx, seed)
	if err != nil {
		report.fail(PhaseRefining, err.Error())
		p.phase = PhaseFailed
		return report, err
	}
	report.KnowledgeLog = refined.Knowledge
	report.record(PhaseRefining, map[string]float64{
		"rounds":    float64(p.cfg.Refinement.Rounds),
		"cycles":    float64(len(refined.Cycles)),
		"knowledge": float64(len(refined.Knowledge)),
		"clarity":   refined.Channels.Clarity,
		"depth":     refined.Channels.Depth,
		"coherence": refined.Channels.Coherence,
		"synthesis": refined.Channels.Synthesis,
		"grounding": refined.Channels.Grounding,
	})

	// GOVERNING
	p.transition(report, PhaseGoverning)
	accepted, decisions := p.governor.Review(refined.Cycles)
	report.GovernanceLog = decisions
	report.record(PhaseGoverning, map[string]float64{
		"reviewed": float64(len(decisions)),
		"accepted": float64(len(accepted)),
		"rejected": float64(len(decisions) - len(accepted)),
	})
	p.buffer.Store("pipeline/governance_accepted", len(accepted))

	// PURIFYING
	p.transition(report, PhasePurifying)
	purified, violations, purityReport := p.purifier.Purify(accepted)
	report.ViolationLog = violations
	report.PurityReport = &purityReport
	report.record(PhasePurifying, map[string]float64{
		"evaluated":  float64(purityReport.Evaluated),
		"passed":     float64(purityReport.Passed),
		"violations": float64(purityReport.Rejected),
	})

	// LIVE_REFINING. Records proceed only when governance and purity let
	// something through; otherwise the phase is a no-op on empty input.
	p.transition(report, PhaseLiveRefining)
	finalRecords := records
	if len(purified) == 0 {
		finalRecords = nil
	}
	corrections, metrics, err := p.live.Refine(ctx, finalRecords)
	if err != nil {
		report.fail(PhaseLiveRefining, err.Error())
		p.phase = PhaseFailed
		return report, err
	}
	report.CorrectionLog = corrections
	report.Metrics = &metrics
	report.record(PhaseLiveRefining, map[string]float64{
		"records":         float64(len(finalRecords)),
		"passes":          float64(p.cfg.Live.Passes),
		"corrections":     float64(len(corrections)),
		"coherence":       metrics.Coherence,
		"purity":          metrics.Purity,
		"reality_anchor":  metrics.RealityAnchor,
		"arrogance_index": metrics.ArroganceIndex,
	})

	// Reward the terminal result. Quality blends coherence and purity;
	// density is the reality anchor.
	quality := (metrics.Coherence + metrics.Purity) / 2
	density := metrics.RealityAnchor
	breakdown := p.rewarder.Score(quality, density, refined.Final)
	report.Reward = &breakdown
	report.record(PhaseDone, map[string]float64{
		"quality":     quality,
		"density":     density,
		"base":        breakdown.Base,
		"multiplier":  breakdown.Multiplier,
		"bonus":       breakdown.Bonus,
		"total":       breakdown.Total,
		"rolling_avg": p.rewarder.RollingAverage(),
	})

	p.phase = PhaseDone
	log.Info("run %s complete: %d records, reward %.2f", report.RunID, len(finalRecords), breakdown.Total)
	return report, nil
}

func (p *Pipeline) transition(report *Report, next Phase) {
	logging.PipelineDebug("phase %s -> %s", p.phase, next)
	p.phase = next
}

func joinRecords(records []*record.Record) string {
	if len(records) == 0 {
		return ""
	}
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n")
}

func boolMetric(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

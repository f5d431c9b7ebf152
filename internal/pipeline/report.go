package pipeline

import (
	"refinery/internal/consent"
	"refinery/internal/governance"
	"refinery/internal/liverefine"
	"refinery/internal/purity"
	"refinery/internal/refine"
	"refinery/internal/reward"
)

// Status is the terminal pipeline outcome.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Phase names the orchestrator states.
type Phase string

const (
	PhaseInit         Phase = "INIT"
	PhaseExtracting   Phase = "EXTRACTING"
	PhaseScoring      Phase = "SCORING"
	PhaseValidating   Phase = "VALIDATING"
	PhaseRefining     Phase = "REFINING"
	PhaseGoverning    Phase = "GOVERNING"
	PhasePurifying    Phase = "PURIFYING"
	PhaseLiveRefining Phase = "LIVE_REFINING"
	PhaseDone         Phase = "DONE"
	PhaseFailed       Phase = "FAILED"
)

// PhaseMetrics maps a phase name to its numeric metrics.
type PhaseMetrics map[string]map[string]float64

// Report is the terminal artifact of one pipeline run. No error escapes
// the pipeline boundary; every failure mode resolves to a FAILED report
// with the originating phase named.
type Report struct {
	RunID        string       `json:"run_id"`
	Status       Status       `json:"status"`
	PhaseMetrics PhaseMetrics `json:"phase_metrics"`

	KnowledgeLog  []refine.KnowledgeEntry `json:"knowledge_log"`
	GovernanceLog []governance.Decision   `json:"governance_log"`
	ViolationLog  []purity.Violation      `json:"violation_log"`
	CorrectionLog []liverefine.Correction `json:"correction_log"`
	AccessLog     []consent.AccessRecord  `json:"access_log,omitempty"`

	PurityReport *purity.Report      `json:"purity_report,omitempty"`
	Reward       *reward.Breakdown   `json:"reward,omitempty"`
	Metrics      *liverefine.Metrics `json:"metrics,omitempty"`

	FailedPhase Phase  `json:"failed_phase,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (r *Report) record(phase Phase, metrics map[string]float64) {
	if r.PhaseMetrics == nil {
		r.PhaseMetrics = make(PhaseMetrics)
	}
	r.PhaseMetrics[string(phase)] = metrics
}

func (r *Report) fail(phase Phase, reason string) {
	r.Status = StatusFailed
	r.FailedPhase = phase
	r.Reason = reason
}

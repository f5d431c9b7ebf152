package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"refinery/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	phaseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// phaseOrder fixes report rendering to the state machine traversal order.
var phaseOrder = []pipeline.Phase{
	pipeline.PhaseExtracting,
	pipeline.PhaseScoring,
	pipeline.PhaseValidating,
	pipeline.PhaseRefining,
	pipeline.PhaseGoverning,
	pipeline.PhasePurifying,
	pipeline.PhaseLiveRefining,
	pipeline.PhaseDone,
}

func renderReport(r *pipeline.Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("refinery pipeline report"))
	sb.WriteString(dimStyle.Render("  run " + r.RunID))
	sb.WriteString("\n")

	if r.Status == pipeline.StatusSuccess {
		sb.WriteString(okStyle.Render("status: SUCCESS"))
	} else {
		sb.WriteString(failStyle.Render("status: FAILED"))
		sb.WriteString(fmt.Sprintf("  phase=%s reason=%s", r.FailedPhase, r.Reason))
	}
	sb.WriteString("\n\n")

	for _, phase := range phaseOrder {
		metrics, ok := r.PhaseMetrics[string(phase)]
		if !ok {
			continue
		}
		sb.WriteString(phaseStyle.Render(string(phase)))
		sb.WriteString("\n")
		keys := make([]string, 0, len(metrics))
		for k := range metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %-16s %.4f\n", k, metrics[k]))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf(
		"knowledge entries: %d  governance decisions: %d  violations: %d  corrections: %d",
		len(r.KnowledgeLog), len(r.GovernanceLog), len(r.ViolationLog), len(r.CorrectionLog))))
	sb.WriteString("\n")

	if r.Reward != nil {
		sb.WriteString(fmt.Sprintf("reward: tier=%s base=%.1f multiplier=%.2f bonus=%.1f total=%.2f\n",
			r.Reward.Tier, r.Reward.Base, r.Reward.Multiplier, r.Reward.Bonus, r.Reward.Total))
	}
	if r.PurityReport != nil {
		sb.WriteString(dimStyle.Render(r.PurityReport.Statement))
		sb.WriteString("\n")
	}
	return sb.String()
}

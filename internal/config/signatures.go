package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

// IssueSignature is one recurring-issue keyword signature. A ticket matches
// when every keyword appears in its title or description.
type IssueSignature struct {
	ID          string                `yaml:"id"`
	Name        string                `yaml:"name"`
	Category    domain.TicketCategory `yaml:"category"`
	Keywords    []string              `yaml:"keywords"`
	Suggestions []string              `yaml:"suggestions"`
}

// EscalationTrigger maps content keywords to a named trigger condition.
type EscalationTrigger struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Heuristics bundles the tunable signature and heuristic tables consumed by
// the pattern recognizer and the forecaster. They are data, not code: the
// table ships with defaults but is replaced wholesale by a YAML file so new
// recurring issues can be added without a deploy.
type Heuristics struct {
	IssueSignatures []IssueSignature `yaml:"issue_signatures"`
	// Escalation detection matches these hints against the assignee display
	// name. Known risk: locale- and convention-dependent; an explicit role
	// field on the assignee would be the robust replacement.
	EscalationAssigneeHints []string            `yaml:"escalation_assignee_hints"`
	EscalationTriggers      []EscalationTrigger `yaml:"escalation_triggers"`
	TicketsPerStaffPerDay   int                 `yaml:"tickets_per_staff_per_day"`
	SkillMixPct             map[string]int      `yaml:"skill_mix_pct"`
}

// LoadHeuristics reads the signature library from path, or returns the
// built-in defaults when path is empty.
func LoadHeuristics(path string) (*Heuristics, error) {
	if path == "" {
		return DefaultHeuristics(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signatures file: %w", err)
	}
	h := &Heuristics{}
	if err := yaml.Unmarshal(raw, h); err != nil {
		return nil, fmt.Errorf("parse signatures file: %w", err)
	}
	h.fillDefaults()
	return h, nil
}

// DefaultHeuristics returns the compiled-in signature library.
func DefaultHeuristics() *Heuristics {
	h := &Heuristics{
		IssueSignatures: []IssueSignature{
			{
				ID:       "camera-connection",
				Name:     "Camera connection drops",
				Category: domain.CategoryTechnical,
				Keywords: []string{"camera", "connection"},
				Suggestions: []string{
					"Check stall camera network segment for packet loss",
					"Publish a self-service reconnection guide",
				},
			},
			{
				ID:       "ai-false-positive",
				Name:     "AI false positive alerts",
				Category: domain.CategoryAISupport,
				Keywords: []string{"false", "positive"},
				Suggestions: []string{
					"Review behavior-detection thresholds for the reported barn",
					"Collect labeled clips for model retraining",
				},
			},
			{
				ID:       "billing-invoice",
				Name:     "Invoice disputes",
				Category: domain.CategoryBilling,
				Keywords: []string{"invoice"},
				Suggestions: []string{
					"Route to billing specialists directly",
					"Surface invoice breakdown in the client portal",
				},
			},
			{
				ID:       "login-access",
				Name:     "Login and access problems",
				Category: domain.CategoryGeneral,
				Keywords: []string{"login"},
				Suggestions: []string{
					"Add a password-reset shortcut to the login screen",
				},
			},
			{
				ID:       "video-playback",
				Name:     "Video playback failures",
				Category: domain.CategoryTechnical,
				Keywords: []string{"video", "playback"},
				Suggestions: []string{
					"Verify stream transcoder capacity during peak hours",
				},
			},
		},
		EscalationAssigneeHints: []string{"manager", "admin"},
		EscalationTriggers: []EscalationTrigger{
			{Label: "customer_dissatisfaction", Keywords: []string{"angry", "frustrated", "unacceptable", "cancel"}},
			{Label: "repeat_issue", Keywords: []string{"again", "still", "repeatedly"}},
			{Label: "outage", Keywords: []string{"down", "outage", "offline"}},
		},
		TicketsPerStaffPerDay: 8,
		SkillMixPct: map[string]int{
			"general":    50,
			"technical":  30,
			"specialist": 20,
		},
	}
	return h
}

func (h *Heuristics) fillDefaults() {
	defaults := DefaultHeuristics()
	if len(h.IssueSignatures) == 0 {
		h.IssueSignatures = defaults.IssueSignatures
	}
	if len(h.EscalationAssigneeHints) == 0 {
		h.EscalationAssigneeHints = defaults.EscalationAssigneeHints
	}
	if len(h.EscalationTriggers) == 0 {
		h.EscalationTriggers = defaults.EscalationTriggers
	}
	if h.TicketsPerStaffPerDay <= 0 {
		h.TicketsPerStaffPerDay = defaults.TicketsPerStaffPerDay
	}
	if len(h.SkillMixPct) == 0 {
		h.SkillMixPct = defaults.SkillMixPct
	}
}

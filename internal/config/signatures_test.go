package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-analytics/internal/domain"
)

func TestLoadHeuristics(t *testing.T) {
	t.Run("empty path returns the built-in defaults", func(t *testing.T) {
		h, err := LoadHeuristics("")

		require.NoError(t, err)
		assert.Len(t, h.IssueSignatures, 5)
		assert.Equal(t, []string{"manager", "admin"}, h.EscalationAssigneeHints)
		assert.Equal(t, 8, h.TicketsPerStaffPerDay)
		assert.Equal(t, 50, h.SkillMixPct["general"])
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadHeuristics(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("issue_signatures: [unterminated"), 0o600))

		_, err := LoadHeuristics(path)
		assert.Error(t, err)
	})

	t.Run("file replaces the signature library", func(t *testing.T) {
		raw := `
issue_signatures:
  - id: saddle-fitting
    name: Saddle fitting requests
    category: general
    keywords: [saddle]
    suggestions:
      - Publish the fitting guide
escalation_assignee_hints: [supervisor]
tickets_per_staff_per_day: 12
`
		path := filepath.Join(t.TempDir(), "signatures.yaml")
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		h, err := LoadHeuristics(path)

		require.NoError(t, err)
		require.Len(t, h.IssueSignatures, 1)
		assert.Equal(t, "saddle-fitting", h.IssueSignatures[0].ID)
		assert.Equal(t, domain.CategoryGeneral, h.IssueSignatures[0].Category)
		assert.Equal(t, []string{"supervisor"}, h.EscalationAssigneeHints)
		assert.Equal(t, 12, h.TicketsPerStaffPerDay)
	})

	t.Run("omitted sections fall back to defaults", func(t *testing.T) {
		raw := "escalation_assignee_hints: [lead]\n"
		path := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		h, err := LoadHeuristics(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"lead"}, h.EscalationAssigneeHints)
		assert.Len(t, h.IssueSignatures, 5)
		assert.Equal(t, 8, h.TicketsPerStaffPerDay)
		assert.NotEmpty(t, h.EscalationTriggers)
	})
}

package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftloop/draftloop/core"
)

func TestBuildBlockOrdering(t *testing.T) {
	b := NewBuilder()
	lastSeen := &core.Snapshot{Content: "old content", Stage: core.StageDraft}
	payload := b.Build(Input{
		Stage:   core.StageDraft,
		Concept: &core.ConceptSnapshot{Title: "On Brevity", CoreArgument: "less is more", Audience: "writers", Tone: "direct"},
		Outline: []core.OutlineSection{{ID: "a", Title: "Intro", Description: "hook", EstimatedWords: 150}},
		Content: "new content",
		LastSeen: lastSeen,
	})

	indices := []int{
		strings.Index(payload, "## Stage: draft"),
		strings.Index(payload, "## Locked concept"),
		strings.Index(payload, "## Locked outline"),
		strings.Index(payload, "## Current document"),
		strings.Index(payload, "## Recent user changes"),
		strings.Index(payload, "## Using tools"),
	}
	for i, idx := range indices {
		require.GreaterOrEqual(t, idx, 0, "block %d missing", i)
		if i > 0 {
			assert.Greater(t, idx, indices[i-1], "block %d out of order", i)
		}
	}
}

func TestBuildOmitsAbsentBlocks(t *testing.T) {
	b := NewBuilder()
	payload := b.Build(Input{Stage: core.StageConcept, Content: ""})

	assert.NotContains(t, payload, "## Locked concept")
	assert.NotContains(t, payload, "## Locked outline")
	assert.NotContains(t, payload, "## Recent user changes")
	assert.NotContains(t, payload, "## Conflicts")
	assert.Contains(t, payload, "(the document is empty)")
}

func TestBuildNoChangesBlockWhenNothingChanged(t *testing.T) {
	b := NewBuilder()
	snap := &core.Snapshot{
		Content: "same",
		Outline: []core.OutlineSection{{ID: "a", Title: "Intro"}},
		Stage:   core.StageDraft,
	}
	payload := b.Build(Input{
		Stage:    core.StageDraft,
		Outline:  []core.OutlineSection{{ID: "a", Title: "Intro"}},
		Content:  "same",
		LastSeen: snap,
	})
	assert.NotContains(t, payload, "## Recent user changes")
}

func TestBuildReportsStageChange(t *testing.T) {
	b := NewBuilder()
	payload := b.Build(Input{
		Stage:    core.StageEdits,
		Content:  "text",
		LastSeen: &core.Snapshot{Content: "text", Stage: core.StageDraft},
	})
	assert.Contains(t, payload, "moved from draft to edits")
}

func TestBuildConflictsBlock(t *testing.T) {
	b := NewBuilder()
	payload := b.Build(Input{
		Stage:   core.StageDraft,
		Outline: []core.OutlineSection{},
		Content: "## Intro\nsome text written against the removed section",
		LastSeen: &core.Snapshot{
			Content: "## Intro\nsome text written against the removed section",
			Outline: []core.OutlineSection{{ID: "a", Title: "Intro"}},
			Stage:   core.StageDraft,
		},
	})
	assert.Contains(t, payload, "## Conflicts")
	assert.Contains(t, payload, "no longer exists in the outline")
}

func TestBuildNoConflictsBlockWhenOutlineUnchanged(t *testing.T) {
	b := NewBuilder()
	outline := []core.OutlineSection{{ID: "a", Title: "Intro"}}
	payload := b.Build(Input{
		Stage:   core.StageDraft,
		Outline: outline,
		Content: "## Intro\ntext",
		LastSeen: &core.Snapshot{
			Content: "different text",
			Outline: outline,
			Stage:   core.StageDraft,
		},
	})
	assert.NotContains(t, payload, "## Conflicts")
}

func TestBuildWordCount(t *testing.T) {
	b := NewBuilder()
	payload := b.Build(Input{Stage: core.StageDraft, Content: "one two three four"})
	assert.Contains(t, payload, "## Current document (4 words)")
}

func TestTruncateAtWord(t *testing.T) {
	assert.Equal(t, "short", truncateAtWord("short", 10))

	long := strings.Repeat("word ", 100)
	got := truncateAtWord(long, 52)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), 53)
	// Never cuts mid-word.
	trimmed := strings.TrimSuffix(got, "…")
	assert.True(t, strings.HasSuffix(trimmed, "word"))

	// A single token longer than the limit is hard-cut.
	giant := strings.Repeat("x", 40)
	got = truncateAtWord(giant, 10)
	assert.Equal(t, strings.Repeat("x", 10)+"…", got)
}

func TestStageGuidanceCoversAllStages(t *testing.T) {
	for _, stage := range core.Stages() {
		guidance := stageGuidance(stage)
		assert.True(t, strings.HasPrefix(guidance, "## Stage"), "stage %s", stage)
	}
	assert.Equal(t, stageGuidance(core.StageIdea), stageGuidance(core.StageConcept))
	assert.Contains(t, stageGuidance(core.Stage("mystery")), "## Stage")
}

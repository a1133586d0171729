// Package prompt assembles the instruction payload sent to the model. The
// block ordering is fixed and deterministic: stage guidance, locked concept,
// locked outline, document preview, recent user changes, conflicts and tool
// guidance. Optional blocks that have nothing to say are omitted entirely so
// the payload never carries empty headers.
package prompt

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/draftloop/draftloop/conflict"
	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/diff"
)

// DefaultPreviewLimit caps the document preview included in the payload.
const DefaultPreviewLimit = 2000

// Input carries everything the builder needs for one turn.
type Input struct {
	Stage   core.Stage
	Concept *core.ConceptSnapshot
	Outline []core.OutlineSection
	Content string
	// LastSeen is the snapshot recorded after the model's previous turn;
	// nil on the first turn, which suppresses the recent-changes block.
	LastSeen *core.Snapshot
}

// Builder composes instruction payloads. The zero value is not usable;
// construct with NewBuilder.
type Builder struct {
	previewLimit int
}

// Option customizes a Builder.
type Option func(*Builder)

// WithPreviewLimit overrides the document preview cap in characters.
func WithPreviewLimit(limit int) Option {
	return func(b *Builder) { b.previewLimit = limit }
}

// NewBuilder creates a Builder with the default preview limit.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{previewLimit: DefaultPreviewLimit}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build composes the full instruction payload for the current turn.
func (b *Builder) Build(in Input) string {
	var blocks []string

	blocks = append(blocks, stageGuidance(in.Stage))

	if in.Concept != nil {
		blocks = append(blocks, conceptBlock(in.Concept))
	}
	if len(in.Outline) > 0 {
		blocks = append(blocks, outlineBlock(in.Outline))
	}

	blocks = append(blocks, previewBlock(in.Content, b.previewLimit))

	if changes := changesBlock(in); changes != "" {
		blocks = append(blocks, changes)
	}
	if conflicts := conflictsBlock(in); conflicts != "" {
		blocks = append(blocks, conflicts)
	}

	blocks = append(blocks, toolGuidance)

	return strings.Join(blocks, "\n\n")
}

func conceptBlock(c *core.ConceptSnapshot) string {
	var sb strings.Builder
	sb.WriteString("## Locked concept\n")
	fmt.Fprintf(&sb, "Title: %s\n", c.Title)
	fmt.Fprintf(&sb, "Core argument: %s\n", c.CoreArgument)
	fmt.Fprintf(&sb, "Audience: %s\n", c.Audience)
	fmt.Fprintf(&sb, "Tone: %s", c.Tone)
	return sb.String()
}

func outlineBlock(outline []core.OutlineSection) string {
	var sb strings.Builder
	sb.WriteString("## Locked outline\n")
	for i, s := range outline {
		fmt.Fprintf(&sb, "%d. %s", i+1, s.Title)
		if s.Description != "" {
			fmt.Fprintf(&sb, " — %s", s.Description)
		}
		if s.EstimatedWords > 0 {
			fmt.Fprintf(&sb, " (~%d words)", s.EstimatedWords)
		}
		if i < len(outline)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func previewBlock(content string, limit int) string {
	words := len(strings.Fields(content))
	preview := truncateAtWord(content, limit)

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Current document (%d words)\n", words)
	if strings.TrimSpace(preview) == "" {
		sb.WriteString("(the document is empty)")
	} else {
		sb.WriteString(preview)
	}
	return sb.String()
}

// changesBlock reports what the user changed since the model's last turn.
// Empty diffs are omitted; if nothing changed at all the block disappears.
func changesBlock(in Input) string {
	if in.LastSeen == nil {
		return ""
	}

	var parts []string
	if d := diff.Content(in.LastSeen.Content, in.Content); d.HasChanges {
		parts = append(parts, fmt.Sprintf("Content: %s\n%s", d.Summary, d.DiffText))
	}
	if d := diff.Outline(in.LastSeen.Outline, in.Outline); d.HasChanges {
		parts = append(parts, "Outline: "+d.Summary)
	}
	if in.LastSeen.Stage != in.Stage {
		parts = append(parts, fmt.Sprintf("Stage: moved from %s to %s", in.LastSeen.Stage, in.Stage))
	}

	if len(parts) == 0 {
		return ""
	}
	return "## Recent user changes\n" + strings.Join(parts, "\n")
}

// conflictsBlock surfaces outline/draft divergence only when the outline
// actually changed since the last turn and a conflict was found.
func conflictsBlock(in Input) string {
	if in.LastSeen == nil {
		return ""
	}
	if !diff.Outline(in.LastSeen.Outline, in.Outline).HasChanges {
		return ""
	}
	report := conflict.Detect(in.LastSeen.Outline, in.Outline, in.Content)
	if !report.HasConflicts {
		return ""
	}
	return "## Conflicts\n" + report.Summary
}

const toolGuidance = `## Using tools
Use the provided tools to read and change the document instead of printing ` +
	`content into the conversation. Read before you write when unsure of the ` +
	`current state. Prefer add_edit_suggestion over update_document once a ` +
	`draft exists, so the user stays in control of every change. Keep outline ` +
	`section ids stable when revising the outline.`

// truncateAtWord caps text at limit characters without splitting a word,
// appending an ellipsis marker when anything was cut.
func truncateAtWord(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit // single giant token; hard cut
	}
	return strings.TrimRight(string(runes[:cut]), " \t\n") + "…"
}

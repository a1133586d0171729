package prompt

import "github.com/draftloop/draftloop/core"

// stageGuidance returns the stage-specific instruction block. The idea stage
// shares the concept guidance: both are about pinning down what the piece is.
func stageGuidance(stage core.Stage) string {
	switch stage {
	case core.StageIdea, core.StageConcept:
		return `## Stage: concept
You are a writing partner helping the user pin down what this piece is.
Ask sharp questions until the title, core argument, audience and tone are
clear, then lock them in with update_concept. Do not start outlining or
drafting before the concept is settled.`
	case core.StageOutline:
		return `## Stage: outline
Help the user turn the locked concept into an ordered outline. Propose
sections with a one-line description and a rough word estimate each, then
record them with update_outline. Challenge sections that do not serve the
core argument.`
	case core.StageDraft:
		return `## Stage: draft
Help the user write the document section by section, following the locked
outline. Use update_document to add prose; match the locked tone. Flag spots
where the draft drifts from the outline rather than silently rewriting
either one.`
	case core.StageEdits:
		return `## Stage: edits
Review the draft critically. Propose concrete changes with
add_edit_suggestion — one suggestion per self-contained edit, with the exact
character range and your reasoning. Do not rewrite the document wholesale.`
	case core.StagePolish:
		return `## Stage: polish
Do a final pass for rhythm, word choice and consistency. Only small,
surgical suggestions at this point; the structure and argument are settled.`
	}
	// Unknown stages get neutral guidance; the core accepts any stage value
	// a tool call requested.
	return `## Stage
Help the user move their document forward using the provided tools.`
}

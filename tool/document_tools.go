package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/draftloop/draftloop/core"
)

// DocumentTools returns the fixed registry of document tools bound to a store:
// read_document, update_document, update_concept, update_outline,
// update_stage and add_edit_suggestion.
func DocumentTools(store core.DocumentStore) []Tool {
	return []Tool{
		&readDocumentTool{store: store},
		&updateDocumentTool{store: store},
		&updateConceptTool{store: store},
		&updateOutlineTool{store: store},
		&updateStageTool{store: store},
		&addEditSuggestionTool{store: store},
	}
}

// -------------------- read_document --------------------

type readDocumentTool struct {
	store core.DocumentStore
}

func (t *readDocumentTool) Name() string { return "read_document" }

func (t *readDocumentTool) Description() string {
	return "Read the full current document: content, outline, concept and stage."
}

func (t *readDocumentTool) InputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *readDocumentTool) Call(_ context.Context, _ map[string]any) (string, error) {
	view := map[string]any{
		"stage":     t.store.Stage(),
		"content":   t.store.Content(),
		"wordCount": len(strings.Fields(t.store.Content())),
	}
	if outline := t.store.Outline(); outline != nil {
		view["outline"] = outline
	}
	if concept := t.store.Concept(); concept != nil {
		view["concept"] = concept
	}
	payload, err := json.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("encode document view: %w", err)
	}
	return string(payload), nil
}

// -------------------- update_document --------------------

type updateDocumentTool struct {
	store core.DocumentStore
}

func (t *updateDocumentTool) Name() string { return "update_document" }

func (t *updateDocumentTool) Description() string {
	return "Update the document content. Mode 'replace' overwrites everything, " +
		"'insert' adds text at a character position, 'append' adds text at the end."
}

func (t *updateDocumentTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The text to write",
			},
			"mode": map[string]any{
				"type":        "string",
				"enum":        []string{"replace", "insert", "append"},
				"description": "How to apply the content",
			},
			"position": map[string]any{
				"type":        "integer",
				"description": "Character offset for insert mode; ignored otherwise",
			},
		},
		"required": []string{"content", "mode"},
	}
}

func (t *updateDocumentTool) Call(_ context.Context, input map[string]any) (string, error) {
	content, _ := input["content"].(string)
	mode, _ := input["mode"].(string)

	switch mode {
	case "replace":
		if err := t.store.SetContent(content); err != nil {
			return "", err
		}
	case "append":
		if err := t.store.SetContent(t.store.Content() + content); err != nil {
			return "", err
		}
	case "insert":
		raw, ok := input["position"]
		if !ok {
			return "", fmt.Errorf("insert mode requires a position")
		}
		position, err := intValue(raw)
		if err != nil {
			return "", fmt.Errorf("position: %w", err)
		}
		current := []rune(t.store.Content())
		if position < 0 || position > len(current) {
			return "", fmt.Errorf("insert position %d out of bounds for content of length %d", position, len(current))
		}
		updated := string(current[:position]) + content + string(current[position:])
		if err := t.store.SetContent(updated); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("Document updated (%s). New length: %d characters.",
		mode, len([]rune(t.store.Content()))), nil
}

// -------------------- update_concept --------------------

type updateConceptTool struct {
	store core.DocumentStore
}

func (t *updateConceptTool) Name() string { return "update_concept" }

func (t *updateConceptTool) Description() string {
	return "Lock in or revise the document concept: title, core argument, audience and tone."
}

func (t *updateConceptTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":        map[string]any{"type": "string", "description": "Working title"},
			"coreArgument": map[string]any{"type": "string", "description": "The central argument or thesis"},
			"audience":     map[string]any{"type": "string", "description": "Intended audience"},
			"tone":         map[string]any{"type": "string", "description": "Voice and tone"},
		},
		"required": []string{"title", "coreArgument", "audience", "tone"},
	}
}

func (t *updateConceptTool) Call(_ context.Context, input map[string]any) (string, error) {
	concept := core.ConceptSnapshot{
		Title:        input["title"].(string),
		CoreArgument: input["coreArgument"].(string),
		Audience:     input["audience"].(string),
		Tone:         input["tone"].(string),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := t.store.SetConcept(concept); err != nil {
		return "", err
	}
	return fmt.Sprintf("Concept updated: %q.", concept.Title), nil
}

// -------------------- update_outline --------------------

type updateOutlineTool struct {
	store core.DocumentStore
}

func (t *updateOutlineTool) Name() string { return "update_outline" }

func (t *updateOutlineTool) Description() string {
	return "Replace the document outline with an ordered list of sections. " +
		"Keep section ids stable when revising so identity survives reordering."
}

func (t *updateOutlineTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sections": map[string]any{
				"type": "array",
				"description": "Ordered outline sections; each has title, description " +
					"and optional id and estimatedWords",
			},
		},
		"required": []string{"sections"},
	}
}

func (t *updateOutlineTool) Call(_ context.Context, input map[string]any) (string, error) {
	raw, ok := input["sections"].([]any)
	if !ok {
		return "", fmt.Errorf("sections must be an array")
	}

	sections := make([]core.OutlineSection, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return "", fmt.Errorf("sections[%d] must be an object", i)
		}
		title, ok := obj["title"].(string)
		if !ok || strings.TrimSpace(title) == "" {
			return "", fmt.Errorf("sections[%d] is missing a title", i)
		}
		section := core.OutlineSection{Title: title}
		if id, ok := obj["id"].(string); ok && id != "" {
			section.ID = id
		} else {
			section.ID = core.NewID()
		}
		if description, ok := obj["description"].(string); ok {
			section.Description = description
		}
		if words, ok := obj["estimatedWords"]; ok {
			n, err := intValue(words)
			if err != nil {
				return "", fmt.Errorf("sections[%d].estimatedWords: %w", i, err)
			}
			section.EstimatedWords = n
		}
		sections = append(sections, section)
	}

	if err := t.store.SetOutline(sections); err != nil {
		return "", err
	}
	return fmt.Sprintf("Outline updated with %d sections.", len(sections)), nil
}

// -------------------- update_stage --------------------

type updateStageTool struct {
	store core.DocumentStore
}

func (t *updateStageTool) Name() string { return "update_stage" }

func (t *updateStageTool) Description() string {
	return "Move the document to a different writing stage."
}

func (t *updateStageTool) InputSchema() map[string]any {
	stages := core.Stages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stage": map[string]any{
				"type":        "string",
				"enum":        names,
				"description": "Target stage",
			},
		},
		"required": []string{"stage"},
	}
}

func (t *updateStageTool) Call(_ context.Context, input map[string]any) (string, error) {
	stage, err := core.ParseStage(input["stage"].(string))
	if err != nil {
		return "", err
	}
	if err := t.store.SetStage(stage); err != nil {
		return "", err
	}
	return fmt.Sprintf("Stage set to %s.", stage), nil
}

// -------------------- add_edit_suggestion --------------------

type addEditSuggestionTool struct {
	store core.DocumentStore
}

func (t *addEditSuggestionTool) Name() string { return "add_edit_suggestion" }

func (t *addEditSuggestionTool) Description() string {
	return "Propose an edit to a range of the document for the user to accept or reject. " +
		"Offsets are character positions in the current content."
}

func (t *addEditSuggestionTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type":        "string",
				"enum":        []string{"replace", "insert", "delete"},
				"description": "Kind of edit",
			},
			"start":         map[string]any{"type": "integer", "description": "Range start (inclusive)"},
			"end":           map[string]any{"type": "integer", "description": "Range end (exclusive)"},
			"originalText":  map[string]any{"type": "string", "description": "Text currently in the range"},
			"suggestedText": map[string]any{"type": "string", "description": "Replacement or inserted text"},
			"reasoning":     map[string]any{"type": "string", "description": "Why this edit improves the draft"},
		},
		"required": []string{"type", "start", "end"},
	}
}

func (t *addEditSuggestionTool) Call(_ context.Context, input map[string]any) (string, error) {
	editType, err := core.ParseEditType(input["type"].(string))
	if err != nil {
		return "", err
	}
	start, err := intValue(input["start"])
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}
	end, err := intValue(input["end"])
	if err != nil {
		return "", fmt.Errorf("end: %w", err)
	}

	contentLen := len([]rune(t.store.Content()))
	if start < 0 || end < start || end > contentLen {
		return "", fmt.Errorf("range [%d,%d) out of bounds for content of length %d", start, end, contentLen)
	}
	if editType == core.EditInsert && end != start {
		return "", fmt.Errorf("insert suggestions require end == start")
	}

	suggestion := core.EditSuggestion{
		ID:    core.NewID(),
		Type:  editType,
		Range: core.Range{Start: start, End: end},
	}
	if s, ok := input["originalText"].(string); ok {
		suggestion.OriginalText = s
	}
	if s, ok := input["suggestedText"].(string); ok {
		suggestion.SuggestedText = s
	}
	if s, ok := input["reasoning"].(string); ok {
		suggestion.Reasoning = s
	}

	if err := t.store.AddSuggestion(suggestion); err != nil {
		return "", err
	}
	return fmt.Sprintf("Edit suggestion %s recorded.", suggestion.ID), nil
}

// intValue normalizes the integer shapes a JSON-decoded input can carry.
func intValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

package core

import (
	"fmt"
	"time"
)

// Stage identifies the phase a document is in. Progression through the stages
// is a UI convention; the core accepts any transition a tool call requests.
type Stage string

const (
	// StageIdea is the pre-concept brainstorming phase.
	StageIdea Stage = "idea"
	// StageConcept is the phase where the core argument is pinned down.
	StageConcept Stage = "concept"
	// StageOutline is the structural planning phase.
	StageOutline Stage = "outline"
	// StageDraft is the main writing phase.
	StageDraft Stage = "draft"
	// StageEdits is the revision phase driven by edit suggestions.
	StageEdits Stage = "edits"
	// StagePolish is the final read-through phase.
	StagePolish Stage = "polish"
)

// stageOrder lists the stages in their conventional progression.
var stageOrder = []Stage{StageIdea, StageConcept, StageOutline, StageDraft, StageEdits, StagePolish}

// ParseStage validates a stage string received from a tool call.
func ParseStage(s string) (Stage, error) {
	for _, st := range stageOrder {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// Stages returns the ordered stage progression.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// OutlineSection is one planned section of the document. Identity is by ID,
// not position; reordering sections does not create or destroy them.
type OutlineSection struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	EstimatedWords int    `json:"estimatedWords,omitempty"` // 0 means unspecified
}

// ConceptSnapshot is the locked concept the document is being written against.
type ConceptSnapshot struct {
	Title        string    `json:"title"`
	CoreArgument string    `json:"coreArgument"`
	Audience     string    `json:"audience"`
	Tone         string    `json:"tone"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Snapshot is an immutable capture of the mutable document state at a point
// in time, used both as "current" and as the model's last-seen diff baseline.
type Snapshot struct {
	Content string           `json:"content"`
	Outline []OutlineSection `json:"outline,omitempty"`
	Stage   Stage            `json:"stage"`
}

// CloneOutline returns a defensive copy of an outline slice.
func CloneOutline(outline []OutlineSection) []OutlineSection {
	if outline == nil {
		return nil
	}
	out := make([]OutlineSection, len(outline))
	copy(out, outline)
	return out
}

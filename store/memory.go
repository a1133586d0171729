package store

import (
	"sync"
	"time"

	"github.com/draftloop/draftloop/core"
)

// OutlineVersion is a superseded outline kept in the append-only history.
type OutlineVersion struct {
	Sections  []core.OutlineSection `json:"sections"`
	CreatedAt time.Time             `json:"createdAt"`
}

// EditHistoryEntry records the application (or rejection) of an edit
// suggestion against the document.
type EditHistoryEntry struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	Before    string    `json:"before"`
	After     string    `json:"after"`
	Accepted  bool      `json:"accepted"`
	Rationale string    `json:"rationale,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// InMemory is a volatile DocumentStore implementation storing all document
// state in process-local fields guarded by a single mutex, so tool handlers
// running on real OS threads observe the same serialization a cooperative
// single-threaded host would provide.
type InMemory struct {
	mu sync.RWMutex

	content     string
	outline     []core.OutlineSection
	concept     *core.ConceptSnapshot
	stage       core.Stage
	suggestions []core.EditSuggestion
	lastSeen    *core.Snapshot

	conceptVersions []core.ConceptSnapshot
	outlineVersions []OutlineVersion
	editHistory     []EditHistoryEntry
}

// NewInMemory constructs an empty store starting at the concept stage.
func NewInMemory() *InMemory {
	return &InMemory{stage: core.StageConcept}
}

// Content returns the current document text.
func (s *InMemory) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// SetContent replaces the document text.
func (s *InMemory) SetContent(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	return nil
}

// Outline returns a copy of the current outline, or nil when none is set.
func (s *InMemory) Outline() []core.OutlineSection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneOutline(s.outline)
}

// SetOutline replaces the outline, archiving the previous one.
func (s *InMemory) SetOutline(outline []core.OutlineSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outline != nil {
		s.outlineVersions = append(s.outlineVersions, OutlineVersion{
			Sections:  s.outline,
			CreatedAt: time.Now().UTC(),
		})
	}
	s.outline = core.CloneOutline(outline)
	return nil
}

// Concept returns a copy of the locked concept, or nil when none is set.
func (s *InMemory) Concept() *core.ConceptSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.concept == nil {
		return nil
	}
	c := *s.concept
	return &c
}

// SetConcept replaces the locked concept, archiving the previous one.
func (s *InMemory) SetConcept(concept core.ConceptSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.concept != nil {
		s.conceptVersions = append(s.conceptVersions, *s.concept)
	}
	s.concept = &concept
	return nil
}

// Stage returns the current document stage.
func (s *InMemory) Stage() core.Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

// SetStage transitions the document stage.
func (s *InMemory) SetStage(stage core.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
	return nil
}

// AddSuggestion records a model-proposed edit in proposal order.
func (s *InMemory) AddSuggestion(suggestion core.EditSuggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = append(s.suggestions, suggestion)
	return nil
}

// Suggestions returns all recorded edit suggestions in proposal order.
func (s *InMemory) Suggestions() []core.EditSuggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.EditSuggestion, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Snapshot captures the current content/outline/stage.
func (s *InMemory) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Snapshot{
		Content: s.content,
		Outline: core.CloneOutline(s.outline),
		Stage:   s.stage,
	}
}

// LastSeen returns the snapshot recorded after the model's previous turn.
func (s *InMemory) LastSeen() *core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSeen == nil {
		return nil
	}
	snap := *s.lastSeen
	snap.Outline = core.CloneOutline(s.lastSeen.Outline)
	return &snap
}

// RecordLastSeen captures the current state as the new diff baseline.
func (s *InMemory) RecordLastSeen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := core.Snapshot{
		Content: s.content,
		Outline: core.CloneOutline(s.outline),
		Stage:   s.stage,
	}
	s.lastSeen = &snap
}

// ConceptVersions returns the append-only history of superseded concepts.
func (s *InMemory) ConceptVersions() []core.ConceptSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ConceptSnapshot, len(s.conceptVersions))
	copy(out, s.conceptVersions)
	return out
}

// OutlineVersions returns the append-only history of superseded outlines.
func (s *InMemory) OutlineVersions() []OutlineVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OutlineVersion, len(s.outlineVersions))
	copy(out, s.outlineVersions)
	return out
}

// AppendEditHistory records a suggestion application or rejection.
func (s *InMemory) AppendEditHistory(entry EditHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.editHistory = append(s.editHistory, entry)
}

// EditHistory returns the recorded edit history in append order.
func (s *InMemory) EditHistory() []EditHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EditHistoryEntry, len(s.editHistory))
	copy(out, s.editHistory)
	return out
}

var _ core.DocumentStore = (*InMemory)(nil)

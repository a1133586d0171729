package core

// DocumentStore is the contract through which the orchestration core reads
// and mutates the externally-owned document state. It is injected into the
// loop controller and the tool executor rather than held as a package-level
// singleton, so tests can substitute an in-memory fake.
//
// Implementations backed by real OS threads must serialize mutation of the
// content/outline/concept/stage state internally; tool handlers assume only
// the cooperative single-flow guarantee of the loop.
type DocumentStore interface {
	// Content returns the current document text.
	Content() string
	// SetContent replaces the document text.
	SetContent(content string) error

	// Outline returns the current outline, or nil when none is set.
	Outline() []OutlineSection
	// SetOutline replaces the outline.
	SetOutline(outline []OutlineSection) error

	// Concept returns the locked concept, or nil when none is set.
	Concept() *ConceptSnapshot
	// SetConcept replaces the locked concept.
	SetConcept(concept ConceptSnapshot) error

	// Stage returns the current document stage.
	Stage() Stage
	// SetStage transitions the document stage. Any transition is accepted.
	SetStage(stage Stage) error

	// AddSuggestion records a model-proposed edit for later review.
	AddSuggestion(s EditSuggestion) error
	// Suggestions returns all recorded edit suggestions in proposal order.
	Suggestions() []EditSuggestion

	// Snapshot captures the current content/outline/stage.
	Snapshot() Snapshot
	// LastSeen returns the snapshot recorded after the model's previous
	// turn, or nil before the first turn completes.
	LastSeen() *Snapshot
	// RecordLastSeen captures the current state as the new diff baseline.
	// The loop controller calls this on every exit path, success or not.
	RecordLastSeen()
}

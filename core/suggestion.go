package core

import "fmt"

// EditType discriminates the kinds of model-proposed text edits.
type EditType string

const (
	// EditReplace substitutes the ranged text with SuggestedText.
	EditReplace EditType = "replace"
	// EditInsert inserts SuggestedText at Range.Start (Range.End must equal Start).
	EditInsert EditType = "insert"
	// EditDelete removes the ranged text; SuggestedText is ignored.
	EditDelete EditType = "delete"
)

// ParseEditType validates an edit type string received from a tool call.
func ParseEditType(s string) (EditType, error) {
	switch EditType(s) {
	case EditReplace, EditInsert, EditDelete:
		return EditType(s), nil
	}
	return "", fmt.Errorf("unknown edit type %q", s)
}

// Range is a half-open [Start, End) span of character offsets into the
// document content as it was at proposal time. Offsets become stale once any
// accepted edit shifts the content; the patch engine recalculates them.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of characters covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// Overlaps reports whether two ranges intersect in the same coordinate space.
// Pure insertions at the same offset do not count as overlapping.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// EditSuggestion is a model-proposed edit to the document content.
type EditSuggestion struct {
	ID            string   `json:"id"`
	Type          EditType `json:"type"`
	Range         Range    `json:"range"`
	OriginalText  string   `json:"originalText"`
	SuggestedText string   `json:"suggestedText"`
	Reasoning     string   `json:"reasoning,omitempty"`
}

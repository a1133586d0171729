// Package patch applies model-proposed edit suggestions to document content.
// Ranges are half-open character (rune) offsets valid at proposal time; when
// several accepted edits are applied in sequence each one shifts the offsets
// of everything after it, so the engine recalculates positions incrementally.
// Overlapping accepted ranges are a caller error and fail the whole batch
// before any edit is applied.
package patch

import (
	"fmt"
	"sort"

	"github.com/draftloop/draftloop/core"
)

// OverlapError reports two accepted suggestions whose ranges intersect in
// original coordinates. The batch is rejected atomically.
type OverlapError struct {
	FirstID  string
	SecondID string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("suggestions %s and %s have overlapping ranges", e.FirstID, e.SecondID)
}

// Apply applies a single suggestion to content and returns the result.
func Apply(content string, s core.EditSuggestion) (string, error) {
	runes := []rune(content)
	if err := validate(s, len(runes)); err != nil {
		return "", err
	}
	return string(splice(runes, s)), nil
}

// ApplyAll applies every suggestion whose id is in acceptedIDs. Suggestions
// are sorted by ascending Range.Start (stable, preserving proposal order on
// ties) so the application order is deterministic regardless of the order the
// ids were accepted in. Rejected suggestions are skipped and never affect the
// offset bookkeeping of applied ones. The result is all-or-nothing: any
// validation or overlap failure leaves the content untouched.
func ApplyAll(content string, suggestions []core.EditSuggestion, acceptedIDs map[string]bool) (string, error) {
	accepted := make([]core.EditSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if acceptedIDs[s.ID] {
			accepted = append(accepted, s)
		}
	}
	if len(accepted) == 0 {
		return content, nil
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Range.Start < accepted[j].Range.Start
	})

	runes := []rune(content)
	for _, s := range accepted {
		if err := validate(s, len(runes)); err != nil {
			return "", err
		}
	}
	for i := 0; i < len(accepted); i++ {
		for j := i + 1; j < len(accepted); j++ {
			if accepted[i].Range.Overlaps(accepted[j].Range) {
				return "", &OverlapError{FirstID: accepted[i].ID, SecondID: accepted[j].ID}
			}
		}
	}

	// Sorted ascending and non-overlapping, so a running shift is enough to
	// translate original coordinates into current ones.
	shift := 0
	for _, s := range accepted {
		shifted := s
		shifted.Range.Start += shift
		shifted.Range.End += shift
		runes = splice(runes, shifted)
		shift += delta(s)
	}
	return string(runes), nil
}

func validate(s core.EditSuggestion, contentLen int) error {
	r := s.Range
	if r.Start < 0 || r.End < r.Start || r.End > contentLen {
		return fmt.Errorf("suggestion %s: range [%d,%d) out of bounds for content of length %d",
			s.ID, r.Start, r.End, contentLen)
	}
	if s.Type == core.EditInsert && r.End != r.Start {
		return fmt.Errorf("suggestion %s: insert range end %d must equal start %d", s.ID, r.End, r.Start)
	}
	switch s.Type {
	case core.EditReplace, core.EditInsert, core.EditDelete:
		return nil
	}
	return fmt.Errorf("suggestion %s: unknown edit type %q", s.ID, s.Type)
}

// splice performs the edit against the rune slice; the range must already be
// validated and expressed in current coordinates.
func splice(runes []rune, s core.EditSuggestion) []rune {
	var replacement []rune
	switch s.Type {
	case core.EditReplace, core.EditInsert:
		replacement = []rune(s.SuggestedText)
	case core.EditDelete:
		// SuggestedText ignored.
	}
	out := make([]rune, 0, len(runes)-s.Range.Len()+len(replacement))
	out = append(out, runes[:s.Range.Start]...)
	out = append(out, replacement...)
	out = append(out, runes[s.Range.End:]...)
	return out
}

// delta is the signed length change an applied suggestion causes, in runes.
func delta(s core.EditSuggestion) int {
	switch s.Type {
	case core.EditReplace, core.EditInsert:
		return len([]rune(s.SuggestedText)) - s.Range.Len()
	case core.EditDelete:
		return -s.Range.Len()
	}
	return 0
}
